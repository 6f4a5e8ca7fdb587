//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListCategories(t *testing.T) {
	resp := doGet(t, "/api/categories")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[categoriesResponse](t, resp)
	if len(body.Categories) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(body.Categories))
	}

	slugs := make(map[string]bool, len(body.Categories))
	for _, c := range body.Categories {
		slugs[c.Slug] = true
	}
	for _, want := range []string{"shirts", "sport-wear", "outwear"} {
		if !slugs[want] {
			t.Errorf("missing category %q in %v", want, slugs)
		}
	}
}

func TestListItems(t *testing.T) {
	resp := doGet(t, "/api/items")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[itemsResponse](t, resp)
	if body.Total != 6 {
		t.Fatalf("expected 6 items, got total %d", body.Total)
	}
	if len(body.Items) != 6 {
		t.Fatalf("expected 6 items in page, got %d", len(body.Items))
	}
	if body.Page != 1 {
		t.Errorf("expected page 1, got %d", body.Page)
	}
}

func TestListItems_ByCategory(t *testing.T) {
	resp := doGet(t, "/api/items?category=outwear")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[itemsResponse](t, resp)
	if body.Total != 2 {
		t.Fatalf("expected 2 outwear items, got total %d", body.Total)
	}
	for _, item := range body.Items {
		if item.Slug != "field-jacket" && item.Slug != "wool-overcoat" {
			t.Errorf("unexpected item %q in outwear", item.Slug)
		}
	}
}

func TestListItems_UnknownCategory(t *testing.T) {
	resp := doGet(t, "/api/items?category=no-such-category")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetItem(t *testing.T) {
	resp := doGet(t, "/api/items/oxford-button-down-shirt")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[struct {
		Title string `json:"title"`
		Slug  string `json:"slug"`
		Price string `json:"price"`
	}](t, resp)
	if body.Title != "Oxford Button-Down Shirt" {
		t.Errorf("unexpected title %q", body.Title)
	}
	if body.Price != "49.90" {
		t.Errorf("unexpected price %q", body.Price)
	}
}

func TestGetItem_NotFound(t *testing.T) {
	resp := doGet(t, "/api/items/no-such-item")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
