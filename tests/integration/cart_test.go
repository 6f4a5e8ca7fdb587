//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestCart_Unauthorized(t *testing.T) {
	resp := doRequest(t, http.MethodGet, "/api/cart", nil, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without api key, got %d", resp.StatusCode)
	}
}

func TestCart_WrongKey(t *testing.T) {
	resp := doRequest(t, http.MethodGet, "/api/cart", nil, "not-the-right-key")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong api key, got %d", resp.StatusCode)
	}
}

// The no-active-order cases must run before anything creates the seeded
// user's open order, which persists for the rest of the suite.
func TestCart_NoActiveOrder(t *testing.T) {
	t.Run("summary redirects", func(t *testing.T) {
		resp := doAuthed(t, http.MethodGet, "/api/cart", nil)
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", resp.StatusCode)
		}
		if loc := resp.Header.Get("Location"); loc != "/api/items" {
			t.Errorf("expected Location /api/items, got %q", loc)
		}

		body := decodeJSON[errorResponse](t, resp)
		if !containsText(body.Messages, "You do not have an active order") {
			t.Errorf("missing no-active-order message, got %v", messageTexts(body.Messages))
		}
	})

	t.Run("remove redirects", func(t *testing.T) {
		resp := doAuthed(t, http.MethodDelete, "/api/cart/running-tee", nil)
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", resp.StatusCode)
		}
	})

	t.Run("coupon redirects", func(t *testing.T) {
		resp := doAuthed(t, http.MethodPost, "/api/cart/coupon", map[string]string{"code": "WELCOME10"})
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", resp.StatusCode)
		}
	})
}

func TestCart_AddAndRemove(t *testing.T) {
	clearCart(t)

	resp := doAuthed(t, http.MethodPost, "/api/cart/running-tee", nil)
	first := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if !containsText(first.Messages, "This item was added to your cart.") {
		t.Errorf("missing added message, got %v", messageTexts(first.Messages))
	}
	if len(first.Lines) != 1 || first.Lines[0].Quantity != 1 {
		t.Fatalf("expected one line with quantity 1, got %+v", first.Lines)
	}
	if first.Total != "24.00" {
		t.Errorf("expected total 24.00, got %q", first.Total)
	}

	resp = doAuthed(t, http.MethodPost, "/api/cart/running-tee", nil)
	second := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if !containsText(second.Messages, "This item quantity was updated.") {
		t.Errorf("missing quantity message, got %v", messageTexts(second.Messages))
	}
	if len(second.Lines) != 1 || second.Lines[0].Quantity != 2 {
		t.Fatalf("expected one line with quantity 2, got %+v", second.Lines)
	}
	if second.Total != "48.00" {
		t.Errorf("expected total 48.00, got %q", second.Total)
	}
	if second.RefCode != first.RefCode {
		t.Errorf("ref code changed between adds: %q vs %q", first.RefCode, second.RefCode)
	}

	resp = doAuthed(t, http.MethodDelete, "/api/cart/running-tee", nil)
	third := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(third.Lines) != 1 || third.Lines[0].Quantity != 1 {
		t.Fatalf("expected quantity back to 1, got %+v", third.Lines)
	}

	resp = doAuthed(t, http.MethodDelete, "/api/cart/running-tee", nil)
	fourth := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(fourth.Lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", fourth.Lines)
	}
	if fourth.Total != "0.00" {
		t.Errorf("expected total 0.00, got %q", fourth.Total)
	}
}

func TestCart_RemoveItemNotInCart(t *testing.T) {
	clearCart(t)

	resp := doAuthed(t, http.MethodPost, "/api/cart/running-tee", nil)
	resp.Body.Close()

	resp = doAuthed(t, http.MethodDelete, "/api/cart/field-jacket", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeJSON[cartResponse](t, resp)
	if !containsText(body.Messages, "This item was not in your cart.") {
		t.Errorf("missing not-in-cart message, got %v", messageTexts(body.Messages))
	}
}

func TestCart_AddUnknownItem(t *testing.T) {
	resp := doAuthed(t, http.MethodPost, "/api/cart/no-such-item", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCart_ApplyCoupon(t *testing.T) {
	clearCart(t)

	resp := doAuthed(t, http.MethodPost, "/api/cart/track-pants", nil)
	resp.Body.Close()

	resp = doAuthed(t, http.MethodPost, "/api/cart/coupon", map[string]string{"code": "WELCOME10"})
	body := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()

	if !containsText(body.Messages, "Successfully added coupon") {
		t.Errorf("missing coupon message, got %v", messageTexts(body.Messages))
	}
	if body.Subtotal != "54.00" {
		t.Errorf("expected subtotal 54.00, got %q", body.Subtotal)
	}
	if body.Total != "44.00" {
		t.Errorf("expected total 44.00 after 10 off, got %q", body.Total)
	}
}

func TestCart_ApplyCoupon_ReplacesPrevious(t *testing.T) {
	// Builds on the WELCOME10 coupon applied above.
	resp := doAuthed(t, http.MethodPost, "/api/cart/coupon", map[string]string{"code": "SUMMER15"})
	body := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()

	if body.Total != "39.00" {
		t.Errorf("expected total 39.00 after 15 off, got %q", body.Total)
	}
}

func TestCart_ApplyCoupon_Invalid(t *testing.T) {
	resp := doAuthed(t, http.MethodPost, "/api/cart/coupon", map[string]string{"code": "NOPE123"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeJSON[cartResponse](t, resp)
	if !containsText(body.Messages, "Invalid coupon code") {
		t.Errorf("missing invalid-coupon message, got %v", messageTexts(body.Messages))
	}
	// The previously attached coupon stays in effect.
	if body.Total != "39.00" {
		t.Errorf("expected total unchanged at 39.00, got %q", body.Total)
	}
}

// clearCart removes every line from the current open order so tests start
// from a known cart state. The open order itself persists.
func clearCart(t *testing.T) {
	t.Helper()

	resp := doAuthed(t, http.MethodGet, "/api/cart", nil)
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusSeeOther {
		return
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get cart: expected 200, got %d", resp.StatusCode)
	}

	cart := decodeJSON[cartResponse](t, resp)
	for _, line := range cart.Lines {
		for i := 0; i < line.Quantity; i++ {
			r := doAuthed(t, http.MethodDelete, "/api/cart/"+line.Slug, nil)
			r.Body.Close()
		}
	}
}
