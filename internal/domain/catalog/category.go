package catalog

import (
	"context"
	"regexp"
	"unicode/utf8"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested item or category does not exist
// or is no longer active.
var ErrNotFound = errors.New("not found")

// slugPattern is the character class accepted for category and item slugs.
var slugPattern = regexp.MustCompile(`^[a-z0-9\-_]+$`)

// FieldError reports a single invalid field value. It is recoverable: callers
// return it to the client for correction, nothing is persisted.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

// ParseSlug validates a URL-safe slug (lowercase letters, digits, hyphens,
// underscores). Validation happens before any write reaches storage.
func ParseSlug(s string) (string, error) {
	if s == "" {
		return "", &FieldError{Field: "slug", Reason: "must not be blank"}
	}
	if !slugPattern.MatchString(s) {
		return "", &FieldError{Field: "slug", Reason: "must contain only lowercase letters, numbers, hyphens or underscores"}
	}
	return s, nil
}

// ParseTitle validates a display title: non-blank, at most 100 characters.
func ParseTitle(s string) (string, error) {
	if s == "" {
		return "", &FieldError{Field: "title", Reason: "must not be blank"}
	}
	if utf8.RuneCountInString(s) > 100 {
		return "", &FieldError{Field: "title", Reason: "must be at most 100 characters"}
	}
	return s, nil
}

// Category groups items for browsing.
type Category struct {
	ID          string
	Title       string
	Slug        string
	Description string
	Image       string
	IsActive    bool
}

// NewCategory builds a Category with validated title and slug.
func NewCategory(id, title, slug, description, image string) (Category, error) {
	t, err := ParseTitle(title)
	if err != nil {
		return Category{}, err
	}
	s, err := ParseSlug(slug)
	if err != nil {
		return Category{}, err
	}
	return Category{
		ID:          id,
		Title:       t,
		Slug:        s,
		Description: description,
		Image:       image,
		IsActive:    true,
	}, nil
}

// Repository defines read operations for the catalog. Implementations only
// surface active rows; inactive items behave as absent.
type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	ListItems(ctx context.Context, params ListParams) (ItemPage, error)
	FindItemBySlug(ctx context.Context, slug string) (*Item, error)
}
