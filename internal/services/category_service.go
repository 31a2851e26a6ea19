package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/James-hg/MountMadness2026/internal/core"
	"github.com/James-hg/MountMadness2026/internal/storage"
)

// CategoryService manages the category catalog: system rows shared by
// everyone plus the user's own, and the per-user fixed markers that
// drive the fixed-category allocation branch.
type CategoryService struct {
	storage *storage.SQLiteRepository
}

func NewCategoryService(storage *storage.SQLiteRepository) *CategoryService {
	return &CategoryService{storage: storage}
}

// EnsureCategory resolves a display name to a category, creating a
// user-owned row when the slug is new. Resolving an existing slug
// returns that row unchanged, so the call is idempotent.
func (s *CategoryService) EnsureCategory(ctx context.Context, user core.User, name string, kind core.TransactionKind) (core.Category, error) {
	slug, err := core.Slugify(name)
	if err != nil {
		return core.Category{}, err
	}

	existing, err := s.storage.GetCategoryBySlug(ctx, user.ID, slug, kind)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, core.ErrCategoryNotFound) {
		return core.Category{}, err
	}

	category := core.Category{
		ID:      uuid.New(),
		OwnerID: user.ID,
		Name:    strings.TrimSpace(name),
		Slug:    slug,
		Kind:    kind,
	}
	if err := category.Validate(); err != nil {
		return core.Category{}, err
	}

	return s.storage.CreateCategory(ctx, category)
}

// GetBySlug resolves a slug within the categories visible to the user.
func (s *CategoryService) GetBySlug(ctx context.Context, user core.User, slug string, kind core.TransactionKind) (core.Category, error) {
	return s.storage.GetCategoryBySlug(ctx, user.ID, slug, kind)
}

// ListByKind returns the visible categories of one kind in ascending
// id order.
func (s *CategoryService) ListByKind(ctx context.Context, user core.User, kind core.TransactionKind) ([]core.Category, error) {
	return s.storage.ListCategoriesByKind(ctx, user.ID, kind)
}

// FixedCategoryIDs returns the set of categories the user marked fixed.
func (s *CategoryService) FixedCategoryIDs(ctx context.Context, user core.User) (map[uuid.UUID]bool, error) {
	return s.storage.ListFixedCategoryIDs(ctx, user.ID)
}

// MarkFixed flags an expense category as a fixed commitment. Fixed
// categories absorb the entire budget total on the next allocation.
func (s *CategoryService) MarkFixed(ctx context.Context, user core.User, slug string) error {
	category, err := s.storage.GetCategoryBySlug(ctx, user.ID, slug, core.Expense)
	if err != nil {
		return err
	}
	return s.storage.MarkCategoryFixed(ctx, user.ID, category.ID)
}

// UnmarkFixed clears a fixed marker. Returns core.ErrCategoryNotFound
// when the category was not marked.
func (s *CategoryService) UnmarkFixed(ctx context.Context, user core.User, slug string) error {
	category, err := s.storage.GetCategoryBySlug(ctx, user.ID, slug, core.Expense)
	if err != nil {
		return err
	}
	return s.storage.UnmarkCategoryFixed(ctx, user.ID, category.ID)
}

// visibleTo reports whether a category may be referenced by the user:
// system rows are shared, user rows require ownership.
func visibleTo(c core.Category, userID uuid.UUID) bool {
	return c.IsSystem || c.OwnerID == userID
}
