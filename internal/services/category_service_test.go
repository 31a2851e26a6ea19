package services

import (
	"context"
	"errors"
	"testing"

	"github.com/James-hg/MountMadness2026/internal/core"
)

func TestCategoryServiceEnsureCategory(t *testing.T) {
	repo := newTestRepo(t)
	user := testUser(t, repo)
	svc := NewCategoryService(repo)
	ctx := context.Background()

	created, err := svc.EnsureCategory(ctx, user, "  Climbing Gym ", core.Expense)
	if err != nil {
		t.Fatalf("EnsureCategory() error = %v", err)
	}
	if created.Slug != "climbing_gym" || created.Name != "Climbing Gym" || created.OwnerID != user.ID || created.IsSystem {
		t.Errorf("EnsureCategory() = %+v, want a user-owned climbing_gym", created)
	}

	again, err := svc.EnsureCategory(ctx, user, "climbing GYM", core.Expense)
	if err != nil {
		t.Fatalf("EnsureCategory() repeat error = %v", err)
	}
	if again.ID != created.ID {
		t.Errorf("EnsureCategory() repeat = %s, want the existing %s", again.ID, created.ID)
	}

	listed, err := svc.ListByKind(ctx, user, core.Expense)
	if err != nil {
		t.Fatalf("ListByKind() error = %v", err)
	}
	if len(listed) != 10 {
		t.Errorf("ListByKind() returned %d categories, want the 9 stock ones plus climbing_gym", len(listed))
	}

	// A name that collapses onto a stock slug resolves to the stock row.
	food, err := svc.EnsureCategory(ctx, user, "FOOD", core.Expense)
	if err != nil {
		t.Fatalf("EnsureCategory(FOOD) error = %v", err)
	}
	if !food.IsSystem || food.Slug != "food" {
		t.Errorf("EnsureCategory(FOOD) = %+v, want the stock food category", food)
	}

	if _, err := svc.EnsureCategory(ctx, user, "!!!", core.Expense); !errors.Is(err, core.ErrInvalidSlug) {
		t.Errorf("EnsureCategory(!!!) error = %v, want ErrInvalidSlug", err)
	}
}

func TestCategoryServiceFixedFlags(t *testing.T) {
	repo := newTestRepo(t)
	user := testUser(t, repo)
	svc := NewCategoryService(repo)
	ctx := context.Background()
	housing := categoryBySlug(t, repo, user, "housing_rent")

	if err := svc.MarkFixed(ctx, user, "housing_rent"); err != nil {
		t.Fatalf("MarkFixed() error = %v", err)
	}
	fixed, err := svc.FixedCategoryIDs(ctx, user)
	if err != nil {
		t.Fatalf("FixedCategoryIDs() error = %v", err)
	}
	if !fixed[housing.ID] {
		t.Error("housing_rent not flagged fixed after MarkFixed()")
	}

	if err := svc.UnmarkFixed(ctx, user, "housing_rent"); err != nil {
		t.Fatalf("UnmarkFixed() error = %v", err)
	}
	fixed, err = svc.FixedCategoryIDs(ctx, user)
	if err != nil {
		t.Fatalf("FixedCategoryIDs() error = %v", err)
	}
	if len(fixed) != 0 {
		t.Errorf("FixedCategoryIDs() = %v after UnmarkFixed(), want none", fixed)
	}

	if err := svc.MarkFixed(ctx, user, "no_such_slug"); !errors.Is(err, core.ErrCategoryNotFound) {
		t.Errorf("MarkFixed(unknown) error = %v, want ErrCategoryNotFound", err)
	}
}
