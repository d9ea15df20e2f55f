package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/HerbHall/phonedex/internal/services"
	"github.com/HerbHall/phonedex/internal/testutil"
)

func newSettingsRepo(t *testing.T) *services.SQLiteSettingsRepository {
	t.Helper()
	store := testutil.NewStore(t)
	repo, err := services.NewSQLiteSettingsRepository(context.Background(), store)
	if err != nil {
		t.Fatalf("NewSQLiteSettingsRepository: %v", err)
	}
	return repo
}

func TestSQLiteSettingsRepository_SetAndGet(t *testing.T) {
	repo := newSettingsRepo(t)
	ctx := context.Background()

	if err := repo.Set(ctx, "user-1", "currency", "usd"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	s, err := repo.Get(ctx, "user-1", "currency")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.Key != "currency" {
		t.Errorf("Key = %q, want %q", s.Key, "currency")
	}
	if s.Value != "usd" {
		t.Errorf("Value = %q, want %q", s.Value, "usd")
	}
	if s.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", s.UserID, "user-1")
	}
	if s.UpdatedAt.IsZero() {
		t.Error("UpdatedAt is zero")
	}
}

func TestSQLiteSettingsRepository_SetOverwrite(t *testing.T) {
	repo := newSettingsRepo(t)
	ctx := context.Background()

	if err := repo.Set(ctx, "user-1", "dark_mode", "false"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := repo.Set(ctx, "user-1", "dark_mode", "true"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}

	s, err := repo.Get(ctx, "user-1", "dark_mode")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.Value != "true" {
		t.Errorf("Value = %q, want %q", s.Value, "true")
	}
}

func TestSQLiteSettingsRepository_ScopedPerUser(t *testing.T) {
	repo := newSettingsRepo(t)
	ctx := context.Background()

	if err := repo.Set(ctx, "user-1", "language", "ar"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if _, err := repo.Get(ctx, "user-2", "language"); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Get other user = %v, want ErrNotFound", err)
	}
}

func TestSQLiteSettingsRepository_GetNotFound(t *testing.T) {
	repo := newSettingsRepo(t)
	ctx := context.Background()

	_, err := repo.Get(ctx, "user-1", "nonexistent")
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Get nonexistent = %v, want ErrNotFound", err)
	}
}

func TestSQLiteSettingsRepository_GetAll(t *testing.T) {
	repo := newSettingsRepo(t)
	ctx := context.Background()

	// Empty initially.
	all, err := repo.GetAll(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetAll empty: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("GetAll empty = %d items, want 0", len(all))
	}

	if err := repo.SetMany(ctx, "user-1", map[string]string{
		"language":  "en",
		"currency":  "sar",
		"dark_mode": "true",
	}); err != nil {
		t.Fatalf("SetMany: %v", err)
	}
	if err := repo.Set(ctx, "user-2", "currency", "egp"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	all, err = repo.GetAll(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("GetAll = %d items, want 3", len(all))
	}
	// Results are ordered by key.
	if all[0].Key != "currency" || all[1].Key != "dark_mode" || all[2].Key != "language" {
		t.Errorf("GetAll order = [%s, %s, %s], want [currency, dark_mode, language]",
			all[0].Key, all[1].Key, all[2].Key)
	}
}

func TestSQLiteSettingsRepository_Delete(t *testing.T) {
	repo := newSettingsRepo(t)
	ctx := context.Background()

	if err := repo.Set(ctx, "user-1", "to_delete", "value"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := repo.Delete(ctx, "user-1", "to_delete"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, err := repo.Get(ctx, "user-1", "to_delete")
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestSQLiteSettingsRepository_DeleteNotFound(t *testing.T) {
	repo := newSettingsRepo(t)
	ctx := context.Background()

	err := repo.Delete(ctx, "user-1", "nonexistent")
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Delete nonexistent = %v, want ErrNotFound", err)
	}
}
