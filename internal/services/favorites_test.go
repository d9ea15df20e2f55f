package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HerbHall/phonedex/internal/services"
	"github.com/HerbHall/phonedex/internal/testutil"
)

func newFavoriteRepo(t *testing.T) *services.SQLiteFavoriteRepository {
	t.Helper()
	store := testutil.NewStore(t)
	repo, err := services.NewSQLiteFavoriteRepository(context.Background(), store)
	if err != nil {
		t.Fatalf("NewSQLiteFavoriteRepository: %v", err)
	}
	repo.SetClock(testutil.NewClock().AutoStep(time.Minute).Now)
	return repo
}

func addFavorite(t *testing.T, repo services.FavoriteRepository, userID, phoneID string, price float64) *services.Favorite {
	t.Helper()
	fav := &services.Favorite{
		UserID:     userID,
		PhoneID:    phoneID,
		PhoneName:  "Phone " + phoneID,
		PhoneImage: "https://images.phonedex.example/" + phoneID + ".png",
		PhonePrice: price,
	}
	if err := repo.Add(context.Background(), fav); err != nil {
		t.Fatalf("Add(%s, %s): %v", userID, phoneID, err)
	}
	return fav
}

func TestSQLiteFavoriteRepository_Add(t *testing.T) {
	repo := newFavoriteRepo(t)

	fav := addFavorite(t, repo, "user-1", "google-pixel-7a", 14970)
	if fav.ID == "" {
		t.Error("ID not generated")
	}
	if !fav.CreatedAt.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("CreatedAt = %v, want clock time", fav.CreatedAt)
	}

	exists, err := repo.Exists(context.Background(), "user-1", "google-pixel-7a")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Error("Exists = false after Add")
	}
}

func TestSQLiteFavoriteRepository_AddDuplicate(t *testing.T) {
	repo := newFavoriteRepo(t)
	addFavorite(t, repo, "user-1", "p1", 100)

	err := repo.Add(context.Background(), &services.Favorite{UserID: "user-1", PhoneID: "p1"})
	if !errors.Is(err, services.ErrAlreadyExists) {
		t.Errorf("duplicate Add = %v, want ErrAlreadyExists", err)
	}

	// The same phone for another user is fine.
	addFavorite(t, repo, "user-2", "p1", 100)
}

func TestSQLiteFavoriteRepository_ListNewestFirst(t *testing.T) {
	repo := newFavoriteRepo(t)
	addFavorite(t, repo, "user-1", "first", 300)
	addFavorite(t, repo, "user-1", "second", 100)
	addFavorite(t, repo, "user-1", "third", 200)
	addFavorite(t, repo, "user-2", "other", 50)

	res, err := repo.List(context.Background(), "user-1", services.ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.Total != 3 {
		t.Errorf("Total = %d, want 3", res.Total)
	}
	want := []string{"third", "second", "first"}
	if len(res.Items) != len(want) {
		t.Fatalf("Items = %d, want %d", len(res.Items), len(want))
	}
	for i, w := range want {
		if res.Items[i].PhoneID != w {
			t.Errorf("Items[%d] = %s, want %s", i, res.Items[i].PhoneID, w)
		}
	}
}

func TestSQLiteFavoriteRepository_ListSortAndPaginate(t *testing.T) {
	repo := newFavoriteRepo(t)
	addFavorite(t, repo, "user-1", "mid", 200)
	addFavorite(t, repo, "user-1", "cheap", 100)
	addFavorite(t, repo, "user-1", "pricey", 300)

	res, err := repo.List(context.Background(), "user-1", services.ListOptions{
		SortBy: "phone_price", SortOrder: "asc", Limit: 2, Offset: 1,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.Total != 3 {
		t.Errorf("Total = %d, want 3", res.Total)
	}
	if len(res.Items) != 2 || res.Items[0].PhoneID != "mid" || res.Items[1].PhoneID != "pricey" {
		t.Errorf("page = %+v, want [mid pricey]", res.Items)
	}
}

func TestSQLiteFavoriteRepository_ListEmpty(t *testing.T) {
	repo := newFavoriteRepo(t)

	res, err := repo.List(context.Background(), "nobody", services.ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.Items == nil || len(res.Items) != 0 || res.Total != 0 {
		t.Errorf("List empty = %+v, want empty non-nil items", res)
	}
}

func TestSQLiteFavoriteRepository_Delete(t *testing.T) {
	repo := newFavoriteRepo(t)
	ctx := context.Background()
	addFavorite(t, repo, "user-1", "p1", 100)

	if err := repo.Delete(ctx, "user-1", "p1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	exists, err := repo.Exists(ctx, "user-1", "p1")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Error("Exists = true after Delete")
	}

	if err := repo.Delete(ctx, "user-1", "p1"); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}
