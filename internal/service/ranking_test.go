package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/and161185/recipebox/internal/model"
	"github.com/gofrs/uuid/v5"
)

func mean(rs ...int) *float64 {
	sum := 0
	for _, r := range rs {
		sum += r
	}
	v := float64(sum) / float64(len(rs))
	return &v
}

func ranked(title string, created time.Time, avg *float64) model.RankedRecipe {
	return model.RankedRecipe{
		Recipe:    model.Recipe{ID: uuid.Must(uuid.NewV4()), Title: title, CreatedAt: created},
		AvgRating: avg,
	}
}

func titles(list []model.RankedRecipe) []string {
	out := make([]string, len(list))
	for i, r := range list {
		out[i] = r.Recipe.Title
	}
	return out
}

func TestSortRanked_Order(t *testing.T) {
	t.Parallel()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	list := []model.RankedRecipe{
		ranked("none-old", t0, nil),
		ranked("three", t0, mean(3)),
		ranked("none-new", t0.Add(time.Hour), nil),
		ranked("three-point-five", t0, mean(2, 5)),
		ranked("five", t0, mean(5, 5)),
		ranked("three-older", t0.Add(-time.Hour), mean(1, 5)),
	}
	SortRanked(list)

	want := []string{"five", "three-point-five", "three-older", "three", "none-old", "none-new"}
	got := titles(list)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch:\n got  %v\n want %v", got, want)
		}
	}
}

func TestSortRanked_IDTieBreak(t *testing.T) {
	t.Parallel()
	t0 := time.Now()
	a := model.RankedRecipe{Recipe: model.Recipe{ID: uuid.FromStringOrNil("00000000-0000-4000-8000-000000000002"), Title: "b", CreatedAt: t0}}
	b := model.RankedRecipe{Recipe: model.Recipe{ID: uuid.FromStringOrNil("00000000-0000-4000-8000-000000000001"), Title: "a", CreatedAt: t0}}
	list := []model.RankedRecipe{a, b}
	SortRanked(list)
	if list[0].Recipe.Title != "a" {
		t.Fatalf("want id ascending tie-break, got %v", titles(list))
	}
}

// The averages here are precomputed; the SQL mean itself is covered by
// TestRecipeRepo_RankByAverageRating_MeanIsNotRounded.
func TestRank_ExactMeanAndKeepsUnreviewed(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	store.ranked = []model.RankedRecipe{
		ranked("unreviewed", time.Now(), nil),
		ranked("mixed", time.Now(), mean(2, 5)),
	}
	s := NewRankingService(store)

	list, err := s.Rank(context.Background())
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("unreviewed recipe must not be dropped: %v", titles(list))
	}
	if list[0].Recipe.Title != "mixed" || *list[0].AvgRating != 3.5 {
		t.Fatalf("want mixed=3.5 first, got %v", titles(list))
	}
	if list[1].AvgRating != nil {
		t.Fatalf("unreviewed must carry no average")
	}
}

func TestRank_StoreError(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	store.rankErr = errors.New("db down")
	if _, err := NewRankingService(store).Rank(context.Background()); err == nil {
		t.Fatalf("want error")
	}
}
