package service

import (
	"bytes"
	"cmp"
	"context"
	"slices"

	"github.com/and161185/recipebox/internal/model"
	"github.com/and161185/recipebox/internal/repository"
)

// RankingService ranks recipes by their average review rating.
type RankingService interface {
	// Rank returns every recipe, best average first; unreviewed recipes last.
	Rank(ctx context.Context) ([]model.RankedRecipe, error)
}

type RankingServiceImpl struct {
	repo repository.RankingRepository
}

// NewRankingService constructs RankingService.
func NewRankingService(repo repository.RankingRepository) *RankingServiceImpl {
	return &RankingServiceImpl{repo: repo}
}

// Rank loads the aggregates and applies SortRanked so the order does not
// depend on how the store treats NULL averages.
func (s *RankingServiceImpl) Rank(ctx context.Context) ([]model.RankedRecipe, error) {
	list, err := s.repo.RankByAverageRating(ctx)
	if err != nil {
		return nil, err
	}
	SortRanked(list)
	return list, nil
}

// SortRanked orders by average descending, recipes without an average last,
// then by creation time and id ascending.
func SortRanked(list []model.RankedRecipe) {
	slices.SortStableFunc(list, compareRanked)
}

func compareRanked(a, b model.RankedRecipe) int {
	switch {
	case a.AvgRating != nil && b.AvgRating == nil:
		return -1
	case a.AvgRating == nil && b.AvgRating != nil:
		return 1
	case a.AvgRating != nil && b.AvgRating != nil:
		if c := cmp.Compare(*b.AvgRating, *a.AvgRating); c != 0 {
			return c
		}
	}
	if c := a.Recipe.CreatedAt.Compare(b.Recipe.CreatedAt); c != 0 {
		return c
	}
	return bytes.Compare(a.Recipe.ID.Bytes(), b.Recipe.ID.Bytes())
}
