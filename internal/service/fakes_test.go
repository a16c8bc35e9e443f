package service

import (
	"context"
	"errors"
	"time"

	"github.com/and161185/recipebox/internal/errs"
	"github.com/and161185/recipebox/internal/model"
	"github.com/and161185/recipebox/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// memStore is an in-memory recipe/review store with the same ownership and
// uniqueness rules as the SQL schema.
type memStore struct {
	recipes map[uuid.UUID]model.Recipe
	reviews map[uuid.UUID]model.Review

	getErr    error
	existsErr error
	ranked    []model.RankedRecipe
	rankErr   error

	updateCalls int
}

var (
	_ repository.RecipeRepository  = (*memStore)(nil)
	_ repository.ReviewRepository  = (*memReviews)(nil)
	_ repository.RankingRepository = (*memStore)(nil)
)

func newMemStore() *memStore {
	return &memStore{recipes: map[uuid.UUID]model.Recipe{}, reviews: map[uuid.UUID]model.Review{}}
}

func (m *memStore) Create(_ context.Context, r *model.Recipe) error {
	r.CreatedAt = time.Now()
	m.recipes[r.ID] = *r
	return nil
}
func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (*model.Recipe, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	r, ok := m.recipes[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &r, nil
}
func (m *memStore) ListByAuthor(_ context.Context, authorID uuid.UUID) ([]model.Recipe, error) {
	out := []model.Recipe{}
	for _, r := range m.recipes {
		if r.AuthorID == authorID {
			out = append(out, r)
		}
	}
	return out, nil
}
func (m *memStore) Update(_ context.Context, r *model.Recipe) error {
	m.updateCalls++
	cur, ok := m.recipes[r.ID]
	if !ok || cur.AuthorID != r.AuthorID {
		return errs.ErrNotFound
	}
	r.CreatedAt = cur.CreatedAt
	m.recipes[r.ID] = *r
	return nil
}
func (m *memStore) Delete(_ context.Context, id, authorID uuid.UUID) error {
	cur, ok := m.recipes[id]
	if !ok || cur.AuthorID != authorID {
		return errs.ErrNotFound
	}
	delete(m.recipes, id)
	for rid, rv := range m.reviews {
		if rv.RecipeID == id {
			delete(m.reviews, rid)
		}
	}
	return nil
}
func (m *memStore) RankByAverageRating(context.Context) ([]model.RankedRecipe, error) {
	return append([]model.RankedRecipe(nil), m.ranked...), m.rankErr
}

// memReviews exposes the review side of memStore under ReviewRepository.
type memReviews struct{ *memStore }

func (m memReviews) Create(_ context.Context, rv *model.Review) error {
	for _, cur := range m.reviews {
		if cur.RecipeID == rv.RecipeID && cur.AuthorID == rv.AuthorID {
			return errs.ErrConflict
		}
	}
	rv.CreatedAt = time.Now()
	m.reviews[rv.ID] = *rv
	return nil
}
func (m memReviews) GetByID(_ context.Context, id uuid.UUID) (*model.Review, error) {
	rv, ok := m.reviews[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &rv, nil
}
func (m memReviews) Exists(_ context.Context, recipeID, authorID uuid.UUID) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	for _, cur := range m.reviews {
		if cur.RecipeID == recipeID && cur.AuthorID == authorID {
			return true, nil
		}
	}
	return false, nil
}
func (m memReviews) Update(_ context.Context, id, authorID uuid.UUID, p model.ReviewPatch) (*model.Review, error) {
	m.updateCalls++
	rv, ok := m.reviews[id]
	if !ok || rv.AuthorID != authorID {
		return nil, errs.ErrNotFound
	}
	if p.Empty() {
		return nil, errors.New("empty patch reached the store")
	}
	if p.Text != nil {
		rv.Text = *p.Text
	}
	if p.Rating != nil {
		rv.Rating = *p.Rating
	}
	m.reviews[id] = rv
	return &rv, nil
}
func (m memReviews) Delete(_ context.Context, id, authorID uuid.UUID) error {
	rv, ok := m.reviews[id]
	if !ok || rv.AuthorID != authorID {
		return errs.ErrNotFound
	}
	delete(m.reviews, id)
	return nil
}

func newID() uuid.UUID { return uuid.Must(uuid.NewV4()) }
