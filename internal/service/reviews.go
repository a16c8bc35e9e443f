package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/recipebox/internal/errs"
	"github.com/and161185/recipebox/internal/model"
	"github.com/and161185/recipebox/internal/repository"
)

// ReviewService defines review operations scoped to the reviewing user.
type ReviewService interface {
	// Create adds authorID's review of recipeID.
	Create(ctx context.Context, recipeID, authorID uuid.UUID, text string, rating model.RatingInput) (model.Review, error)
	// Update applies a partial change; only the reviewer may do so.
	Update(ctx context.Context, id, callerID uuid.UUID, p model.ReviewPatch) (model.Review, error)
	// Delete removes the review; only the reviewer may do so.
	Delete(ctx context.Context, id, callerID uuid.UUID) error
}

type ReviewServiceImpl struct {
	recipes repository.RecipeRepository
	reviews repository.ReviewRepository
}

// NewReviewService constructs ReviewService.
func NewReviewService(recipes repository.RecipeRepository, reviews repository.ReviewRepository) *ReviewServiceImpl {
	return &ReviewServiceImpl{recipes: recipes, reviews: reviews}
}

// Create checks, in order: recipe exists, no earlier review by the author,
// author is not the recipe owner, rating present and in range. The insert itself is
// guarded by the (recipe, author) unique constraint, so two racing requests
// still end with one review and one ErrConflict.
func (s *ReviewServiceImpl) Create(ctx context.Context, recipeID, authorID uuid.UUID, text string, rating model.RatingInput) (model.Review, error) {
	if authorID == uuid.Nil {
		return model.Review{}, errs.ErrUnauthorized
	}
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.Review{}, fmt.Errorf("%w: recipe not found", errs.ErrNotFound)
		}
		return model.Review{}, err
	}

	dup, err := s.reviews.Exists(ctx, recipeID, authorID)
	if err != nil {
		return model.Review{}, err
	}
	if dup {
		return model.Review{}, fmt.Errorf("%w: you have already reviewed this recipe", errs.ErrConflict)
	}

	if recipe.AuthorID == authorID {
		return model.Review{}, fmt.Errorf("%w: you cannot review your own recipe", errs.ErrForbidden)
	}

	if err := validateRatingInput(rating); err != nil {
		return model.Review{}, err
	}
	if err := requireText("review", text, 0); err != nil {
		return model.Review{}, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return model.Review{}, err
	}
	rv := &model.Review{ID: id, RecipeID: recipeID, AuthorID: authorID, Text: text, Rating: rating.Value}
	if err := s.reviews.Create(ctx, rv); err != nil {
		return model.Review{}, err
	}
	return *rv, nil
}

func (s *ReviewServiceImpl) owned(ctx context.Context, id, callerID uuid.UUID, verb string) (*model.Review, error) {
	rv, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("%w: review not found", errs.ErrNotFound)
		}
		return nil, err
	}
	if rv.AuthorID != callerID {
		return nil, fmt.Errorf("%w: you are not authorized to %s this review", errs.ErrForbidden, verb)
	}
	return rv, nil
}

// Update changes only the fields present in p. An empty patch returns the review unchanged.
func (s *ReviewServiceImpl) Update(ctx context.Context, id, callerID uuid.UUID, p model.ReviewPatch) (model.Review, error) {
	rv, err := s.owned(ctx, id, callerID, "update")
	if err != nil {
		return model.Review{}, err
	}
	if p.Text != nil {
		if err := requireText("review", *p.Text, 0); err != nil {
			return model.Review{}, err
		}
	}
	if p.RatingErr != nil {
		return model.Review{}, invalid("%v", p.RatingErr)
	}
	if p.Rating != nil {
		if err := validateRating(*p.Rating); err != nil {
			return model.Review{}, err
		}
	}
	if p.Empty() {
		return *rv, nil
	}

	updated, err := s.reviews.Update(ctx, id, callerID, p)
	if err != nil {
		return model.Review{}, err
	}
	return *updated, nil
}

// Delete removes a review written by callerID.
func (s *ReviewServiceImpl) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	if _, err := s.owned(ctx, id, callerID, "delete"); err != nil {
		return err
	}
	return s.reviews.Delete(ctx, id, callerID)
}
