package repository

import (
	"context"

	"github.com/and161185/recipebox/internal/model"
	"github.com/gofrs/uuid/v5"
)

// ReviewRepository provides CRUD over reviews.
type ReviewRepository interface {
	// Create inserts a review; a second review of the same recipe by the same
	// author yields errs.ErrConflict.
	Create(ctx context.Context, r *model.Review) error
	// GetByID loads a review by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	// Exists reports whether authorID already reviewed recipeID.
	Exists(ctx context.Context, recipeID, authorID uuid.UUID) (bool, error)
	// Update applies a partial change to a review owned by authorID.
	Update(ctx context.Context, id, authorID uuid.UUID, p model.ReviewPatch) (*model.Review, error)
	// Delete removes a review owned by authorID.
	Delete(ctx context.Context, id, authorID uuid.UUID) error
}
