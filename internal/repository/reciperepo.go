package repository

import (
	"context"

	"github.com/and161185/recipebox/internal/model"
	"github.com/gofrs/uuid/v5"
)

// RecipeRepository provides CRUD over recipes.
type RecipeRepository interface {
	// Create inserts a recipe; CreatedAt is filled from the store clock.
	Create(ctx context.Context, r *model.Recipe) error
	// GetByID loads a recipe by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Recipe, error)
	// ListByAuthor returns the author's recipes, oldest first.
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.Recipe, error)
	// Update replaces title and ingredients of a recipe owned by authorID.
	Update(ctx context.Context, r *model.Recipe) error
	// Delete removes a recipe owned by authorID.
	Delete(ctx context.Context, id, authorID uuid.UUID) error
}

// RankingRepository aggregates ratings per recipe.
type RankingRepository interface {
	// RankByAverageRating returns every recipe with the mean of its ratings
	// (nil when unreviewed), best first.
	RankByAverageRating(ctx context.Context) ([]model.RankedRecipe, error)
}
