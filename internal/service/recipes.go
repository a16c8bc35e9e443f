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

// RecipeService defines recipe operations scoped to the owning author.
type RecipeService interface {
	// Create stores a recipe owned by ownerID.
	Create(ctx context.Context, ownerID uuid.UUID, title, ingredients string) (model.Recipe, error)
	// ListByAuthor returns the author's recipes; empty is not an error.
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.Recipe, error)
	// Update replaces title and ingredients; only the owner may do so.
	Update(ctx context.Context, id, callerID uuid.UUID, title, ingredients string) (model.Recipe, error)
	// Delete removes the recipe; only the owner may do so.
	Delete(ctx context.Context, id, callerID uuid.UUID) error
}

type RecipeServiceImpl struct {
	repo repository.RecipeRepository
}

// NewRecipeService constructs RecipeService.
func NewRecipeService(repo repository.RecipeRepository) *RecipeServiceImpl {
	return &RecipeServiceImpl{repo: repo}
}

func validateRecipe(title, ingredients string) error {
	if err := requireText("title", title, maxTitleLen); err != nil {
		return err
	}
	return requireText("ingredients", ingredients, 0)
}

// Create validates input and inserts the recipe with a fresh ID.
func (s *RecipeServiceImpl) Create(ctx context.Context, ownerID uuid.UUID, title, ingredients string) (model.Recipe, error) {
	if ownerID == uuid.Nil {
		return model.Recipe{}, errs.ErrUnauthorized
	}
	if err := validateRecipe(title, ingredients); err != nil {
		return model.Recipe{}, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return model.Recipe{}, err
	}
	r := &model.Recipe{ID: id, Title: title, Ingredients: ingredients, AuthorID: ownerID}
	if err := s.repo.Create(ctx, r); err != nil {
		return model.Recipe{}, err
	}
	return *r, nil
}

// ListByAuthor returns recipes of authorID, oldest first.
func (s *RecipeServiceImpl) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.Recipe, error) {
	if authorID == uuid.Nil {
		return nil, invalid("author is required")
	}
	return s.repo.ListByAuthor(ctx, authorID)
}

// owned loads the recipe and checks the caller owns it.
// Precedence: missing recipe, then foreign owner.
func (s *RecipeServiceImpl) owned(ctx context.Context, id, callerID uuid.UUID, verb string) (*model.Recipe, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("%w: recipe not found", errs.ErrNotFound)
		}
		return nil, err
	}
	if r.AuthorID != callerID {
		return nil, fmt.Errorf("%w: you do not have permission to %s this recipe", errs.ErrForbidden, verb)
	}
	return r, nil
}

// Update replaces title and ingredients. The owner is re-asserted, never reassigned.
func (s *RecipeServiceImpl) Update(ctx context.Context, id, callerID uuid.UUID, title, ingredients string) (model.Recipe, error) {
	r, err := s.owned(ctx, id, callerID, "modify")
	if err != nil {
		return model.Recipe{}, err
	}
	if err := validateRecipe(title, ingredients); err != nil {
		return model.Recipe{}, err
	}
	r.Title, r.Ingredients = title, ingredients
	if err := s.repo.Update(ctx, r); err != nil {
		return model.Recipe{}, err
	}
	return *r, nil
}

// Delete removes a recipe owned by callerID.
func (s *RecipeServiceImpl) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	if _, err := s.owned(ctx, id, callerID, "delete"); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id, callerID)
}
