package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/and161185/recipebox/internal/errs"
	"github.com/and161185/recipebox/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// RecipeRepo implements RecipeRepository and RankingRepository using PostgreSQL.
type RecipeRepo struct{ db *DB }

// NewRecipeRepo constructs a recipe repository.
func NewRecipeRepo(db *DB) *RecipeRepo { return &RecipeRepo{db: db} }

// Create inserts a recipe row and fills CreatedAt.
func (r *RecipeRepo) Create(ctx context.Context, rec *model.Recipe) error {
	const q = `
INSERT INTO recipes (id, title, ingredients, author_id)
VALUES ($1, $2, $3, $4)
RETURNING created_at`
	err := r.db.Pool.QueryRow(ctx, q, rec.ID, rec.Title, rec.Ingredients, rec.AuthorID).Scan(&rec.CreatedAt)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: author %s", errs.ErrNotFound, rec.AuthorID)
	}
	return err
}

// GetByID selects a recipe by ID.
func (r *RecipeRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	const q = `
SELECT id, title, ingredients, author_id, created_at
FROM recipes WHERE id=$1`
	var rec model.Recipe
	err := r.db.Pool.QueryRow(ctx, q, id).
		Scan(&rec.ID, &rec.Title, &rec.Ingredients, &rec.AuthorID, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// ListByAuthor returns the author's recipes ordered by creation time.
func (r *RecipeRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.Recipe, error) {
	const q = `
SELECT id, title, ingredients, author_id, created_at
FROM recipes
WHERE author_id=$1
ORDER BY created_at ASC, id ASC`
	rows, err := r.db.Pool.Query(ctx, q, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Recipe{}
	for rows.Next() {
		var rec model.Recipe
		if err = rows.Scan(&rec.ID, &rec.Title, &rec.Ingredients, &rec.AuthorID, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Update replaces title/ingredients. The author predicate keeps ownership
// fixed; a row that vanished or changed hands reports ErrNotFound.
func (r *RecipeRepo) Update(ctx context.Context, rec *model.Recipe) error {
	const q = `
UPDATE recipes SET title=$3, ingredients=$4
WHERE id=$1 AND author_id=$2
RETURNING created_at`
	err := r.db.Pool.QueryRow(ctx, q, rec.ID, rec.AuthorID, rec.Title, rec.Ingredients).Scan(&rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	return err
}

// Delete removes a recipe owned by authorID. Reviews go with it (ON DELETE CASCADE).
func (r *RecipeRepo) Delete(ctx context.Context, id, authorID uuid.UUID) error {
	const q = `DELETE FROM recipes WHERE id=$1 AND author_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, id, authorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// RankByAverageRating averages review ratings per recipe. Recipes without
// reviews are kept (LEFT JOIN) and sort last; ties fall back to age, then id.
func (r *RecipeRepo) RankByAverageRating(ctx context.Context) ([]model.RankedRecipe, error) {
	q, args, err := psql.
		Select(
			"r.id", "r.title", "r.ingredients", "r.author_id", "r.created_at",
			"COUNT(v.id) AS reviews",
			"COALESCE(AVG(v.rating), 0)::float8 AS avg_rating",
		).
		From("recipes r").
		LeftJoin("reviews v ON v.recipe_id = r.id").
		GroupBy("r.id").
		OrderBy("AVG(v.rating) DESC NULLS LAST", "r.created_at ASC", "r.id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.RankedRecipe{}
	for rows.Next() {
		var (
			rec     model.Recipe
			reviews int64
			avg     float64
		)
		if err = rows.Scan(&rec.ID, &rec.Title, &rec.Ingredients, &rec.AuthorID, &rec.CreatedAt, &reviews, &avg); err != nil {
			return nil, err
		}
		rr := model.RankedRecipe{Recipe: rec}
		if reviews > 0 {
			rr.AvgRating = &avg
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}
