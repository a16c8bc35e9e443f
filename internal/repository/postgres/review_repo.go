package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/and161185/recipebox/internal/errs"
	"github.com/and161185/recipebox/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

const reviewColumns = "id, recipe_id, author_id, review, rating, created_at"

// ReviewRepo implements ReviewRepository using PostgreSQL.
type ReviewRepo struct{ db *DB }

// NewReviewRepo constructs a review repository.
func NewReviewRepo(db *DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Create inserts a review row and fills CreatedAt. The UNIQUE (recipe_id, author_id)
// constraint makes this the single atomic gate against duplicate reviews.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	const q = `
INSERT INTO reviews (id, recipe_id, author_id, review, rating)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at`
	err := r.db.Pool.QueryRow(ctx, q, rv.ID, rv.RecipeID, rv.AuthorID, rv.Text, rv.Rating).Scan(&rv.CreatedAt)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return fmt.Errorf("%w: recipe already reviewed by this user", errs.ErrConflict)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: recipe %s", errs.ErrNotFound, rv.RecipeID)
	case isCheckViolation(err):
		return fmt.Errorf("%w: rating out of range", errs.ErrValidation)
	default:
		return err
	}
}

// GetByID selects a review by ID.
func (r *ReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	const q = `SELECT ` + reviewColumns + ` FROM reviews WHERE id=$1`
	return scanReview(r.db.Pool.QueryRow(ctx, q, id))
}

// Exists reports whether authorID has already reviewed recipeID.
func (r *ReviewRepo) Exists(ctx context.Context, recipeID, authorID uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM reviews WHERE recipe_id=$1 AND author_id=$2)`
	var ok bool
	if err := r.db.Pool.QueryRow(ctx, q, recipeID, authorID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// Update sets only the fields present in p on a review owned by authorID.
func (r *ReviewRepo) Update(ctx context.Context, id, authorID uuid.UUID, p model.ReviewPatch) (*model.Review, error) {
	if p.Text == nil && p.Rating == nil {
		return nil, fmt.Errorf("%w: empty patch", errs.ErrValidation)
	}
	b := psql.Update("reviews")
	if p.Text != nil {
		b = b.Set("review", *p.Text)
	}
	if p.Rating != nil {
		b = b.Set("rating", *p.Rating)
	}
	q, args, err := b.
		Where(sq.Eq{"id": id.String()}).
		Where(sq.Eq{"author_id": authorID.String()}).
		Suffix("RETURNING " + reviewColumns).
		ToSql()
	if err != nil {
		return nil, err
	}

	rv, err := scanReview(r.db.Pool.QueryRow(ctx, q, args...))
	if isCheckViolation(err) {
		return nil, fmt.Errorf("%w: rating out of range", errs.ErrValidation)
	}
	return rv, err
}

// Delete removes a review owned by authorID.
func (r *ReviewRepo) Delete(ctx context.Context, id, authorID uuid.UUID) error {
	const q = `DELETE FROM reviews WHERE id=$1 AND author_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, id, authorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func scanReview(row pgx.Row) (*model.Review, error) {
	var rv model.Review
	if err := row.Scan(&rv.ID, &rv.RecipeID, &rv.AuthorID, &rv.Text, &rv.Rating, &rv.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &rv, nil
}
