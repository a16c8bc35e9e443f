// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// MinRating and MaxRating bound a review's score.
const (
	MinRating = 1
	MaxRating = 5
)

// Token is an issued session token.
type Token struct {
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// User represents an account stored on the server. The password is never stored in plaintext.
type User struct {
	ID        uuid.UUID // PK, server-generated
	Name      string
	Email     string // unique, compared as stored
	PwdHash   string // encoded Argon2id hash (see internal/crypto)
	CreatedAt time.Time
}

// Recipe is owned by exactly one user; AuthorID never changes after creation.
type Recipe struct {
	ID          uuid.UUID
	Title       string
	Ingredients string
	AuthorID    uuid.UUID // FK -> users.id
	CreatedAt   time.Time
}

// Review is one user's rating of one recipe. (RecipeID, AuthorID) is unique.
type Review struct {
	ID        uuid.UUID
	RecipeID  uuid.UUID // FK -> recipes.id
	AuthorID  uuid.UUID // FK -> users.id
	Text      string
	Rating    int // MinRating..MaxRating
	CreatedAt time.Time
}

// RatingInput is a rating as sent by a client. It is validated after the
// recipe-level checks of review creation.
type RatingInput struct {
	Value int
	Set   bool
	// Err is non-nil when the client sent something that is not an integer.
	Err error
}

// RatingOf wraps a well-formed rating.
func RatingOf(v int) RatingInput { return RatingInput{Value: v, Set: true} }

// ReviewPatch is a partial review update; nil fields keep their stored value.
type ReviewPatch struct {
	Text   *string
	Rating *int
	// RatingErr holds the parse error of a rating that was sent but unusable.
	RatingErr error
}

// Empty reports whether the patch changes nothing.
func (p ReviewPatch) Empty() bool { return p.Text == nil && p.Rating == nil && p.RatingErr == nil }

// RankedRecipe pairs a recipe with the mean of its ratings.
// AvgRating is nil when the recipe has no reviews.
type RankedRecipe struct {
	Recipe    Recipe
	AvgRating *float64
}
