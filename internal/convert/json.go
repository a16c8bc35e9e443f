// Package convert maps domain models to and from the JSON wire shapes of the HTTP API.
package convert

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/recipebox/internal/model"
)

// NoReviews is reported in place of an average for recipes nobody reviewed.
const NoReviews = "No reviews available"

// User is the public view of an account; the password hash never leaves the server.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Recipe is the wire form of model.Recipe.
type Recipe struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Ingredients string    `json:"ingredients"`
	Author      string    `json:"author"`
	CreatedAt   time.Time `json:"created_at"`
}

// Review is the wire form of model.Review.
type Review struct {
	ID           string    `json:"id"`
	Recipe       string    `json:"recipe"`
	AuthorReview string    `json:"author_review"`
	Review       string    `json:"review"`
	Rating       int       `json:"rating"`
	CreatedAt    time.Time `json:"created_at"`
}

// RankedRecipe carries either a float average or the NoReviews string.
type RankedRecipe struct {
	Recipe    Recipe `json:"recipe"`
	AvgRating any    `json:"avg_rating"`
}

// ToUser converts a domain user.
func ToUser(u model.User) User {
	return User{ID: u.ID.String(), Name: u.Name, Email: u.Email}
}

// ToRecipe converts a domain recipe.
func ToRecipe(r model.Recipe) Recipe {
	return Recipe{
		ID:          r.ID.String(),
		Title:       r.Title,
		Ingredients: r.Ingredients,
		Author:      r.AuthorID.String(),
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

// ToRecipes converts a slice, never returning nil.
func ToRecipes(in []model.Recipe) []Recipe {
	out := make([]Recipe, 0, len(in))
	for _, r := range in {
		out = append(out, ToRecipe(r))
	}
	return out
}

// ToReview converts a domain review.
func ToReview(r model.Review) Review {
	return Review{
		ID:           r.ID.String(),
		Recipe:       r.RecipeID.String(),
		AuthorReview: r.AuthorID.String(),
		Review:       r.Text,
		Rating:       r.Rating,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

// ToRanked converts the ranking, substituting NoReviews for a missing average.
func ToRanked(in []model.RankedRecipe) []RankedRecipe {
	out := make([]RankedRecipe, 0, len(in))
	for _, r := range in {
		var avg any = NoReviews
		if r.AvgRating != nil {
			avg = *r.AvgRating
		}
		out = append(out, RankedRecipe{Recipe: ToRecipe(r.Recipe), AvgRating: avg})
	}
	return out
}

// ParseID parses a UUID sent by a client.
func ParseID(field, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, fmt.Errorf("%s is required", field)
	}
	id, err := uuid.FromString(s)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("bad %s", field)
	}
	return id, nil
}

// ParseRating accepts a JSON number or a numeric string ("4"), the way
// form-style clients send it. Fractions are rejected.
func ParseRating(raw json.RawMessage) (int, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("rating must be an integer")
		}
		n = json.Number(s)
	}
	v, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("rating must be an integer")
	}
	return int(v), nil
}
