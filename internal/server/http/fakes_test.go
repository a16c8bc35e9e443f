package httpserver

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/recipebox/internal/errs"
	"github.com/and161185/recipebox/internal/model"
)

const goodToken = "good-token"

type fakeAuth struct {
	user     model.User
	regErr   error
	loginErr error
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{user: model.User{
		ID:    uuid.Must(uuid.NewV4()),
		Name:  "alice",
		Email: "alice@example.com",
	}}
}

func (f *fakeAuth) Register(_ context.Context, name, email, _ string) (model.User, error) {
	if f.regErr != nil {
		return model.User{}, f.regErr
	}
	return model.User{ID: f.user.ID, Name: name, Email: email, PwdHash: "secret-hash"}, nil
}

func (f *fakeAuth) Login(context.Context, string, string) (model.Token, model.User, error) {
	if f.loginErr != nil {
		return model.Token{}, model.User{}, f.loginErr
	}
	now := time.Now()
	return model.Token{Value: goodToken, IssuedAt: now, ExpiresAt: now.Add(time.Hour)}, f.user, nil
}

func (f *fakeAuth) Authenticate(_ context.Context, tok string) (model.User, error) {
	if tok != goodToken {
		return model.User{}, errs.ErrUnauthorized
	}
	return f.user, nil
}

type fakeRecipes struct {
	lastOwner  uuid.UUID
	lastID     uuid.UUID
	lastTitle  string
	list       []model.Recipe
	err        error
	listAuthor uuid.UUID
}

func (f *fakeRecipes) Create(_ context.Context, owner uuid.UUID, title, ingredients string) (model.Recipe, error) {
	f.lastOwner, f.lastTitle = owner, title
	if f.err != nil {
		return model.Recipe{}, f.err
	}
	return model.Recipe{ID: uuid.Must(uuid.NewV4()), Title: title, Ingredients: ingredients, AuthorID: owner, CreatedAt: time.Now()}, nil
}

func (f *fakeRecipes) ListByAuthor(_ context.Context, author uuid.UUID) ([]model.Recipe, error) {
	f.listAuthor = author
	return f.list, f.err
}

func (f *fakeRecipes) Update(_ context.Context, id, caller uuid.UUID, title, ingredients string) (model.Recipe, error) {
	f.lastID, f.lastOwner, f.lastTitle = id, caller, title
	if f.err != nil {
		return model.Recipe{}, f.err
	}
	return model.Recipe{ID: id, Title: title, Ingredients: ingredients, AuthorID: caller}, nil
}

func (f *fakeRecipes) Delete(_ context.Context, id, caller uuid.UUID) error {
	f.lastID, f.lastOwner = id, caller
	return f.err
}

type fakeReviews struct {
	lastRecipe uuid.UUID
	lastRating model.RatingInput
	lastPatch  model.ReviewPatch
	lastID     uuid.UUID
	calls      int
	err        error
}

func (f *fakeReviews) Create(_ context.Context, recipeID, author uuid.UUID, text string, rating model.RatingInput) (model.Review, error) {
	f.lastRecipe, f.lastRating = recipeID, rating
	f.calls++
	if f.err != nil {
		return model.Review{}, f.err
	}
	return model.Review{ID: uuid.Must(uuid.NewV4()), RecipeID: recipeID, AuthorID: author, Text: text, Rating: rating.Value}, nil
}

func (f *fakeReviews) Update(_ context.Context, id, caller uuid.UUID, p model.ReviewPatch) (model.Review, error) {
	f.lastID, f.lastPatch = id, p
	f.calls++
	if f.err != nil {
		return model.Review{}, f.err
	}
	rv := model.Review{ID: id, AuthorID: caller, Text: "old", Rating: 3}
	if p.Text != nil {
		rv.Text = *p.Text
	}
	if p.Rating != nil {
		rv.Rating = *p.Rating
	}
	return rv, nil
}

func (f *fakeReviews) Delete(_ context.Context, id, _ uuid.UUID) error {
	f.lastID = id
	return f.err
}

type fakeRanking struct {
	out []model.RankedRecipe
	err error
}

func (f *fakeRanking) Rank(context.Context) ([]model.RankedRecipe, error) { return f.out, f.err }

type memRecipes struct{ rows map[uuid.UUID]model.Recipe }

func (m *memRecipes) add(owner uuid.UUID) uuid.UUID {
	id := uuid.Must(uuid.NewV4())
	m.rows[id] = model.Recipe{ID: id, Title: "Soup", Ingredients: "water", AuthorID: owner, CreatedAt: time.Now()}
	return id
}

func (m *memRecipes) Create(_ context.Context, r *model.Recipe) error {
	m.rows[r.ID] = *r
	return nil
}

func (m *memRecipes) GetByID(_ context.Context, id uuid.UUID) (*model.Recipe, error) {
	r, ok := m.rows[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &r, nil
}

func (m *memRecipes) ListByAuthor(context.Context, uuid.UUID) ([]model.Recipe, error) {
	return []model.Recipe{}, nil
}

func (m *memRecipes) Update(_ context.Context, r *model.Recipe) error {
	m.rows[r.ID] = *r
	return nil
}

func (m *memRecipes) Delete(_ context.Context, id, _ uuid.UUID) error {
	delete(m.rows, id)
	return nil
}

type memReviews struct{ rows map[uuid.UUID]model.Review }

func (m *memReviews) Create(_ context.Context, rv *model.Review) error {
	rv.CreatedAt = time.Now()
	m.rows[rv.ID] = *rv
	return nil
}

func (m *memReviews) GetByID(_ context.Context, id uuid.UUID) (*model.Review, error) {
	rv, ok := m.rows[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &rv, nil
}

func (m *memReviews) Exists(_ context.Context, recipeID, authorID uuid.UUID) (bool, error) {
	for _, rv := range m.rows {
		if rv.RecipeID == recipeID && rv.AuthorID == authorID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memReviews) Update(_ context.Context, id, _ uuid.UUID, p model.ReviewPatch) (*model.Review, error) {
	rv, ok := m.rows[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	if p.Text != nil {
		rv.Text = *p.Text
	}
	if p.Rating != nil {
		rv.Rating = *p.Rating
	}
	m.rows[id] = rv
	return &rv, nil
}

func (m *memReviews) Delete(_ context.Context, id, _ uuid.UUID) error {
	delete(m.rows, id)
	return nil
}
