// Package service contains application services: accounts, recipes, reviews and ranking.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	pkgcrypto "github.com/and161185/recipebox/internal/crypto"
	"github.com/and161185/recipebox/internal/errs"
	"github.com/and161185/recipebox/internal/model"
	"github.com/and161185/recipebox/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// TokenService issues and verifies session tokens.
type TokenService interface {
	Issue(userID uuid.UUID) (model.Token, error)
	Verify(token string) (uuid.UUID, error)
}

// AuthService defines account and session operations.
type AuthService interface {
	// Register creates a new user with secure password hashing.
	Register(ctx context.Context, name, email, password string) (model.User, error)
	// Login checks credentials and issues a session token.
	Login(ctx context.Context, email, password string) (model.Token, model.User, error)
	// Authenticate resolves a session token to an existing user.
	Authenticate(ctx context.Context, token string) (model.User, error)
}

type AuthServiceImpl struct {
	users  repository.UserRepository
	tokens TokenService
	verify func(password, encoded string) bool
}

// dummyHash stands in for the stored hash of an unknown email, so that both
// login failures run Argon2 once.
var dummyHash = sync.OnceValue(func() string {
	h, err := pkgcrypto.HashPassword("recipebox-no-such-user")
	if err != nil {
		panic(err)
	}
	return h
})

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, tokens TokenService) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, tokens: tokens, verify: pkgcrypto.VerifyPassword}
}

// Register validates the fields, hashes the password and stores the user.
// A taken email is a validation failure (errs.ErrAlreadyExists).
func (s *AuthServiceImpl) Register(ctx context.Context, name, email, password string) (model.User, error) {
	email = strings.TrimSpace(email)
	if err := requireText("name", name, maxNameLen); err != nil {
		return model.User{}, err
	}
	if err := validateEmail(email); err != nil {
		return model.User{}, err
	}
	if password == "" {
		return model.User{}, invalid("password is required")
	}

	uid, err := uuid.NewV4()
	if err != nil {
		return model.User{}, err
	}
	hash, err := pkgcrypto.HashPassword(password)
	if err != nil {
		return model.User{}, err
	}

	u := &model.User{
		ID:      uid,
		Name:    name,
		Email:   email,
		PwdHash: hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return model.User{}, err
	}
	return *u, nil
}

// Login authenticates by email and password. Unknown email and wrong password
// both surface as errs.ErrUnauthorized.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (model.Token, model.User, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			s.verify(password, dummyHash())
			return model.Token{}, model.User{}, fmt.Errorf("%w: bad credentials", errs.ErrUnauthorized)
		}
		return model.Token{}, model.User{}, err
	}
	if !s.verify(password, u.PwdHash) {
		return model.Token{}, model.User{}, fmt.Errorf("%w: bad credentials", errs.ErrUnauthorized)
	}

	tok, err := s.tokens.Issue(u.ID)
	if err != nil {
		return model.Token{}, model.User{}, err
	}
	return tok, *u, nil
}

// Authenticate verifies the token and loads its user. A valid token whose
// user no longer exists is rejected like an invalid one.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, token string) (model.User, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		return model.User{}, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.User{}, fmt.Errorf("%w: user no longer exists", errs.ErrUnauthorized)
		}
		return model.User{}, err
	}
	return *u, nil
}
