// Package token issues and verifies the signed session tokens carried in the jwt cookie.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/and161185/recipebox/internal/errs"
	"github.com/and161185/recipebox/internal/model"
)

// DefaultTTL is the session lifetime.
const DefaultTTL = 60 * time.Minute

// Claims is the token payload: the user id plus the registered iat/exp pair.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// Service signs tokens with the current key and accepts tokens signed by
// the current key or any of the previous keys, so the secret can be rotated
// without logging everybody out at once.
type Service struct {
	signKey  []byte
	prevKeys [][]byte
	ttl      time.Duration
	now      func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithPreviousKeys registers retired signing keys still accepted on verify.
func WithPreviousKeys(keys ...[]byte) Option {
	return func(s *Service) {
		for _, k := range keys {
			if len(k) > 0 {
				s.prevKeys = append(s.prevKeys, k)
			}
		}
	}
}

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New constructs a token service. ttl <= 0 selects DefaultTTL.
func New(signKey []byte, ttl time.Duration, opts ...Option) (*Service, error) {
	if len(signKey) == 0 {
		return nil, errors.New("token: empty signing key")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Service{signKey: signKey, ttl: ttl, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration { return s.ttl }

// Issue creates a signed HS256 token for userID valid for the configured TTL.
func (s *Service) Issue(userID uuid.UUID) (model.Token, error) {
	now := s.now().UTC().Truncate(time.Second)
	exp := now.Add(s.ttl)
	claims := Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signKey)
	if err != nil {
		return model.Token{}, err
	}
	return model.Token{Value: signed, IssuedAt: now, ExpiresAt: exp}, nil
}

// Verify checks signature, algorithm and expiry and returns the user id.
// Every failure is reported as errs.ErrUnauthorized.
func (s *Service) Verify(tok string) (uuid.UUID, error) {
	if tok == "" {
		return uuid.Nil, fmt.Errorf("%w: missing token", errs.ErrUnauthorized)
	}

	var (
		claims Claims
		err    error
	)
	for _, key := range s.keys() {
		claims = Claims{}
		if err = s.parse(tok, key, &claims); err == nil || errors.Is(err, jwt.ErrTokenExpired) {
			break
		}
	}
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, fmt.Errorf("%w: token expired", errs.ErrUnauthorized)
		}
		return uuid.Nil, fmt.Errorf("%w: invalid token", errs.ErrUnauthorized)
	}

	id, err := uuid.FromString(claims.UserID)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: bad subject", errs.ErrUnauthorized)
	}
	return id, nil
}

func (s *Service) keys() [][]byte {
	return append([][]byte{s.signKey}, s.prevKeys...)
}

func (s *Service) parse(tok string, key []byte, claims *Claims) error {
	parsed, err := jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return jwt.ErrTokenSignatureInvalid
	}
	return nil
}
