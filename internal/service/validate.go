package service

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/and161185/recipebox/internal/errs"
	"github.com/and161185/recipebox/internal/model"
)

const (
	maxNameLen  = 255
	maxTitleLen = 255
	maxEmailLen = 254
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errs.ErrValidation}, args...)...)
}

func requireText(field, v string, maxLen int) error {
	if strings.TrimSpace(v) == "" {
		return invalid("%s is required", field)
	}
	if maxLen > 0 && utf8.RuneCountInString(v) > maxLen {
		return invalid("%s longer than %d characters", field, maxLen)
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return invalid("email is required")
	}
	if len(email) > maxEmailLen {
		return invalid("email too long")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("enter a valid email address")
	}
	return nil
}

func validateRating(r int) error {
	if r < model.MinRating || r > model.MaxRating {
		return invalid("rating must be between %d and %d", model.MinRating, model.MaxRating)
	}
	return nil
}

func validateRatingInput(in model.RatingInput) error {
	if in.Err != nil {
		return invalid("%v", in.Err)
	}
	if !in.Set {
		return invalid("rating is required")
	}
	return validateRating(in.Value)
}
