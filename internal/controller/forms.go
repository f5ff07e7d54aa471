// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LoginForm is the login surface's input.
type LoginForm struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// SignupForm is the sign-up surface's input. Phone is optional.
type SignupForm struct {
	Name     string `validate:"required"`
	Email    string `validate:"required"`
	Phone    string
	Password string `validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// normalize trims the text fields. Passwords are left untouched.
func (f LoginForm) normalize() LoginForm {
	f.Email = normalizeEmail(f.Email)
	return f
}

func (f SignupForm) normalize() SignupForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = normalizeEmail(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	return f
}

// normalizeEmail trims and lower-cases an email address the way the server
// stores it. A Caser is stateful, so each call gets its own.
func normalizeEmail(email string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(email))
}

// firstInvalidField returns the name of the first field failing validation.
func firstInvalidField(form interface{}) (string, bool) {
	err := validate.Struct(form)
	if err == nil {
		return "", true
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		return strings.ToLower(verrs[0].Field()), false
	}
	return "", false
}
