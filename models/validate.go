// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	contestIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*[a-zA-Z0-9]$`)
	controlChars     = regexp.MustCompile(`[\x00-\x1F\x7F]`)
	hostPattern      = regexp.MustCompile(`^[a-zA-Z0-9.-]+$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for an empty tag; panic at init is fine here.
	if err := v.RegisterValidation("contestid", func(fl validator.FieldLevel) bool {
		return ValidContestID(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("songname", func(fl validator.FieldLevel) bool {
		return ValidSongName(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidateStruct runs tag-based validation and converts the first failure
// into a ValidationError suitable for the caller.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		return &ValidationError{Field: fe.Field(), Reason: "failed " + fe.Tag() + " validation"}
	}
	return &ValidationError{Reason: err.Error()}
}

// ValidContestID reports whether id is a usable contest identifier:
// 3-30 chars, alphanumeric plus hyphen, no leading/trailing hyphen, no
// consecutive hyphens.
func ValidContestID(id string) bool {
	if len(id) < MinContestIDLength || len(id) > MaxContestIDLength {
		return false
	}
	if !contestIDPattern.MatchString(id) {
		return false
	}
	return !strings.Contains(id, "--")
}

// ValidSongName reports whether name is non-empty after trimming, within the
// length cap, and free of control characters.
func ValidSongName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > MaxSongNameLength {
		return false
	}
	return !controlChars.MatchString(name)
}

// ValidURL reports whether raw is a well-formed http(s) URL within the length
// cap with a plausible host.
func ValidURL(raw string) bool {
	if raw == "" || len(raw) > MaxURLLength {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Host == "" {
		return false
	}
	return hostPattern.MatchString(u.Hostname())
}

// CleanUserInput strips zero-width characters and collapses whitespace so
// user-supplied text is safe to store and display.
func CleanUserInput(text string) string {
	for _, zw := range []string{"\u200b", "\u200c", "\u200d", "\ufeff"} {
		text = strings.ReplaceAll(text, zw, "")
	}
	return strings.Join(strings.Fields(text), " ")
}

// ValidStatusTransition reports whether a contest may move from one status to
// another. Transitions are monotonic: active -> voting -> closed, with
// active -> closed allowed directly. Nothing leaves closed.
func ValidStatusTransition(from, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusActive:
		return to == StatusVoting || to == StatusClosed
	case StatusVoting:
		return to == StatusClosed
	default:
		return false
	}
}
