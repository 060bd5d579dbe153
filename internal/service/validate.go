package service

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/WarriorSushi/supaviewer/internal/apperr"
)

// checkLen fails when s (in runes) falls outside [min, max]. max <= 0 means no upper bound.
func checkLen(field, s string, min, max int) error {
	n := utf8.RuneCountInString(s)
	if n < min {
		if min == 1 {
			return apperr.Invalid(field + " is required")
		}
		return apperr.Invalid(fmt.Sprintf("%s must be at least %d characters", field, min))
	}
	if max > 0 && n > max {
		return apperr.Invalid(fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return nil
}

// checkOptionalLen is checkLen for fields where empty means absent.
func checkOptionalLen(field, s string, min, max int) error {
	if s == "" {
		return nil
	}
	return checkLen(field, s, min, max)
}

func checkEmail(field, s string) error {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return apperr.Invalid(field + " must be a valid email address")
	}
	return nil
}

// checkURL accepts "" or an absolute http(s) URL.
func checkURL(field, s string) error {
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperr.Invalid(field + " must be a valid URL")
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
