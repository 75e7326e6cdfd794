package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidateSlug accepts lowercase words joined by single hyphens.
func ValidateSlug(slug string) error {
	if err := ValidateLength(slug, "slug", 2, 100); err != nil {
		return err
	}
	if !slugRegex.MatchString(slug) {
		return errors.New("slug may only contain lowercase letters, digits and hyphens")
	}
	return nil
}

func ValidateLength(field, fieldName string, min, max int) error {
	length := len(strings.TrimSpace(field))
	if length < min {
		return fmt.Errorf("%s must be at least %d characters", fieldName, min)
	}
	if length > max {
		return fmt.Errorf("%s must be at most %d characters", fieldName, max)
	}
	return nil
}
