package character

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"lifesim-server/internal/shared/errors"
)

const (
	MinNameLength     = 2
	MaxNameLength     = 30
	MaxBirthCityRunes = 60
	EarliestBirthYear = 1900
)

// SanitizeIdentity trims input and collapses runs of whitespace.
func SanitizeIdentity(id Identity) Identity {
	id.Name = strings.Join(strings.Fields(id.Name), " ")
	id.BirthCity = strings.Join(strings.Fields(id.BirthCity), " ")
	id.Gender = Gender(strings.ToLower(strings.TrimSpace(string(id.Gender))))
	return id
}

// ValidateIdentity checks a sanitized identity. currentYear bounds the birth year.
func ValidateIdentity(id Identity, currentYear int) error {
	if err := ValidateName(id.Name); err != nil {
		return err
	}

	if id.BirthYear < EarliestBirthYear || id.BirthYear > currentYear {
		return errors.Validationf("birth year must be between %d and %d", EarliestBirthYear, currentYear)
	}

	cityLen := utf8.RuneCountInString(id.BirthCity)
	if cityLen == 0 || cityLen > MaxBirthCityRunes {
		return errors.Validationf("birth city must be between 1 and %d characters", MaxBirthCityRunes)
	}
	for _, r := range id.BirthCity {
		if unicode.IsControl(r) {
			return errors.Validation("birth city contains invalid characters")
		}
	}

	if !id.Gender.IsValid() {
		return errors.Validationf("unknown gender %q", id.Gender)
	}

	return nil
}

func ValidateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < MinNameLength || n > MaxNameLength {
		return errors.Validationf("name must be between %d and %d characters", MinNameLength, MaxNameLength)
	}

	for _, r := range name {
		switch {
		case unicode.IsLetter(r), r == ' ', r == '\'', r == '-', r == '.':
		default:
			return errors.Validationf("name contains invalid character %q", r)
		}
	}

	if !unicode.IsLetter([]rune(name)[0]) {
		return errors.Validation("name must start with a letter")
	}

	return nil
}
