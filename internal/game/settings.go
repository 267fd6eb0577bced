package game

import (
	"slices"

	"lifesim-server/internal/shared/errors"
)

var SupportedLanguages = []string{"en", "es", "pt", "fr", "de"}

func ValidateSettings(s Settings) error {
	if !slices.Contains(SupportedLanguages, s.Language) {
		return errors.Validationf("unsupported language %q", s.Language)
	}
	return nil
}
