package dictionary

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`^[a-zA-Z\s-]+$`)

const (
	msgEmptyWord   = "Please enter a word to search."
	msgInvalidWord = "Please enter a valid English word (letters, spaces, and hyphens only)."
)

// ValidateWord trims raw and checks that it only contains letters, spaces
// and hyphens. It returns the trimmed word or an ErrValidation *LookupError.
func ValidateWord(raw string) (string, error) {
	word := strings.TrimSpace(raw)
	if word == "" {
		return "", &LookupError{Kind: ErrValidation, Reason: msgEmptyWord}
	}
	if !wordPattern.MatchString(word) {
		return "", &LookupError{Kind: ErrValidation, Word: word, Reason: msgInvalidWord}
	}
	return word, nil
}
