package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxIDLength bounds storyline and event ids. Ids end up in file names and
// Redis keys, so they are kept short.
const maxIDLength = 128

// idRegex matches ids produced by story.NewID as well as hand-written ids in
// imported documents.
var idRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// ValidateID validates a storyline or event id for safety.
// It rejects ids that could be used for path traversal or key injection.
//
// Validation rules:
//   - No empty ids
//   - Maximum length of 128 characters
//   - Letters, digits, '_', '.', '-' only, starting with a letter or digit
//   - No ".." sequences
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidID, "id too long (max %d characters)", maxIDLength)
	}
	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidID, "id cannot contain path traversal sequences (..)")
	}
	if !idRegex.MatchString(id) {
		return New(ErrCodeInvalidID, "invalid id: %q", id)
	}
	return nil
}

// ValidateName validates a display name (storyline or event).
// Empty names are allowed here; the storyline validator reports an empty
// storyline name as a blocking issue at save time.
func ValidateName(name string) error {
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}
	return nil
}

// ValidateURI validates a connection URI for the configured store backend.
// Only the scheme is checked; drivers report everything else.
func ValidateURI(rawURI string, schemes ...string) error {
	if rawURI == "" {
		return New(ErrCodeInvalidConfig, "URI cannot be empty")
	}
	for _, s := range schemes {
		if strings.HasPrefix(rawURI, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidConfig, "URI must use one of the schemes: %s", strings.Join(schemes, ", "))
}
