package location

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Iron-Ham/lanes/internal/errors"
)

var driveLetter = regexp.MustCompile(`^[A-Za-z]:`)

// SanitizeFolder normalizes a user-configured folder relative to the
// repository root. Backslashes become forward slashes and surrounding
// whitespace and slashes are trimmed. The result is rejected when it is
// empty, absolute, or contains a ".." segment. The returned path uses the
// host separator.
func SanitizeFolder(raw string) (string, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), `\`, "/")
	normalized = strings.Trim(normalized, "/")

	invalid := func(msg string) error {
		return errors.NewValidationError(msg).
			WithField("folder").
			WithValue(raw).
			WithCause(errors.ErrUnsafePath)
	}

	if normalized == "" {
		return "", invalid("folder is empty")
	}
	if driveLetter.MatchString(normalized) || filepath.IsAbs(normalized) {
		return "", invalid("folder must be relative to the repository root")
	}
	for _, segment := range strings.Split(normalized, "/") {
		if segment == ".." {
			return "", invalid("folder must not contain parent directory references")
		}
	}

	return filepath.FromSlash(normalized), nil
}
