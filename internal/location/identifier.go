package location

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"regexp"
	"strings"
)

var unsafeIdentifierChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// RepoIdentifier returns a stable key for repoRoot: the sanitized base name
// of the normalized root, a hyphen, and the first 8 hex characters of the
// SHA-256 of the normalized root.
//
// Normalization converts backslashes to slashes, cleans the path, strips
// trailing slashes and lower-cases it, so roots that differ only in case or
// trailing separators share an identifier.
func RepoIdentifier(repoRoot string) string {
	normalized := normalizeRoot(repoRoot)
	sum := sha256.Sum256([]byte(normalized))

	base := path.Base(normalized)
	if base == "/" || base == "." || base == "" {
		base = "repo"
	}
	return unsafeIdentifierChars.ReplaceAllString(base, "_") + "-" + hex.EncodeToString(sum[:])[:8]
}

func normalizeRoot(repoRoot string) string {
	p := path.Clean(strings.ReplaceAll(repoRoot, `\`, "/"))
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return strings.ToLower(p)
}
