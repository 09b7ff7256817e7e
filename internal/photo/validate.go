package photo

import (
	"fmt"
	"mime"
	"net/url"
	"strings"
	"unicode"
)

const maxFilenameLength = 255

// ValidateFilename checks a client-supplied filename before it becomes part of
// an object key. Names are rejected rather than rewritten, so an accepted name
// is used byte for byte.
func ValidateFilename(name string) (string, error) {
	switch {
	case strings.TrimSpace(name) == "":
		return "", fmt.Errorf("%w: filename is required", ErrInvalidFilename)
	case strings.TrimSpace(name) != name:
		return "", fmt.Errorf("%w: must not start or end with whitespace", ErrInvalidFilename)
	case len(name) > maxFilenameLength:
		return "", fmt.Errorf("%w: longer than %d bytes", ErrInvalidFilename, maxFilenameLength)
	case strings.ContainsAny(name, `/\`):
		return "", fmt.Errorf("%w: must not contain path separators", ErrInvalidFilename)
	case strings.Contains(name, ".."):
		return "", fmt.Errorf("%w: must not contain '..'", ErrInvalidFilename)
	case name == ".":
		return "", fmt.Errorf("%w: must name a file", ErrInvalidFilename)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("%w: must not contain control characters", ErrInvalidFilename)
		}
	}
	return name, nil
}

// NormalizeContentType applies the default and checks the value is a media type.
func NormalizeContentType(contentType string) (string, error) {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return DefaultContentType, nil
	}
	if _, _, err := mime.ParseMediaType(contentType); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidContentType, contentType)
	}
	return contentType, nil
}

// DecodeObjectKey reverses the form encoding used for keys in notifications.
func DecodeObjectKey(raw string) (string, error) {
	key, err := url.QueryUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidKey, raw, err)
	}
	if key == "" {
		return "", fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	return key, nil
}
