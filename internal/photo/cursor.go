package photo

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// Cursor marks the last entry of a gallery page; the next page starts strictly after it.
type Cursor struct {
	UploadTime time.Time
	PhotoName  string
}

// Encode renders the cursor as an opaque URL-safe token.
func (c Cursor) Encode() string {
	raw := c.UploadTime.UTC().Format(time.RFC3339Nano) + "|" + c.PhotoName
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// ParseCursor decodes a token produced by Cursor.Encode.
func ParseCursor(token string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	ts, name, ok := strings.Cut(string(raw), "|")
	if !ok || name == "" {
		return Cursor{}, fmt.Errorf("%w: missing photo name", ErrInvalidCursor)
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	return Cursor{UploadTime: t, PhotoName: name}, nil
}

func cursorAfter(v View) *Cursor {
	return &Cursor{UploadTime: v.UploadTime, PhotoName: v.PhotoName}
}

