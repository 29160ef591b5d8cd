package helpers

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

var dataURLPattern = regexp.MustCompile(`^data:(image/[\w.+-]+);base64,(.+)$`)

// StripDataURLPrefix removes a "data:image/...;base64," prefix if present
func StripDataURLPrefix(s string) string {
	if m := dataURLPattern.FindStringSubmatch(s); m != nil {
		return m[2]
	}
	return s
}

// DecodeImage decodes a base64 image, with or without a data URL prefix.
// Images without a prefix are assumed to be JPEG.
func DecodeImage(s string) (mimeType string, data []byte, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil, fmt.Errorf("empty image")
	}

	mimeType = "image/jpeg"
	if m := dataURLPattern.FindStringSubmatch(s); m != nil {
		mimeType, s = m[1], m[2]
	} else if strings.HasPrefix(s, "data:") {
		return "", nil, fmt.Errorf("unsupported data URL")
	}

	data, err = base64.StdEncoding.DecodeString(s)
	if err != nil {
		// Some browsers drop the padding
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
		if err != nil {
			return "", nil, fmt.Errorf("invalid base64 image: %w", err)
		}
	}
	if len(data) == 0 {
		return "", nil, fmt.Errorf("empty image")
	}
	return mimeType, data, nil
}

// Truncate shortens s to at most n runes, appending "..." when cut
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
