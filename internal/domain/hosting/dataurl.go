package hosting

import (
	"encoding/base64"
	"strings"
)

// IsDataURL reports whether the reference is an inline image encoding.
func IsDataURL(ref string) bool {
	return strings.HasPrefix(ref, "data:")
}

// ParseDataURL decodes a `data:<mime>;base64,<payload>` reference into
// its MIME type and raw bytes. The encoding is self-describing; anything
// that doesn't follow the base64 data URL form is rejected.
func ParseDataURL(ref string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return "", nil, ErrInvalidImageData
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidImageData
	}

	mimeType, _, _ := strings.Cut(meta, ";")
	if mimeType == "" || !strings.Contains(meta, "base64") {
		return "", nil, ErrInvalidImageData
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, ErrInvalidImageData
	}

	return mimeType, data, nil
}

// ExtensionForMime returns the file extension for an image MIME type
func ExtensionForMime(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".bin"
	}
}
