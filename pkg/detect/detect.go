// Package detect identifies media types from content and from file names.
package detect

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const octetStream = "application/octet-stream"

// Content sniffs MIME types from leading bytes using magic-number signatures.
type Content struct{}

// Sniff reports the MIME type and extension (without the leading dot) of data.
// Content that matches no signature is reported as not recognized.
func (Content) Sniff(data []byte) (string, string, bool) {
	if len(data) == 0 {
		return "", "", false
	}

	m := mimetype.Detect(data)
	mt := Normalize(m.String())
	if mt == "" || mt == octetStream {
		return "", "", false
	}

	ext := strings.TrimPrefix(m.Extension(), ".")
	if ext == "" {
		ext = Extension{}.ExtensionFor(mt)
	}
	if ext == "" {
		ext = "bin"
	}
	return mt, ext, true
}

// Extension resolves MIME types from file names or bare extensions.
// A built-in table covers common media; anything else falls through to the
// platform registry.
type Extension struct{}

// Lookup accepts "photo.JPG", ".jpg" or "jpg".
func (Extension) Lookup(nameOrExt string) (string, bool) {
	ext := extensionOf(nameOrExt)
	if ext == "" {
		return "", false
	}

	if mt, ok := byExtension[ext]; ok {
		return mt, true
	}
	if mt := Normalize(mime.TypeByExtension("." + ext)); mt != "" {
		return mt, true
	}
	return "", false
}

// ExtensionFor returns the preferred extension for a MIME type, without the dot.
func (Extension) ExtensionFor(mimeType string) string {
	mt := Normalize(mimeType)
	if ext, ok := preferredExtension[mt]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mt); err == nil && len(exts) > 0 {
		return strings.TrimPrefix(exts[0], ".")
	}
	return ""
}

// Normalize lower-cases a MIME type and strips its parameters.
func Normalize(raw string) string {
	mt := strings.ToLower(strings.TrimSpace(raw))
	if idx := strings.Index(mt, ";"); idx >= 0 {
		mt = strings.TrimSpace(mt[:idx])
	}
	return mt
}

func extensionOf(nameOrExt string) string {
	v := strings.ToLower(strings.TrimSpace(nameOrExt))
	if v == "" {
		return ""
	}
	if ext := filepath.Ext(v); ext != "" {
		return strings.TrimPrefix(ext, ".")
	}
	if strings.ContainsAny(v, `/\`) {
		return ""
	}
	return v
}
