// Package inspect derives content facts from buffered media: a content hash
// for every payload, pixel dimensions for images and page counts for PDFs.
package inspect

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/JaimeStill/mediaconv/pkg/convert"
)

// Inspector implements convert.Inspector.
type Inspector struct{}

// Inspect always reports the SHA-256 of data. Image and PDF probes run by
// MIME type; when a probe fails the hash is still returned alongside the error.
func (Inspector) Inspect(data []byte, mime string) (*convert.Details, error) {
	sum := sha256.Sum256(data)
	details := &convert.Details{SHA256: hex.EncodeToString(sum[:])}

	switch {
	case strings.HasPrefix(mime, "image/"):
		if !decodable(mime) {
			return details, nil
		}
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return details, fmt.Errorf("decode image config: %w", err)
		}
		details.Width, details.Height = cfg.Width, cfg.Height

	case mime == "application/pdf":
		count, err := PageCount(data)
		if err != nil {
			return details, err
		}
		details.PageCount = count
	}

	return details, nil
}

// PageCount returns the number of pages in a PDF document.
func PageCount(data []byte) (int, error) {
	count, err := api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("read pdf page count: %w", err)
	}
	return count, nil
}

func decodable(mime string) bool {
	switch mime {
	case "image/png", "image/jpeg", "image/gif", "image/webp", "image/bmp", "image/tiff":
		return true
	default:
		return false
	}
}
