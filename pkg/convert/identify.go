package convert

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Fallbacks used when neither the filename nor the content identify the payload.
const (
	DefaultMime = "application/octet-stream"
	DefaultExt  = "bin"
)

// identify derives metadata for payload. A non-empty filename takes precedence
// over content sniffing.
func (c *Converter) identify(payload []byte, filename string) Metadata {
	meta := Metadata{
		FileName: filename,
		FileSize: int64(len(payload)),
	}

	if filename != "" {
		meta.FileExt = strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
		meta.FileMime = DefaultMime
		if mime, ok := c.lookup.Lookup(filename); ok {
			meta.FileMime = mime
		}
		return meta
	}

	meta.FileMime, meta.FileExt = DefaultMime, DefaultExt
	if mime, ext, ok := c.sniffer.Sniff(payload); ok {
		meta.FileMime, meta.FileExt = mime, ext
	}
	meta.FileName = fmt.Sprintf("%d.%s", c.now().UnixMilli(), meta.FileExt)

	return meta
}
