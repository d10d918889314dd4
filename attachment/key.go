package attachment

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	SectionThumbnails = "thumbnails"
	SectionGallery    = "gallery"
	SectionBlocks     = "blocks"

	maxNameLength = 100
)

// ObjectKey builds <prefix>/<section>/<unix-millis>_<8 hex>_<name>.
func ObjectKey(prefix, section string, now time.Time, fileName, contentType string) string {
	name := sanitizeFileName(fileName)
	if path.Ext(name) == "" {
		if mt := mimetype.Lookup(contentType); mt != nil {
			name += mt.Extension()
		}
	}
	key := fmt.Sprintf("%s/%d_%s_%s", section, now.UnixMilli(), uuid.NewString()[:8], name)
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}

func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		name = ""
	}

	var b strings.Builder
	lastUnderscore := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	out := strings.Trim(b.String(), "_.")
	if out == "" {
		return "file"
	}
	if len(out) > maxNameLength {
		ext := path.Ext(out)
		if len(ext) >= maxNameLength {
			ext = ""
		}
		out = out[:maxNameLength-len(ext)] + ext
	}
	return out
}

// detectContentType keeps the declared type unless it is missing or generic.
func detectContentType(p Payload) string {
	declared := strings.TrimSpace(p.ContentType)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return mimetype.Detect(p.Data).String()
}
