package attachment

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "photo.jpg"},
		{"My Photo (1).jpg", "My_Photo_1_.jpg"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\shot.png`, "shot.png"},
		{"ảnh đẹp.png", "nh_p.png"},
		{"", "file"},
		{"...", "file"},
		{"???", "file"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeFileName(tt.in))
		})
	}
}

func TestSanitizeFileName_Truncates(t *testing.T) {
	name := strings.Repeat("a", 300) + ".webp"

	got := sanitizeFileName(name)

	assert.Len(t, got, maxNameLength)
	assert.True(t, strings.HasSuffix(got, ".webp"))
}

func TestObjectKey(t *testing.T) {
	now := time.UnixMilli(1712345678901)

	key := ObjectKey("offices", SectionGallery, now, "front.jpg", "image/jpeg")
	assert.Regexp(t, `^offices/gallery/1712345678901_[0-9a-f]{8}_front\.jpg$`, key)

	noPrefix := ObjectKey("", SectionBlocks, now, "a.png", "image/png")
	assert.Regexp(t, `^blocks/1712345678901_[0-9a-f]{8}_a\.png$`, noPrefix)
}

func TestObjectKey_AddsExtensionFromContentType(t *testing.T) {
	key := ObjectKey("aiTools", SectionThumbnails, time.Now(), "blob", "image/png")

	assert.True(t, strings.HasSuffix(key, "_blob.png"), key)
}

func TestObjectKey_IsUnique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		key := ObjectKey("projects", SectionGallery, now, "same.png", "image/png")
		_, dup := seen[key]
		assert.False(t, dup, "duplicate key %s", key)
		seen[key] = struct{}{}
	}
}

func TestDetectContentType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	assert.Equal(t, "image/webp", detectContentType(Payload{ContentType: "image/webp", Data: png}))
	assert.Equal(t, "image/png", detectContentType(Payload{Data: png}))
	assert.Equal(t, "image/png", detectContentType(Payload{ContentType: "application/octet-stream", Data: png}))
}
