// Package attachment manages the image assets owned by a showcase record.
//
// A Manager turns uploaded payloads into stored objects and keeps a record's
// thumbnail, gallery and content-block images in step with the object store
// across create, update, gallery detach and delete. It never touches the
// database: every operation returns the new Set and the caller persists it.
package attachment

import (
	"fmt"
	"strings"
)

// Attachment is one stored image. URL is what records persist; StorageKey is
// derived from it through the object store.
type Attachment struct {
	URL        string
	StorageKey string
}

func (a Attachment) IsZero() bool {
	return a.URL == ""
}

type BlockKind string

const (
	BlockText  BlockKind = "text"
	BlockQuote BlockKind = "quote"
	BlockImage BlockKind = "image"
)

func ParseBlockKind(s string) (BlockKind, error) {
	switch kind := BlockKind(strings.ToLower(strings.TrimSpace(s))); kind {
	case BlockText, BlockQuote, BlockImage:
		return kind, nil
	default:
		return "", &ValidationError{Reason: fmt.Sprintf("unknown content block type %q", s)}
	}
}

// ContentBlock is a typed unit of rich content. Text and quote blocks carry
// Value; image blocks carry Attachment.
type ContentBlock struct {
	Kind       BlockKind
	Value      string
	Attachment *Attachment
}

// URL returns the image URL of an image block, or "" for any other block.
func (b ContentBlock) URL() string {
	if b.Kind != BlockImage || b.Attachment == nil {
		return ""
	}
	return b.Attachment.URL
}

// BlockSpec describes a block as submitted by a caller. An image spec names
// either a FileIndex into the uploaded block images of the same call, or, on
// update, the URL of an image block the record already has (in Value).
type BlockSpec struct {
	Kind      BlockKind
	Value     string
	FileIndex *int
}

// Payload is one uploaded binary.
type Payload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Set is every attachment owned by one record.
type Set struct {
	Thumbnail     Attachment
	Gallery       []Attachment
	ContentBlocks []ContentBlock
}

func (s Set) GalleryURLs() []string {
	urls := make([]string, 0, len(s.Gallery))
	for _, a := range s.Gallery {
		urls = append(urls, a.URL)
	}
	return urls
}

// ImageURLs returns the URLs of the image blocks in block order.
func (s Set) ImageURLs() []string {
	var urls []string
	for _, b := range s.ContentBlocks {
		if u := b.URL(); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// URLs returns every URL referenced by the set: thumbnail, gallery, then
// image blocks. Duplicates are kept.
func (s Set) URLs() []string {
	var urls []string
	if !s.Thumbnail.IsZero() {
		urls = append(urls, s.Thumbnail.URL)
	}
	urls = append(urls, s.GalleryURLs()...)
	return append(urls, s.ImageURLs()...)
}

func (s Set) clone() Set {
	out := Set{Thumbnail: s.Thumbnail}
	if s.Gallery != nil {
		out.Gallery = append([]Attachment(nil), s.Gallery...)
	}
	if s.ContentBlocks != nil {
		out.ContentBlocks = append([]ContentBlock(nil), s.ContentBlocks...)
	}
	return out
}

// DeletionAttempt records one best-effort deletion. Err is nil when the
// object store accepted it.
type DeletionAttempt struct {
	URL string
	Err error
}

// Report is the side-effect log of one operation.
type Report struct {
	Uploaded  []Attachment
	Deletions []DeletionAttempt
	// Stale holds the old objects of a deferred update, still to be removed
	// by DeleteStale once the new set is persisted.
	Stale []string
}

func (r *Report) Failed() []DeletionAttempt {
	if r == nil {
		return nil
	}
	var failed []DeletionAttempt
	for _, d := range r.Deletions {
		if d.Err != nil {
			failed = append(failed, d)
		}
	}
	return failed
}

func (r *Report) DeletedURLs() []string {
	if r == nil {
		return nil
	}
	urls := make([]string, 0, len(r.Deletions))
	for _, d := range r.Deletions {
		urls = append(urls, d.URL)
	}
	return urls
}
