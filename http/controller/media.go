package controller

import (
	"github.com/tnqbao/gau-showcase-admin/attachment"
	"github.com/tnqbao/gau-showcase-admin/entity"
)

// attachmentSet rebuilds the attachment set of a stored record.
func attachmentSet(m *attachment.Manager, rec entity.Record) attachment.Set {
	media := rec.GetMedia()

	var set attachment.Set
	if media.ThumbnailURL != "" {
		set.Thumbnail = m.Resolve(media.ThumbnailURL)
	}
	if len(media.Gallery) > 0 {
		set.Gallery = m.ResolveAll(media.Gallery)
	}

	holder, ok := rec.(entity.BlockHolder)
	if !ok {
		return set
	}
	for _, b := range holder.GetContentBlocks() {
		block := attachment.ContentBlock{Kind: attachment.BlockKind(b.Type)}
		if block.Kind == attachment.BlockImage {
			if b.Content != "" {
				a := m.Resolve(b.Content)
				block.Attachment = &a
			}
		} else {
			block.Value = b.Content
		}
		set.ContentBlocks = append(set.ContentBlocks, block)
	}
	return set
}

// applySet writes set back into the media columns of rec.
func applySet(rec entity.Record, set *attachment.Set) {
	media := rec.GetMedia()
	media.ThumbnailURL = set.Thumbnail.URL
	media.Gallery = set.GalleryURLs()

	holder, ok := rec.(entity.BlockHolder)
	if !ok {
		return
	}
	blocks := make([]entity.ContentBlock, 0, len(set.ContentBlocks))
	for _, b := range set.ContentBlocks {
		content := b.Value
		if b.Kind == attachment.BlockImage {
			content = b.URL()
		}
		blocks = append(blocks, entity.ContentBlock{Type: string(b.Kind), Content: content})
	}
	holder.SetContentBlocks(blocks)
}
