package attachment

import "fmt"

type plannedBlock struct {
	kind      BlockKind
	value     string
	fileIndex int
	existing  *Attachment
}

type blockPlan []plannedBlock

// planBlocks validates block specs against the number of uploaded block
// images. Every image spec must reference exactly one upload (or, when known
// is non-nil, an image the record already has), and every upload must be
// referenced exactly once.
func planBlocks(specs []BlockSpec, uploads int, known map[string]Attachment) (blockPlan, error) {
	plan := make(blockPlan, 0, len(specs))
	used := make([]bool, uploads)

	for i, spec := range specs {
		switch spec.Kind {
		case BlockText, BlockQuote:
			if spec.FileIndex != nil {
				return nil, &ValidationError{Reason: fmt.Sprintf("content block %d: %s block cannot reference a file", i, spec.Kind)}
			}
			plan = append(plan, plannedBlock{kind: spec.Kind, value: spec.Value, fileIndex: -1})

		case BlockImage:
			if spec.FileIndex == nil {
				a, ok := known[spec.Value]
				if spec.Value == "" || !ok {
					return nil, &ValidationError{Reason: fmt.Sprintf("content block %d: image block has no file", i)}
				}
				plan = append(plan, plannedBlock{kind: BlockImage, fileIndex: -1, existing: &a})
				continue
			}

			idx := *spec.FileIndex
			if idx < 0 || idx >= uploads {
				return nil, &ValidationError{Reason: fmt.Sprintf("content block %d: fileIndex %d out of range (%d block images)", i, idx, uploads)}
			}
			if used[idx] {
				return nil, &ValidationError{Reason: fmt.Sprintf("content block %d: fileIndex %d already used", i, idx)}
			}
			used[idx] = true
			plan = append(plan, plannedBlock{kind: BlockImage, fileIndex: idx})

		default:
			return nil, &ValidationError{Reason: fmt.Sprintf("content block %d: unknown type %q", i, spec.Kind)}
		}
	}

	for idx, ok := range used {
		if !ok {
			return nil, &ValidationError{Reason: fmt.Sprintf("block image %d is not referenced by any content block", idx)}
		}
	}
	return plan, nil
}

// materialize builds the content blocks once the block images are uploaded.
func (p blockPlan) materialize(uploaded []Attachment) []ContentBlock {
	blocks := make([]ContentBlock, 0, len(p))
	for _, b := range p {
		switch {
		case b.existing != nil:
			a := *b.existing
			blocks = append(blocks, ContentBlock{Kind: BlockImage, Attachment: &a})
		case b.fileIndex >= 0:
			a := uploaded[b.fileIndex]
			blocks = append(blocks, ContentBlock{Kind: BlockImage, Attachment: &a})
		default:
			blocks = append(blocks, ContentBlock{Kind: b.kind, Value: b.value})
		}
	}
	return blocks
}
