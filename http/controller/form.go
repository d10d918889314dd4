package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-showcase-admin/attachment"
	"github.com/tnqbao/gau-showcase-admin/http/controller/dto"
)

const (
	fieldThumbnail     = "thumbnail"
	fieldGallery       = "gallery"
	fieldBlockImages   = "blockImages"
	fieldContentBlocks = "contentBlocks"
)

var errFileTooLarge = errors.New("file too large")

// uploadLimitError rejects a request whose files break the upload limits.
type uploadLimitError struct {
	reason string
	err    error
}

func (e *uploadLimitError) Error() string {
	return e.reason
}

func (e *uploadLimitError) Unwrap() error {
	return e.err
}

type uploads struct {
	thumbnail   *attachment.Payload
	gallery     []attachment.Payload
	blockImages []attachment.Payload
}

// readUploads collects the files of a multipart request. Requests that are
// not multipart carry no files.
func (ctrl *Controller) readUploads(c *gin.Context, withBlocks bool) (uploads, error) {
	var out uploads

	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return out, nil
		}
		return out, err
	}

	limits := ctrl.Config.EnvConfig.Upload
	total := 0
	for field, headers := range form.File {
		switch field {
		case fieldThumbnail, fieldGallery:
		case fieldBlockImages:
			if !withBlocks {
				return out, &uploadLimitError{reason: fmt.Sprintf("Unexpected file field %q", field)}
			}
		default:
			return out, &uploadLimitError{reason: fmt.Sprintf("Unexpected file field %q", field)}
		}
		total += len(headers)
	}
	if total > limits.MaxFiles {
		return out, &uploadLimitError{reason: fmt.Sprintf("Too many files: at most %d per request", limits.MaxFiles)}
	}
	if thumbs := form.File[fieldThumbnail]; len(thumbs) > 1 {
		return out, &uploadLimitError{reason: "Only one thumbnail image is allowed"}
	}

	if thumbs := form.File[fieldThumbnail]; len(thumbs) == 1 {
		p, err := readPayload(thumbs[0], limits.MaxFileSize)
		if err != nil {
			return out, err
		}
		out.thumbnail = &p
	}
	if out.gallery, err = readPayloads(form.File[fieldGallery], limits.MaxFileSize); err != nil {
		return out, err
	}
	if out.blockImages, err = readPayloads(form.File[fieldBlockImages], limits.MaxFileSize); err != nil {
		return out, err
	}
	return out, nil
}

func readPayloads(headers []*multipart.FileHeader, maxSize int64) ([]attachment.Payload, error) {
	var out []attachment.Payload
	for _, fh := range headers {
		p, err := readPayload(fh, maxSize)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func readPayload(fh *multipart.FileHeader, maxSize int64) (attachment.Payload, error) {
	if fh.Size > maxSize {
		return attachment.Payload{}, &uploadLimitError{
			reason: fmt.Sprintf("File %s exceeds the %d byte limit", fh.Filename, maxSize),
			err:    errFileTooLarge,
		}
	}

	f, err := fh.Open()
	if err != nil {
		return attachment.Payload{}, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return attachment.Payload{}, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
	}
	if int64(len(data)) > maxSize {
		return attachment.Payload{}, &uploadLimitError{
			reason: fmt.Sprintf("File %s exceeds the %d byte limit", fh.Filename, maxSize),
			err:    errFileTooLarge,
		}
	}

	return attachment.Payload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// readBlockSpecs parses the contentBlocks form field. present is false when
// the field was not sent at all; an empty string counts as an empty list.
func readBlockSpecs(c *gin.Context) (specs []attachment.BlockSpec, present bool, err error) {
	raw, present := c.GetPostForm(fieldContentBlocks)
	if !present {
		return nil, false, nil
	}
	if raw == "" {
		return []attachment.BlockSpec{}, true, nil
	}

	var blocks []dto.ContentBlockDTO
	if err := json.Unmarshal([]byte(raw), &blocks); err != nil {
		return nil, true, &attachment.ValidationError{Reason: "contentBlocks must be a JSON array of blocks"}
	}

	specs = make([]attachment.BlockSpec, 0, len(blocks))
	for _, b := range blocks {
		kind, err := attachment.ParseBlockKind(b.Type)
		if err != nil {
			return nil, true, err
		}
		specs = append(specs, attachment.BlockSpec{
			Kind:      kind,
			Value:     b.Content,
			FileIndex: b.FileIndex,
		})
	}
	return specs, true, nil
}
