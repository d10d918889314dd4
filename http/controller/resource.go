package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tnqbao/gau-showcase-admin/attachment"
	"github.com/tnqbao/gau-showcase-admin/entity"
	"github.com/tnqbao/gau-showcase-admin/http/controller/dto"
	"github.com/tnqbao/gau-showcase-admin/repository"
	"github.com/tnqbao/gau-showcase-admin/utils"
)

type record[T any] interface {
	*T
	entity.Record
}

// resource serves the admin endpoints of one showcase entity. Handlers only
// differ in how form fields map onto the entity, so that part is plugged in
// through bindCreate and bindUpdate.
type resource[T any, P record[T]] struct {
	ctrl   *Controller
	tag    string // Log tag and message subject, e.g. "AiTool"
	single string // JSON key of one record
	plural string // JSON key of a list

	store repository.DocumentStore[T]
	media *attachment.Manager

	bindCreate func(c *gin.Context) (P, error)
	bindUpdate func(c *gin.Context, doc P) error

	requiredMsg       string
	updateRequiredMsg string
}

func (r *resource[T, P]) withBlocks() bool {
	_, ok := any(P(new(T))).(entity.BlockHolder)
	return ok
}

func (r *resource[T, P]) create(c *gin.Context) {
	ctx := c.Request.Context()
	logger := r.ctrl.Infra.Logger

	doc, err := r.bindCreate(c)
	if err != nil {
		r.rejectInput(c, err, r.requiredMsg)
		return
	}

	files, err := r.ctrl.readUploads(c, r.withBlocks())
	if err != nil {
		r.rejectInput(c, err, "Invalid file upload")
		return
	}
	if files.thumbnail == nil {
		utils.JSON400(c, "Thumbnail image is required.")
		return
	}

	var blocks []attachment.BlockSpec
	if r.withBlocks() {
		if blocks, _, err = readBlockSpecs(c); err != nil {
			r.rejectInput(c, err, "Invalid content blocks")
			return
		}
	} else if _, sent := c.GetPostForm(fieldContentBlocks); sent {
		utils.JSON400(c, r.tag+" records have no content blocks")
		return
	}

	set, report, err := r.media.AttachCreate(ctx, attachment.CreateInput{
		Thumbnail:   files.thumbnail,
		Gallery:     files.gallery,
		BlockImages: files.blockImages,
		Blocks:      blocks,
	})
	if err != nil {
		r.attachmentError(c, err)
		return
	}

	doc.SetID(uuid.New())
	applySet(doc, set)

	if err := r.store.Create(ctx, (*T)(doc)); err != nil {
		logger.ErrorWithContextf(ctx, err, "[%s] Failed to save record, discarding %d uploaded objects", r.tag, len(report.Uploaded))
		r.media.Discard(ctx, report.Uploaded)
		utils.JSON500(c, "Server error creating "+r.single)
		return
	}

	logger.InfoWithContextf(ctx, "[%s] Created %s with %d uploaded objects", r.tag, doc.GetID(), len(report.Uploaded))
	utils.JSON201(c, gin.H{
		"message": r.tag + " created successfully",
		r.single:  doc,
	})
}

func (r *resource[T, P]) list(c *gin.Context) {
	ctx := c.Request.Context()

	docs, err := r.store.List(ctx)
	if err != nil {
		r.ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[%s] Failed to list records", r.tag)
		utils.JSON500(c, "Server error fetching "+r.plural)
		return
	}
	if docs == nil {
		docs = []T{}
	}
	utils.JSON200(c, gin.H{r.plural: docs})
}

func (r *resource[T, P]) get(c *gin.Context) {
	doc, ok := r.load(c)
	if !ok {
		return
	}
	utils.JSON200(c, gin.H{r.single: doc})
}

func (r *resource[T, P]) update(c *gin.Context) {
	ctx := c.Request.Context()
	logger := r.ctrl.Infra.Logger

	existing, ok := r.load(c)
	if !ok {
		return
	}

	// Fields are applied to a copy so the stored set stays intact until
	// the attachment update succeeds.
	next := P(new(T))
	*next = *(*T)(existing)
	if err := r.bindUpdate(c, next); err != nil {
		msg := r.updateRequiredMsg
		if msg == "" {
			msg = "Invalid request payload"
		}
		r.rejectInput(c, err, msg)
		return
	}

	files, err := r.ctrl.readUploads(c, r.withBlocks())
	if err != nil {
		r.rejectInput(c, err, "Invalid file upload")
		return
	}

	// Old objects are only removed once the record no longer points at them.
	in := attachment.UpdateInput{
		Thumbnail:      files.thumbnail,
		Gallery:        files.gallery,
		BlockImages:    files.blockImages,
		DeferDeletions: true,
	}
	if r.withBlocks() {
		if in.Blocks, in.ReplaceBlocks, err = readBlockSpecs(c); err != nil {
			r.rejectInput(c, err, "Invalid content blocks")
			return
		}
	}

	set, report, err := r.media.AttachUpdate(ctx, attachmentSet(r.media, existing), in)
	if err != nil {
		r.attachmentError(c, err)
		return
	}
	applySet(next, set)

	id := existing.GetID()
	if err := r.store.Update(ctx, id, (*T)(next)); err != nil {
		logger.ErrorWithContextf(ctx, err, "[%s] Failed to save %s, discarding %d uploaded objects", r.tag, id, len(report.Uploaded))
		r.media.Discard(ctx, report.Uploaded)
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, r.tag+" not found")
			return
		}
		utils.JSON500(c, "Server error updating "+r.single)
		return
	}

	r.media.DeleteStale(ctx, report)
	if failed := report.Failed(); len(failed) > 0 {
		logger.WarningWithContextf(ctx, "[%s] Updated %s but %d old objects could not be deleted", r.tag, id, len(failed))
	}
	logger.InfoWithContextf(ctx, "[%s] Updated %s: %d uploaded, %d deleted", r.tag, id, len(report.Uploaded), len(report.Deletions))
	utils.JSON200(c, gin.H{
		"message": r.tag + " updated successfully",
		r.single:  next,
	})
}

func (r *resource[T, P]) delete(c *gin.Context) {
	ctx := c.Request.Context()
	logger := r.ctrl.Infra.Logger

	doc, ok := r.load(c)
	if !ok {
		return
	}
	id := doc.GetID()

	report := r.media.PurgeAll(ctx, attachmentSet(r.media, doc))
	if failed := report.Failed(); len(failed) > 0 {
		logger.WarningWithContextf(ctx, "[%s] %d objects of %s could not be deleted", r.tag, len(failed), id)
	}

	if err := r.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, r.tag+" not found")
			return
		}
		logger.ErrorWithContextf(ctx, err, "[%s] Failed to delete %s", r.tag, id)
		utils.JSON500(c, "Server error deleting "+r.single)
		return
	}

	logger.InfoWithContextf(ctx, "[%s] Deleted %s and %d objects", r.tag, id, len(report.Deletions)-len(report.Failed()))
	utils.JSON200(c, gin.H{"message": r.tag + " deleted successfully"})
}

func (r *resource[T, P]) deleteGalleryImage(c *gin.Context) {
	ctx := c.Request.Context()
	logger := r.ctrl.Infra.Logger

	var req dto.DeleteGalleryImageRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Image URL is required")
		return
	}

	doc, ok := r.load(c)
	if !ok {
		return
	}
	id := doc.GetID()

	set, err := r.media.DetachGalleryImage(ctx, attachmentSet(r.media, doc), req.ImageURL)
	if err != nil {
		r.attachmentError(c, err)
		return
	}
	applySet(doc, set)

	if err := r.store.Update(ctx, id, (*T)(doc)); err != nil {
		logger.ErrorWithContextf(ctx, err, "[%s] Deleted %s from storage but failed to save %s", r.tag, req.ImageURL, id)
		utils.JSON500(c, "Server error deleting gallery image")
		return
	}

	logger.InfoWithContextf(ctx, "[%s] Removed gallery image %s from %s", r.tag, req.ImageURL, id)
	utils.JSON200(c, gin.H{
		"message": "Gallery image deleted successfully",
		"gallery": doc.GetMedia().Gallery,
	})
}

// load fetches the record named by the :id path parameter and writes the
// error response itself when that fails.
func (r *resource[T, P]) load(c *gin.Context) (P, bool) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON404(c, r.tag+" not found")
		return nil, false
	}

	doc, err := r.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, r.tag+" not found")
			return nil, false
		}
		r.ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[%s] Failed to load %s", r.tag, id)
		utils.JSON500(c, "Server error fetching "+r.single)
		return nil, false
	}
	return P(doc), true
}

func (r *resource[T, P]) rejectInput(c *gin.Context, err error, fallback string) {
	ctx := c.Request.Context()

	var tooBig *http.MaxBytesError
	var limit *uploadLimitError
	var invalid *attachment.ValidationError
	switch {
	case errors.As(err, &tooBig), errors.Is(err, errFileTooLarge):
		r.ctrl.Infra.Logger.WarningWithContextf(ctx, "[%s] Rejected oversized upload: %v", r.tag, err)
		utils.JSON413(c, "Uploaded file is too large")
	case errors.As(err, &limit):
		utils.JSON400(c, limit.reason)
	case errors.As(err, &invalid):
		utils.JSON400(c, invalid.Reason)
	default:
		r.ctrl.Infra.Logger.WarningWithContextf(ctx, "[%s] Invalid request: %v", r.tag, err)
		utils.JSON400(c, fallback)
	}
}

// attachmentError maps attachment manager failures onto HTTP statuses.
func (r *resource[T, P]) attachmentError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var invalid *attachment.ValidationError
	var notFound *attachment.NotFoundError
	var upload *attachment.UploadError
	var storage *attachment.StorageError
	switch {
	case errors.As(err, &invalid):
		utils.JSON400(c, invalid.Reason)
	case errors.As(err, &notFound):
		utils.JSON404(c, "Image not found in gallery")
	case errors.As(err, &upload):
		r.ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[%s] Upload failed", r.tag)
		utils.JSON500(c, "Failed to upload "+upload.Target)
	case errors.As(err, &storage):
		r.ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[%s] Storage deletion failed", r.tag)
		utils.JSON500(c, "Failed to delete image from storage")
	default:
		r.ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[%s] Attachment operation failed", r.tag)
		utils.JSON500(c, "Server error processing images")
	}
}
