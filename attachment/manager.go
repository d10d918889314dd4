package attachment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	instrumentationName = "github.com/tnqbao/gau-showcase-admin/attachment"
	defaultConcurrency  = 8
)

type Manager struct {
	store       ObjectStore
	prefix      string
	logger      Logger
	retrier     DeletionRetrier
	now         func() time.Time
	concurrency int

	tracer    trace.Tracer
	uploads   metric.Int64Counter
	deletions metric.Int64Counter
}

type Option func(*Manager)

func WithLogger(logger Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithRetrier hands failed best-effort deletions to r.
func WithRetrier(r DeletionRetrier) Option {
	return func(m *Manager) {
		m.retrier = r
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithConcurrency bounds the uploads and deletions in flight per operation.
func WithConcurrency(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

// NewManager returns a manager storing objects under prefix (e.g. "projects").
func NewManager(store ObjectStore, prefix string, opts ...Option) *Manager {
	if store == nil {
		panic("attachment: object store is required")
	}

	m := &Manager{
		store:       store,
		prefix:      strings.Trim(prefix, "/"),
		logger:      nopLogger{},
		now:         time.Now,
		concurrency: defaultConcurrency,
		tracer:      otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(m)
	}

	meter := otel.Meter(instrumentationName)
	var err error
	if m.uploads, err = meter.Int64Counter("attachment.uploads",
		metric.WithDescription("Objects written to the object store"),
		metric.WithUnit("{object}")); err != nil {
		m.uploads = noop.Int64Counter{}
	}
	if m.deletions, err = meter.Int64Counter("attachment.deletions",
		metric.WithDescription("Objects removed from the object store"),
		metric.WithUnit("{object}")); err != nil {
		m.deletions = noop.Int64Counter{}
	}

	return m
}

func (m *Manager) Prefix() string {
	return m.prefix
}

// Resolve rebuilds an Attachment from a persisted URL. URLs the store does
// not recognise keep an empty StorageKey.
func (m *Manager) Resolve(url string) Attachment {
	key, err := m.store.KeyFromURL(url)
	if err != nil {
		return Attachment{URL: url}
	}
	return Attachment{URL: url, StorageKey: key}
}

func (m *Manager) ResolveAll(urls []string) []Attachment {
	out := make([]Attachment, 0, len(urls))
	for _, u := range urls {
		out = append(out, m.Resolve(u))
	}
	return out
}

type CreateInput struct {
	Thumbnail   *Payload
	Gallery     []Payload
	BlockImages []Payload
	Blocks      []BlockSpec
}

// AttachCreate uploads the attachments of a new record. The thumbnail is
// uploaded first, then gallery and block images concurrently. If any upload
// fails, every object written by this call is removed again and an
// *UploadError is returned along with the report of that cleanup.
func (m *Manager) AttachCreate(ctx context.Context, in CreateInput) (*Set, *Report, error) {
	if in.Thumbnail == nil {
		return nil, nil, &ValidationError{Reason: "thumbnail required"}
	}
	if err := validatePayloads(in.Thumbnail, in.Gallery, in.BlockImages); err != nil {
		return nil, nil, err
	}
	plan, err := planBlocks(in.Blocks, len(in.BlockImages), nil)
	if err != nil {
		return nil, nil, err
	}

	ctx, span := m.tracer.Start(ctx, "attachment.AttachCreate", trace.WithAttributes(
		attribute.String("attachment.prefix", m.prefix),
		attribute.Int("attachment.gallery", len(in.Gallery)),
		attribute.Int("attachment.block_images", len(in.BlockImages)),
	))
	defer span.End()

	up, report, err := m.uploadAll(ctx, in.Thumbnail, in.Gallery, in.BlockImages)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upload failed")
		return nil, report, err
	}

	set := &Set{
		Thumbnail:     up.thumbnail,
		Gallery:       up.gallery,
		ContentBlocks: plan.materialize(up.blocks),
	}
	m.logger.InfoWithContextf(ctx, "[Attachment] Created %s set: thumbnail %s, %d gallery, %d blocks",
		m.prefix, set.Thumbnail.URL, len(set.Gallery), len(set.ContentBlocks))

	return set, report, nil
}

type UpdateInput struct {
	Thumbnail   *Payload
	Gallery     []Payload
	BlockImages []Payload
	Blocks      []BlockSpec
	// ReplaceBlocks replaces the content blocks with Blocks, even when Blocks
	// is empty. When false the existing blocks are kept as they are.
	ReplaceBlocks bool
	// DeferDeletions leaves the objects the new set no longer references in
	// Report.Stale instead of deleting them.
	DeferDeletions bool
}

// AttachUpdate applies new uploads to an existing set. A new thumbnail
// replaces the old one, gallery uploads are appended, and, with
// ReplaceBlocks, the content blocks are replaced and the images they no
// longer reference are deleted. Old objects are only deleted after every
// upload of the call succeeded, and those deletions are best-effort.
func (m *Manager) AttachUpdate(ctx context.Context, existing Set, in UpdateInput) (*Set, *Report, error) {
	if !in.ReplaceBlocks && len(in.BlockImages) > 0 {
		return nil, nil, &ValidationError{Reason: "block images supplied without content blocks"}
	}
	if err := validatePayloads(in.Thumbnail, in.Gallery, in.BlockImages); err != nil {
		return nil, nil, err
	}

	var plan blockPlan
	if in.ReplaceBlocks {
		known := make(map[string]Attachment)
		for _, b := range existing.ContentBlocks {
			if u := b.URL(); u != "" {
				known[u] = *b.Attachment
			}
		}
		var err error
		if plan, err = planBlocks(in.Blocks, len(in.BlockImages), known); err != nil {
			return nil, nil, err
		}
	}

	ctx, span := m.tracer.Start(ctx, "attachment.AttachUpdate", trace.WithAttributes(
		attribute.String("attachment.prefix", m.prefix),
		attribute.Bool("attachment.thumbnail", in.Thumbnail != nil),
		attribute.Int("attachment.gallery", len(in.Gallery)),
		attribute.Bool("attachment.replace_blocks", in.ReplaceBlocks),
	))
	defer span.End()

	up, report, err := m.uploadAll(ctx, in.Thumbnail, in.Gallery, in.BlockImages)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upload failed")
		return nil, report, err
	}

	next := existing.clone()
	var stale []string

	if in.Thumbnail != nil {
		if !existing.Thumbnail.IsZero() {
			stale = append(stale, existing.Thumbnail.URL)
		}
		next.Thumbnail = up.thumbnail
	}

	next.Gallery = append(next.Gallery, up.gallery...)

	if in.ReplaceBlocks {
		next.ContentBlocks = plan.materialize(up.blocks)
		stale = append(stale, difference(existing.ImageURLs(), next.ImageURLs())...)
	}

	// An object is never deleted while the new set still points at it.
	stale = difference(dedupe(stale), next.URLs())
	if in.DeferDeletions {
		report.Stale = stale
	} else {
		report.Deletions = m.deleteBestEffort(ctx, stale)
	}

	m.logger.InfoWithContextf(ctx, "[Attachment] Updated %s set: %d uploaded, %d deleted, %d deletion failures",
		m.prefix, len(report.Uploaded), len(report.Deletions), len(report.Failed()))

	return &next, report, nil
}

// DeleteStale removes the objects a deferred AttachUpdate left in
// report.Stale. Deletions are best-effort and appended to the report.
func (m *Manager) DeleteStale(ctx context.Context, report *Report) {
	if report == nil || len(report.Stale) == 0 {
		return
	}
	report.Deletions = append(report.Deletions, m.deleteBestEffort(ctx, report.Stale)...)
	report.Stale = nil
}

// DetachGalleryImage removes one image from the gallery. Unlike the other
// deletions this one is not best-effort: a store failure fails the call and
// leaves the set unchanged.
func (m *Manager) DetachGalleryImage(ctx context.Context, existing Set, targetURL string) (*Set, error) {
	found := false
	for _, a := range existing.Gallery {
		if a.URL == targetURL {
			found = true
			break
		}
	}
	if !found || targetURL == "" {
		return nil, &NotFoundError{URL: targetURL}
	}

	ctx, span := m.tracer.Start(ctx, "attachment.DetachGalleryImage", trace.WithAttributes(
		attribute.String("attachment.prefix", m.prefix),
	))
	defer span.End()

	next := existing.clone()
	next.Gallery = next.Gallery[:0]
	for _, a := range existing.Gallery {
		if a.URL != targetURL {
			next.Gallery = append(next.Gallery, a)
		}
	}

	// The thumbnail or an image block may share the object.
	if len(difference([]string{targetURL}, next.URLs())) == 0 {
		m.logger.InfoWithContextf(ctx, "[Attachment] Gallery image %s is still referenced, keeping the object", targetURL)
		return &next, nil
	}

	if err := m.store.Remove(ctx, targetURL); err != nil {
		m.deletions.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "error")))
		span.RecordError(err)
		span.SetStatus(codes.Error, "remove failed")
		m.logger.ErrorWithContextf(ctx, err, "[Attachment] Failed to delete gallery image %s", targetURL)
		return nil, &StorageError{URL: targetURL, Err: err}
	}
	m.deletions.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "ok")))

	return &next, nil
}

// PurgeAll deletes every object of a set being torn down. Failures are
// logged and reported, never returned.
func (m *Manager) PurgeAll(ctx context.Context, set Set) *Report {
	ctx, span := m.tracer.Start(ctx, "attachment.PurgeAll", trace.WithAttributes(
		attribute.String("attachment.prefix", m.prefix),
	))
	defer span.End()

	report := &Report{Deletions: m.deleteBestEffort(ctx, dedupe(set.URLs()))}
	if failed := report.Failed(); len(failed) > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d deletions failed", len(failed)))
		m.logger.WarningWithContextf(ctx, "[Attachment] Purged %s set with %d of %d deletions failed",
			m.prefix, len(failed), len(report.Deletions))
	}
	return report
}

// Discard removes objects produced by a call whose result was never
// persisted.
func (m *Manager) Discard(ctx context.Context, attachments []Attachment) *Report {
	urls := make([]string, 0, len(attachments))
	for _, a := range attachments {
		if !a.IsZero() {
			urls = append(urls, a.URL)
		}
	}
	return &Report{Deletions: m.deleteBestEffort(ctx, dedupe(urls))}
}

type uploads struct {
	thumbnail Attachment
	gallery   []Attachment
	blocks    []Attachment
}

func (u uploads) all() []Attachment {
	var out []Attachment
	if !u.thumbnail.IsZero() {
		out = append(out, u.thumbnail)
	}
	for _, list := range [][]Attachment{u.gallery, u.blocks} {
		for _, a := range list {
			if !a.IsZero() {
				out = append(out, a)
			}
		}
	}
	return out
}

// uploadAll uploads the thumbnail, then gallery and block images concurrently
// with fail-fast. Each result lands in the slot of its payload. On failure
// the objects already written are removed before returning.
func (m *Manager) uploadAll(ctx context.Context, thumbnail *Payload, gallery, blocks []Payload) (uploads, *Report, error) {
	up := uploads{
		gallery: make([]Attachment, len(gallery)),
		blocks:  make([]Attachment, len(blocks)),
	}
	report := &Report{}

	if thumbnail != nil {
		a, err := m.upload(ctx, SectionThumbnails, *thumbnail)
		if err != nil {
			return uploads{}, report, &UploadError{Target: "thumbnail", Err: err}
		}
		up.thumbnail = a
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for i, p := range gallery {
		g.Go(func() error {
			a, err := m.upload(gctx, SectionGallery, p)
			if err != nil {
				return &UploadError{Target: fmt.Sprintf("gallery[%d]", i), Err: err}
			}
			up.gallery[i] = a
			return nil
		})
	}
	for i, p := range blocks {
		g.Go(func() error {
			a, err := m.upload(gctx, SectionBlocks, p)
			if err != nil {
				return &UploadError{Target: fmt.Sprintf("blockImages[%d]", i), Err: err}
			}
			up.blocks[i] = a
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		written := up.all()
		m.logger.ErrorWithContextf(ctx, err, "[Attachment] Upload batch for %s failed, rolling back %d objects", m.prefix, len(written))
		urls := make([]string, 0, len(written))
		for _, a := range written {
			urls = append(urls, a.URL)
		}
		report.Deletions = m.deleteBestEffort(context.WithoutCancel(ctx), urls)
		return uploads{}, report, err
	}

	report.Uploaded = up.all()
	return up, report, nil
}

func (m *Manager) upload(ctx context.Context, section string, p Payload) (Attachment, error) {
	if err := ctx.Err(); err != nil {
		return Attachment{}, err
	}

	contentType := detectContentType(p)
	key := ObjectKey(m.prefix, section, m.now(), p.FileName, contentType)

	url, err := m.store.Store(ctx, p.Data, key, contentType)
	if err != nil {
		m.uploads.Add(ctx, 1, metric.WithAttributes(
			attribute.String("section", section), attribute.String("result", "error")))
		return Attachment{}, err
	}
	m.uploads.Add(ctx, 1, metric.WithAttributes(
		attribute.String("section", section), attribute.String("result", "ok")))

	return Attachment{URL: url, StorageKey: key}, nil
}

// deleteBestEffort removes every url concurrently and waits for all of them.
// Failures are logged and handed to the retrier.
func (m *Manager) deleteBestEffort(ctx context.Context, urls []string) []DeletionAttempt {
	if len(urls) == 0 {
		return nil
	}

	attempts := make([]DeletionAttempt, len(urls))
	var g errgroup.Group
	g.SetLimit(m.concurrency)
	for i, u := range urls {
		g.Go(func() error {
			err := m.store.Remove(ctx, u)
			attempts[i] = DeletionAttempt{URL: u, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	for _, a := range attempts {
		if a.Err == nil {
			m.deletions.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "ok")))
			continue
		}
		m.deletions.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "error")))
		m.logger.ErrorWithContextf(ctx, a.Err, "[Attachment] Best-effort delete of %s failed", a.URL)
		if m.retrier == nil {
			continue
		}
		if err := m.retrier.RetryDeletion(ctx, a.URL, a.Err); err != nil {
			m.logger.WarningWithContextf(ctx, "[Attachment] Could not schedule retry for %s: %v", a.URL, err)
		}
	}
	return attempts
}

func validatePayloads(thumbnail *Payload, lists ...[]Payload) error {
	if thumbnail != nil && len(thumbnail.Data) == 0 {
		return &ValidationError{Reason: "thumbnail is empty"}
	}
	for _, list := range lists {
		for _, p := range list {
			if len(p.Data) == 0 {
				return &ValidationError{Reason: fmt.Sprintf("file %q is empty", p.FileName)}
			}
		}
	}
	return nil
}

// difference returns the entries of a missing from b, keeping a's order.
func difference(a, b []string) []string {
	drop := make(map[string]struct{}, len(b))
	for _, s := range b {
		drop[s] = struct{}{}
	}
	var out []string
	for _, s := range a {
		if _, ok := drop[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
