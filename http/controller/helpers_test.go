package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-showcase-admin/attachment"
	"github.com/tnqbao/gau-showcase-admin/config"
	"github.com/tnqbao/gau-showcase-admin/entity"
	"github.com/tnqbao/gau-showcase-admin/infra"
	"github.com/tnqbao/gau-showcase-admin/repository"
)

const testStorageRoot = "http://cdn.test/showcase"

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// memRepo is an in-memory DocumentStore.
type memRepo[T any, P record[T]] struct {
	mu        sync.Mutex
	docs      map[uuid.UUID]T
	failWrite error
}

func newMemRepo[T any, P record[T]]() *memRepo[T, P] {
	return &memRepo[T, P]{docs: make(map[uuid.UUID]T)}
}

func (r *memRepo[T, P]) Create(_ context.Context, doc *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrite != nil {
		return r.failWrite
	}
	r.docs[P(doc).GetID()] = *doc
	return nil
}

func (r *memRepo[T, P]) FindByID(_ context.Context, id uuid.UUID) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &doc, nil
}

func (r *memRepo[T, P]) List(context.Context) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, 0, len(r.docs))
	for _, d := range r.docs {
		out = append(out, d)
	}
	return out, nil
}

func (r *memRepo[T, P]) Update(_ context.Context, id uuid.UUID, doc *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrite != nil {
		return r.failWrite
	}
	if _, ok := r.docs[id]; !ok {
		return repository.ErrNotFound
	}
	r.docs[id] = *doc
	return nil
}

func (r *memRepo[T, P]) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

func (r *memRepo[T, P]) get(id uuid.UUID) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	return doc, ok
}

func (r *memRepo[T, P]) put(doc T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[P(&doc).GetID()] = doc
}

type testEnv struct {
	cfg          *config.Config
	store        *attachment.MemoryStore
	aiTools      *memRepo[entity.AiTool, *entity.AiTool]
	competitions *memRepo[entity.Competition, *entity.Competition]
	offices      *memRepo[entity.Office, *entity.Office]
	projects     *memRepo[entity.Project, *entity.Project]
	ctrl         *Controller
	router       *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		cfg:          config.NewConfig(),
		store:        attachment.NewMemoryStore(testStorageRoot),
		aiTools:      newMemRepo[entity.AiTool](),
		competitions: newMemRepo[entity.Competition](),
		offices:      newMemRepo[entity.Office](),
		projects:     newMemRepo[entity.Project](),
	}
	env.cfg.EnvConfig.Storage.Bucket = "showcase"

	deps := &infra.Infra{
		Logger:  infra.NewLoggerClientWithWriter(io.Discard),
		Storage: env.store,
	}
	repo := &repository.Repository{
		AiToolRepo:      env.aiTools,
		CompetitionRepo: env.competitions,
		OfficeRepo:      env.offices,
		ProjectRepo:     env.projects,
	}
	env.ctrl = NewController(env.cfg, deps, repo)

	r := gin.New()
	r.GET("/healthz", env.ctrl.Health)
	r.GET("/storage/*filepath", env.ctrl.ServeStoredObject)
	api := r.Group("/api/v1/admin")
	api.POST("/aiTools", env.ctrl.CreateAiTool)
	api.GET("/aiTools", env.ctrl.ListAiTools)
	api.GET("/aiTools/:id", env.ctrl.GetAiToolByID)
	api.PUT("/aiTools/:id", env.ctrl.UpdateAiTool)
	api.DELETE("/aiTools/:id", env.ctrl.DeleteAiTool)
	api.DELETE("/aiTools/:id/gallery", env.ctrl.DeleteAiToolImage)
	api.POST("/competitions", env.ctrl.CreateCompetition)
	api.POST("/offices", env.ctrl.CreateOffice)
	api.PUT("/offices/:id", env.ctrl.UpdateOffice)
	api.POST("/projects", env.ctrl.CreateProject)
	api.PUT("/projects/:id", env.ctrl.UpdateProject)
	api.DELETE("/projects/:id", env.ctrl.DeleteProject)
	env.router = r

	return env
}

type upload struct {
	field string
	name  string
	data  []byte
}

func image(field, name string) upload {
	return upload{field: field, name: name, data: append(append([]byte(nil), pngHeader...), name...)}
}

type formField struct {
	name  string
	value string
}

func field(name, value string) formField {
	return formField{name: name, value: value}
}

func multipartBody(t *testing.T, fields []formField, files []upload) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, f := range fields {
		require.NoError(t, w.WriteField(f.name, f.value))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func (env *testEnv) send(t *testing.T, method, path string, fields []formField, files []upload) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, files)
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) sendJSON(t *testing.T, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func decodeInto(t *testing.T, raw json.RawMessage, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, dest))
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var msg string
	decodeInto(t, decode(t, rec)["message"], &msg)
	return msg
}

func storeCalls(store *attachment.MemoryStore, op string) []string {
	var out []string
	for _, c := range store.Calls() {
		if c.Op == op {
			out = append(out, c.Target)
		}
	}
	return out
}

var errBoom = errors.New("boom")

var timeZero time.Time
