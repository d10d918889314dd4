package controller

import (
	"net/http"
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-showcase-admin/entity"
)

var thumbnailKey = regexp.MustCompile(`^aiTools/thumbnails/\d+_[0-9a-f]{8}_logo\.png$`)

func aiToolFields() []formField {
	return []formField{
		field("title", "  Figma  "),
		field("category", "Design"),
		field("link", "https://figma.com"),
	}
}

func seedAiTool(env *testEnv, gallery ...string) entity.AiTool {
	thumb := env.store.Put("aiTools/thumbnails/1_aaaaaaaa_old.png", pngHeader, timeZero)
	urls := make([]string, 0, len(gallery))
	for _, name := range gallery {
		urls = append(urls, env.store.Put("aiTools/gallery/1_bbbbbbbb_"+name, pngHeader, timeZero))
	}
	tool := entity.AiTool{
		Document: entity.Document{ID: uuid.New(), Order: 3},
		Title:    "Figma",
		Category: "Design",
		Link:     "https://figma.com",
		Media:    entity.Media{ThumbnailURL: thumb, Gallery: urls},
	}
	env.aiTools.put(tool)
	env.store.ResetCalls()
	return tool
}

func TestCreateAiTool_StoresThumbnailAndRecord(t *testing.T) {
	env := newTestEnv(t)

	rec := env.send(t, http.MethodPost, "/api/v1/admin/aiTools", aiToolFields(), []upload{image("thumbnail", "logo.png")})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created entity.AiTool
	decodeInto(t, decode(t, rec)["aiTool"], &created)
	assert.Equal(t, "Figma", created.Title)
	assert.Equal(t, entity.DefaultOrder, created.Order)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Empty(t, created.Gallery)

	key := strings.TrimPrefix(created.ThumbnailURL, testStorageRoot+"/")
	assert.Regexp(t, thumbnailKey, key)
	data, ok := env.store.Get(created.ThumbnailURL)
	require.True(t, ok)
	assert.Equal(t, append(append([]byte(nil), pngHeader...), "logo.png"...), data)

	stored, ok := env.aiTools.get(created.ID)
	require.True(t, ok)
	assert.Equal(t, created.ThumbnailURL, stored.ThumbnailURL)
}

func TestCreateAiTool_KeepsExplicitOrder(t *testing.T) {
	env := newTestEnv(t)

	fields := append(aiToolFields(), field("order", "0"))
	rec := env.send(t, http.MethodPost, "/api/v1/admin/aiTools", fields, []upload{image("thumbnail", "logo.png")})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created entity.AiTool
	decodeInto(t, decode(t, rec)["aiTool"], &created)
	assert.Equal(t, 0, created.Order)
}

func TestCreateAiTool_RequiresThumbnail(t *testing.T) {
	env := newTestEnv(t)

	rec := env.send(t, http.MethodPost, "/api/v1/admin/aiTools", aiToolFields(), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Thumbnail image is required.", message(t, rec))
	assert.Empty(t, env.store.Calls())
}

func TestCreateAiTool_RequiresFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.send(t, http.MethodPost, "/api/v1/admin/aiTools",
		[]formField{field("title", "Figma")}, []upload{image("thumbnail", "logo.png")})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Title, link and category are required", message(t, rec))
	assert.Empty(t, env.store.Calls())
}

func TestCreateAiTool_RollsBackWhenGalleryUploadFails(t *testing.T) {
	env := newTestEnv(t)
	env.store.FailStore("_broken.png", errBoom)

	rec := env.send(t, http.MethodPost, "/api/v1/admin/aiTools", aiToolFields(), []upload{
		image("thumbnail", "logo.png"),
		image("gallery", "a.png"),
		image("gallery", "broken.png"),
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Zero(t, env.store.Len())
	assert.Empty(t, env.aiTools.docs)
}

func TestCreateAiTool_DiscardsUploadsWhenSaveFails(t *testing.T) {
	env := newTestEnv(t)
	env.aiTools.failWrite = errBoom

	rec := env.send(t, http.MethodPost, "/api/v1/admin/aiTools", aiToolFields(), []upload{
		image("thumbnail", "logo.png"),
		image("gallery", "a.png"),
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Zero(t, env.store.Len())
	assert.Len(t, storeCalls(env.store, "remove"), 2)
}

func TestCreateAiTool_RejectsBlockImages(t *testing.T) {
	env := newTestEnv(t)

	rec := env.send(t, http.MethodPost, "/api/v1/admin/aiTools", aiToolFields(), []upload{
		image("thumbnail", "logo.png"),
		image("blockImages", "b.png"),
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, env.store.Calls())
}

func TestCreateAiTool_UploadLimits(t *testing.T) {
	t.Run("too many files", func(t *testing.T) {
		env := newTestEnv(t)
		env.cfg.EnvConfig.Upload.MaxFiles = 2

		rec := env.send(t, http.MethodPost, "/api/v1/admin/aiTools", aiToolFields(), []upload{
			image("thumbnail", "logo.png"),
			image("gallery", "a.png"),
			image("gallery", "b.png"),
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, env.store.Calls())
	})

	t.Run("file too large", func(t *testing.T) {
		env := newTestEnv(t)
		env.cfg.EnvConfig.Upload.MaxFileSize = 8

		rec := env.send(t, http.MethodPost, "/api/v1/admin/aiTools", aiToolFields(), []upload{
			image("thumbnail", "logo.png"),
		})

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Empty(t, env.store.Calls())
	})
}

func TestUpdateAiTool_SwapsThumbnailAndAppendsGallery(t *testing.T) {
	env := newTestEnv(t)
	tool := seedAiTool(env, "a.png")

	rec := env.send(t, http.MethodPut, "/api/v1/admin/aiTools/"+tool.ID.String(),
		[]formField{field("title", "Figma 2")},
		[]upload{image("thumbnail", "logo.png"), image("gallery", "b.png")})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored, ok := env.aiTools.get(tool.ID)
	require.True(t, ok)
	assert.Equal(t, "Figma 2", stored.Title)
	assert.Equal(t, "Design", stored.Category)
	assert.Equal(t, 3, stored.Order)
	assert.NotEqual(t, tool.ThumbnailURL, stored.ThumbnailURL)
	require.Len(t, stored.Gallery, 2)
	assert.Equal(t, tool.Gallery[0], stored.Gallery[0])

	assert.Equal(t, []string{tool.ThumbnailURL}, storeCalls(env.store, "remove"))
	_, ok = env.store.Get(tool.ThumbnailURL)
	assert.False(t, ok)

	// Every remove comes after the last store.
	calls := env.store.Calls()
	require.NotEmpty(t, calls)
	assert.Equal(t, "remove", calls[len(calls)-1].Op)
}

func TestUpdateAiTool_SaveFailureKeepsOldThumbnail(t *testing.T) {
	env := newTestEnv(t)
	tool := seedAiTool(env, "a.png")
	env.aiTools.failWrite = errBoom

	rec := env.send(t, http.MethodPut, "/api/v1/admin/aiTools/"+tool.ID.String(),
		nil, []upload{image("thumbnail", "logo.png")})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	stored, _ := env.aiTools.get(tool.ID)
	assert.Equal(t, tool.ThumbnailURL, stored.ThumbnailURL)
	_, ok := env.store.Get(stored.ThumbnailURL)
	assert.True(t, ok, "the stored record must still resolve its thumbnail")

	removed := storeCalls(env.store, "remove")
	require.Len(t, removed, 1)
	assert.NotEqual(t, tool.ThumbnailURL, removed[0], "only the new upload is discarded")
	assert.Equal(t, 2, env.store.Len())
}

func TestUpdateAiTool_NoFilesKeepsMedia(t *testing.T) {
	env := newTestEnv(t)
	tool := seedAiTool(env, "a.png")

	rec := env.send(t, http.MethodPut, "/api/v1/admin/aiTools/"+tool.ID.String(),
		[]formField{field("order", "1")}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored, _ := env.aiTools.get(tool.ID)
	assert.Equal(t, 1, stored.Order)
	assert.Equal(t, tool.ThumbnailURL, stored.ThumbnailURL)
	assert.Equal(t, tool.Gallery, stored.Gallery)
	assert.Empty(t, env.store.Calls())
}

func TestUpdateAiTool_UnknownRecord(t *testing.T) {
	env := newTestEnv(t)

	rec := env.send(t, http.MethodPut, "/api/v1/admin/aiTools/"+uuid.NewString(), nil, []upload{image("thumbnail", "logo.png")})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, env.store.Calls())
}

func TestGetAiTool(t *testing.T) {
	env := newTestEnv(t)
	tool := seedAiTool(env)

	rec := env.do(t, http.MethodGet, "/api/v1/admin/aiTools/"+tool.ID.String())
	require.Equal(t, http.StatusOK, rec.Code)
	var got entity.AiTool
	decodeInto(t, decode(t, rec)["aiTool"], &got)
	assert.Equal(t, tool.ID, got.ID)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/v1/admin/aiTools/"+uuid.NewString()).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/v1/admin/aiTools/not-a-uuid").Code)
}

func TestListAiTools(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/admin/aiTools")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"aiTools":[]}`, rec.Body.String())

	seedAiTool(env)
	rec = env.do(t, http.MethodGet, "/api/v1/admin/aiTools")
	var tools []entity.AiTool
	decodeInto(t, decode(t, rec)["aiTools"], &tools)
	assert.Len(t, tools, 1)
}

func TestDeleteAiTool_PurgesEveryObject(t *testing.T) {
	env := newTestEnv(t)
	tool := seedAiTool(env, "a.png", "b.png")

	rec := env.do(t, http.MethodDelete, "/api/v1/admin/aiTools/"+tool.ID.String())
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Zero(t, env.store.Len())
	assert.Len(t, storeCalls(env.store, "remove"), 3)
	_, ok := env.aiTools.get(tool.ID)
	assert.False(t, ok)
}

func TestDeleteAiTool_DeletesRecordDespiteStorageFailure(t *testing.T) {
	env := newTestEnv(t)
	tool := seedAiTool(env, "a.png", "b.png")
	env.store.FailRemove(tool.Gallery[0], errBoom)

	rec := env.do(t, http.MethodDelete, "/api/v1/admin/aiTools/"+tool.ID.String())
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Len(t, storeCalls(env.store, "remove"), 3)
	assert.Equal(t, 1, env.store.Len())
	_, ok := env.aiTools.get(tool.ID)
	assert.False(t, ok)
}

func TestDeleteAiToolImage(t *testing.T) {
	t.Run("removes image", func(t *testing.T) {
		env := newTestEnv(t)
		tool := seedAiTool(env, "a.png", "b.png")

		rec := env.sendJSON(t, http.MethodDelete, "/api/v1/admin/aiTools/"+tool.ID.String()+"/gallery",
			map[string]string{"imageUrl": tool.Gallery[0]})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var gallery []string
		decodeInto(t, decode(t, rec)["gallery"], &gallery)
		assert.Equal(t, []string{tool.Gallery[1]}, gallery)

		stored, _ := env.aiTools.get(tool.ID)
		assert.Equal(t, []string{tool.Gallery[1]}, []string(stored.Gallery))
		assert.Equal(t, []string{tool.Gallery[0]}, storeCalls(env.store, "remove"))
	})

	t.Run("missing url", func(t *testing.T) {
		env := newTestEnv(t)
		tool := seedAiTool(env, "a.png")

		rec := env.sendJSON(t, http.MethodDelete, "/api/v1/admin/aiTools/"+tool.ID.String()+"/gallery", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Image URL is required", message(t, rec))
	})

	t.Run("image not in gallery", func(t *testing.T) {
		env := newTestEnv(t)
		tool := seedAiTool(env, "a.png")

		rec := env.sendJSON(t, http.MethodDelete, "/api/v1/admin/aiTools/"+tool.ID.String()+"/gallery",
			map[string]string{"imageUrl": tool.ThumbnailURL})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, env.store.Calls())
	})

	t.Run("unknown record", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.sendJSON(t, http.MethodDelete, "/api/v1/admin/aiTools/"+uuid.NewString()+"/gallery",
			map[string]string{"imageUrl": testStorageRoot + "/aiTools/gallery/x.png"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("storage failure keeps record", func(t *testing.T) {
		env := newTestEnv(t)
		tool := seedAiTool(env, "a.png")
		env.store.FailRemove(tool.Gallery[0], errBoom)

		rec := env.sendJSON(t, http.MethodDelete, "/api/v1/admin/aiTools/"+tool.ID.String()+"/gallery",
			map[string]string{"imageUrl": tool.Gallery[0]})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		stored, _ := env.aiTools.get(tool.ID)
		assert.Equal(t, tool.Gallery, stored.Gallery)
	})
}

func TestCreateCompetition_RequiresAllFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.send(t, http.MethodPost, "/api/v1/admin/competitions", []formField{
		field("title", "Young Architects"),
		field("category", "Housing"),
		field("prize", "5000 EUR"),
		field("deadline", "March 2025"),
		field("description", "Design a home"),
		field("link", "https://example.com"),
	}, []upload{image("thumbnail", "poster.png")})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, message(t, rec), "side")
}

func TestCreateOffice_ParsesListFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.send(t, http.MethodPost, "/api/v1/admin/offices", []formField{
		field("title", "Studio North"),
		field("location", "Berlin"),
		field("location", "Paris"),
		field("locationMap", "https://maps.example.com/x"),
		field("email", "hello@studio.example"),
		field("instagram", "https://instagram.com/studio"),
		field("linkedin", "https://linkedin.com/studio"),
		field("teamNb", "12"),
		field("category", "Residential"),
		field("status", "Hiring"),
	}, []upload{image("thumbnail", "office.png")})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var office entity.Office
	decodeInto(t, decode(t, rec)["office"], &office)
	assert.Equal(t, []string{"Berlin", "Paris"}, []string(office.Location))
	assert.Equal(t, 12, office.TeamNb)
	assert.True(t, strings.HasPrefix(office.ThumbnailURL, testStorageRoot+"/offices/thumbnails/"))
}

func TestUpdateOffice_RequiresListFields(t *testing.T) {
	env := newTestEnv(t)
	office := entity.Office{
		Document: entity.Document{ID: uuid.New()},
		Title:    "Studio North",
		Location: []string{"Berlin"},
		Category: []string{"Residential"},
		Status:   []string{"Hiring"},
	}
	env.offices.put(office)

	rec := env.send(t, http.MethodPut, "/api/v1/admin/offices/"+office.ID.String(),
		[]formField{field("title", "Studio South"), field("location", "Rome")}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Location, category and status are required", message(t, rec))
	stored, _ := env.offices.get(office.ID)
	assert.Equal(t, "Studio North", stored.Title)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"storage":"ok"`)
	assert.Contains(t, rec.Body.String(), `"cleanup_queue":"disabled"`)
}

func TestServeStoredObject(t *testing.T) {
	env := newTestEnv(t)
	url := env.store.Put("aiTools/thumbnails/1_aaaaaaaa_logo.png", pngHeader, timeZero)

	rec := env.do(t, http.MethodGet, "/storage/showcase/aiTools/thumbnails/1_aaaaaaaa_logo.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pngHeader, rec.Body.Bytes())
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/storage/other/aiTools/x.png").Code)
	assert.Equal(t, testStorageRoot+"/aiTools/thumbnails/1_aaaaaaaa_logo.png", url)
}
