package controller

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-showcase-admin/attachment"
	"github.com/tnqbao/gau-showcase-admin/utils"
)

const healthTimeout = 3 * time.Second

// Health reports whether the database, cache and object store answer.
func (ctrl *Controller) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	checks := map[string]func(context.Context) error{
		"storage": ctrl.Infra.Storage.Ping,
	}
	if ctrl.Infra.Postgres != nil {
		checks["postgres"] = ctrl.Infra.Postgres.Ping
	}
	if ctrl.Infra.Redis != nil {
		checks["redis"] = ctrl.Infra.Redis.Ping
	}

	status := gin.H{}
	healthy := true
	for name, check := range checks {
		if err := check(ctx); err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Health] %s is unreachable", name)
			status[name] = err.Error()
			healthy = false
			continue
		}
		status[name] = "ok"
	}
	status["cleanup_queue"] = "disabled"
	if ctrl.Infra.Produce != nil {
		status["cleanup_queue"] = "ok"
	}

	if !healthy {
		utils.JSON503(c, gin.H{"status": "unhealthy", "checks": status})
		return
	}
	utils.JSON200(c, gin.H{"status": "ok", "checks": status})
}

// ServeStoredObject serves objects of the in-memory storage driver, whose
// public URLs point back at this service.
func (ctrl *Controller) ServeStoredObject(c *gin.Context) {
	store, ok := ctrl.Infra.Storage.(*attachment.MemoryStore)
	if !ok {
		utils.JSON404(c, "Not found")
		return
	}

	bucket := ctrl.Config.EnvConfig.Storage.Bucket
	key, ok := strings.CutPrefix(c.Param("filepath"), "/"+bucket+"/")
	if !ok || key == "" {
		utils.JSON404(c, "Not found")
		return
	}

	url := store.URLFor(key)
	data, found := store.Get(url)
	if !found {
		utils.JSON404(c, "Not found")
		return
	}
	contentType := store.ContentType(url)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, data)
}
