package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-showcase-admin/http/controller"
)

type Middlewares struct {
	CORSMiddleware      gin.HandlerFunc
	TracingMiddleware   gin.HandlerFunc
	BodyLimitMiddleware gin.HandlerFunc
}

func NewMiddlewares(ctrl *controller.Controller) (*Middlewares, error) {
	cors := CORSMiddleware(ctrl.Config.EnvConfig)
	tracing := TracingMiddleware(ctrl.Config.EnvConfig.Grafana.ServiceName)
	bodyLimit := BodyLimitMiddleware(ctrl.Config.EnvConfig)

	return &Middlewares{
		CORSMiddleware:      cors,
		TracingMiddleware:   tracing,
		BodyLimitMiddleware: bodyLimit,
	}, nil
}
