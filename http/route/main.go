package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-showcase-admin/http/controller"
	middlewares "github.com/tnqbao/gau-showcase-admin/http/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(middles.CORSMiddleware)
	r.Use(middles.TracingMiddleware)

	r.GET("/healthz", ctrl.Health)
	r.GET("/storage/*filepath", ctrl.ServeStoredObject)

	apiRoutes := r.Group("/api/v1/admin")
	{
		apiRoutes.Use(middles.BodyLimitMiddleware)

		aiToolRoutes := apiRoutes.Group("/aiTools")
		{
			aiToolRoutes.POST("", ctrl.CreateAiTool)
			aiToolRoutes.GET("", ctrl.ListAiTools)
			aiToolRoutes.GET("/:id", ctrl.GetAiToolByID)
			aiToolRoutes.PUT("/:id", ctrl.UpdateAiTool)
			aiToolRoutes.DELETE("/:id", ctrl.DeleteAiTool)
			aiToolRoutes.DELETE("/:id/gallery", ctrl.DeleteAiToolImage)
		}

		competitionRoutes := apiRoutes.Group("/competitions")
		{
			competitionRoutes.POST("", ctrl.CreateCompetition)
			competitionRoutes.GET("", ctrl.ListCompetitions)
			competitionRoutes.GET("/:id", ctrl.GetCompetitionByID)
			competitionRoutes.PUT("/:id", ctrl.UpdateCompetition)
			competitionRoutes.DELETE("/:id", ctrl.DeleteCompetition)
			competitionRoutes.DELETE("/:id/gallery", ctrl.DeleteCompetitionImage)
		}

		officeRoutes := apiRoutes.Group("/offices")
		{
			officeRoutes.POST("", ctrl.CreateOffice)
			officeRoutes.GET("", ctrl.ListOffices)
			officeRoutes.GET("/:id", ctrl.GetOfficeByID)
			officeRoutes.PUT("/:id", ctrl.UpdateOffice)
			officeRoutes.DELETE("/:id", ctrl.DeleteOffice)
			officeRoutes.DELETE("/:id/gallery", ctrl.DeleteOfficeImage)
		}

		projectRoutes := apiRoutes.Group("/projects")
		{
			projectRoutes.POST("", ctrl.CreateProject)
			projectRoutes.GET("", ctrl.ListProjects)
			projectRoutes.GET("/:id", ctrl.GetProjectByID)
			projectRoutes.PUT("/:id", ctrl.UpdateProject)
			projectRoutes.DELETE("/:id", ctrl.DeleteProject)
			projectRoutes.DELETE("/:id/gallery", ctrl.DeleteProjectImage)
		}
	}
	return r
}
