package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-document-service/http/controller"
	middlewares "github.com/tnqbao/gau-document-service/http/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(middles.CORSMiddleware)

	apiRoutes := r.Group("/api/v1")
	{
		authRoutes := apiRoutes.Group("/auth")
		{
			authRoutes.POST("/register", ctrl.Register)
			authRoutes.POST("/login", ctrl.Login)
		}

		protected := apiRoutes.Group("/")
		protected.Use(middles.AuthMiddleware)

		userRoutes := protected.Group("/users")
		{
			userRoutes.GET("/", ctrl.ListUsers)
			userRoutes.GET("/:id", ctrl.GetUserByID)
			userRoutes.PUT("/:id", ctrl.UpdateUser)
			userRoutes.DELETE("/:id", ctrl.DeleteUser)
		}

		documentRoutes := protected.Group("/documents")
		{
			documentRoutes.POST("/", ctrl.UploadDocument)
			documentRoutes.GET("/", ctrl.ListDocuments)
			documentRoutes.GET("/:id", ctrl.GetDocumentByID)
			documentRoutes.PATCH("/:id", ctrl.UpdateDocument)
			documentRoutes.DELETE("/:id", ctrl.DeleteDocument)
			documentRoutes.GET("/:id/download", ctrl.DownloadDocument)
		}

		ingestionRoutes := protected.Group("/ingestion")
		{
			ingestionRoutes.POST("/", ctrl.CreateIngestionJob)
			ingestionRoutes.GET("/", ctrl.ListIngestionJobs)
			ingestionRoutes.GET("/:id", ctrl.GetIngestionJobByID)
			ingestionRoutes.PATCH("/:id", ctrl.UpdateIngestionJob)
			ingestionRoutes.DELETE("/:id/cancel", ctrl.CancelIngestionJob)
			ingestionRoutes.GET("/document/:document_id", ctrl.ListIngestionJobsByDocument)
		}
	}
	return r
}
