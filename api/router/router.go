package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/bson"

	"content-autopilot/api/handlers"
	"content-autopilot/autopilot"
	"content-autopilot/db"
	_ "content-autopilot/docs"
	"content-autopilot/knowledge"
	"content-autopilot/polisher"
	"content-autopilot/repositories"
	"content-autopilot/services"
	"content-autopilot/writer"
)

func New() *gin.Engine {
	r := gin.Default()

	// Health check
	r.GET("/health", func(c *gin.Context) {
		// Try ping MongoDB
		if err := db.Database().RunCommand(context.Background(), bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "mongo": "down", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// v1 routes
	api := r.Group("/api/v1")
	{
		ideaRepo := repositories.NewContentIdeaRepository(db.Database())
		postRepo := repositories.NewPipelinePostRepository(db.Database())
		slotRepo := repositories.NewPostingSlotRepository(db.Database())
		chunkRepo := repositories.NewKnowledgeChunkRepository(db.Database())
		aiLogRepo := repositories.NewAILogRepository(db.Database())

		svc := services.NewPipelineService(ideaRepo, postRepo, slotRepo)
		orch := autopilot.NewOrchestrator(
			ideaRepo,
			postRepo,
			slotRepo,
			knowledge.NewSearcher(chunkRepo),
			writer.New(aiLogRepo),
			polisher.New(aiLogRepo),
		)

		api.GET("/users/:user_id/ideas", handlers.ListIdeasHandler(svc))
		api.GET("/users/:user_id/posts", handlers.ListPostsHandler(svc))
		api.GET("/users/:user_id/slots", handlers.ListSlotsHandler(svc))
		api.POST("/users/:user_id/batch", handlers.RunBatchHandler(orch))
	}

	return r
}
