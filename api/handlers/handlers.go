package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"content-autopilot/autopilot"
	"content-autopilot/config"
	"content-autopilot/services"
)

// ListIdeasHandler godoc
// @Summary      List content ideas
// @Description  List a user's backlog ideas, newest first
// @Tags         ideas
// @Param        user_id    path   string  true   "User ID"
// @Param        page       query  int     false  "Page number (1-based)"
// @Param        page_size  query  int     false  "Page size (<=100)"
// @Produce      json
// @Success      200  {array}  dto.ContentIdeaDTO
// @Router       /users/{user_id}/ideas [get]
func ListIdeasHandler(svc *services.PipelineService) gin.HandlerFunc {
	return func(c *gin.Context) {
		in := listInput(c)
		items, err := svc.ListIdeas(c.Request.Context(), in)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// ListPostsHandler godoc
// @Summary      List pipeline posts
// @Description  List a user's generated posts, newest first
// @Tags         posts
// @Param        user_id    path   string  true   "User ID"
// @Param        page       query  int     false  "Page number (1-based)"
// @Param        page_size  query  int     false  "Page size (<=100)"
// @Produce      json
// @Success      200  {array}  dto.PipelinePostDTO
// @Router       /users/{user_id}/posts [get]
func ListPostsHandler(svc *services.PipelineService) gin.HandlerFunc {
	return func(c *gin.Context) {
		in := listInput(c)
		items, err := svc.ListPosts(c.Request.Context(), in)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// ListSlotsHandler godoc
// @Summary      List posting slots
// @Description  List a user's recurring posting slots
// @Tags         slots
// @Param        user_id  path  string  true  "User ID"
// @Produce      json
// @Success      200  {array}  dto.PostingSlotDTO
// @Router       /users/{user_id}/slots [get]
func ListSlotsHandler(svc *services.PipelineService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.ListSlots(c.Request.Context(), c.Param("user_id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

type runBatchRequest struct {
	PostsPerBatch         int  `json:"posts_per_batch"`
	AutoPublish           bool `json:"auto_publish"`
	AutoPublishDelayHours int  `json:"auto_publish_delay_hours"`
}

// RunBatchHandler godoc
// @Summary      Run a nightly batch now
// @Description  Trigger one autopilot batch for the user and return the aggregate result
// @Tags         batch
// @Param        user_id  path  string           true   "User ID"
// @Param        body     body  runBatchRequest  false  "Overrides for the run"
// @Accept       json
// @Produce      json
// @Success      200  {object}  autopilot.BatchResult
// @Router       /users/{user_id}/batch [post]
func RunBatchHandler(orch *autopilot.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req runBatchRequest
		// Body is optional; defaults from config cover everything.
		_ = c.ShouldBindJSON(&req)

		appCfg := config.GetConfig().Autopilot
		cfg := autopilot.BatchConfig{
			UserID:                c.Param("user_id"),
			PostsPerBatch:         req.PostsPerBatch,
			AutoPublish:           req.AutoPublish || appCfg.AutoPublish,
			AutoPublishDelayHours: req.AutoPublishDelayHours,
			LookbackDays:          appCfg.LookbackDays,
			IdeaLoadLimit:         appCfg.IdeaLoadLimit,
		}
		if cfg.PostsPerBatch <= 0 {
			cfg.PostsPerBatch = appCfg.PostsPerBatch
		}
		if cfg.AutoPublishDelayHours <= 0 {
			cfg.AutoPublishDelayHours = appCfg.AutoPublishDelayHours
		}

		result := orch.RunNightlyBatch(c.Request.Context(), cfg)
		c.JSON(http.StatusOK, result)
	}
}

func listInput(c *gin.Context) services.ListInput {
	var in services.ListInput
	in.UserID = c.Param("user_id")
	in.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	in.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return in
}
