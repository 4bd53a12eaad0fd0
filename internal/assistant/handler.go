package assistant

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

type DescriptionRequest struct {
	Title    string `json:"title" example:"Robotics Expo"`
	Category string `json:"category" example:"tech"`
}

type PosterPromptRequest struct {
	Title    string `json:"title" binding:"required" example:"Robotics Expo"`
	Category string `json:"category" example:"tech"`
}

type EmailRequest struct {
	Title    string `json:"title" binding:"required" example:"Robotics Expo"`
	Date     string `json:"date" example:"2026-03-14"`
	Location string `json:"location" example:"Main Auditorium"`
}

// GenerateDescription godoc
// @Summary Draft an event description
// @Tags AI
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body DescriptionRequest true "Event title and category"
// @Success 200 {object} Result
// @Failure 502 {object} Result
// @Router /api/v1/ai/description [post]
func (h *Handler) GenerateDescription(c *gin.Context) {
	var req DescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	respond(c, h.Service.GenerateDescription(c.Request.Context(), req.Title, req.Category))
}

// GeneratePosterPrompt godoc
// @Summary Draft an image prompt for the event poster
// @Tags AI
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body PosterPromptRequest true "Event title and category"
// @Success 200 {object} Result
// @Failure 502 {object} Result
// @Router /api/v1/ai/poster-prompt [post]
func (h *Handler) GeneratePosterPrompt(c *gin.Context) {
	var req PosterPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	respond(c, h.Service.GeneratePosterPrompt(c.Request.Context(), req.Title, req.Category))
}

// GenerateEmail godoc
// @Summary Draft an announcement email
// @Tags AI
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body EmailRequest true "Event details"
// @Success 200 {object} Result
// @Failure 502 {object} Result
// @Router /api/v1/ai/email [post]
func (h *Handler) GenerateEmail(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	respond(c, h.Service.GenerateEmailTemplate(c.Request.Context(), req.Title, req.Date, req.Location))
}

func respond(c *gin.Context, r Result) {
	if r.Failed() {
		c.JSON(http.StatusBadGateway, r)
		return
	}
	c.JSON(http.StatusOK, r)
}
