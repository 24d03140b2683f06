package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"acecoach/internal/service"
)

type LiveHandler struct {
	tracker *service.Tracker
}

type startRequest struct {
	Stakes   string `json:"stakes"`
	Location string `json:"location"`
}

type profitRequest struct {
	Profit *float64 `json:"profit"`
}

func NewLiveHandler(tracker *service.Tracker) *LiveHandler {
	return &LiveHandler{tracker: tracker}
}

func (h *LiveHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"live": h.tracker.State(c.Request.Context())})
}

func (h *LiveHandler) Start(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	state, apiErr := h.tracker.Start(c.Request.Context(), req.Stakes, req.Location)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"live": state})
}

func (h *LiveHandler) Pause(c *gin.Context) {
	state, apiErr := h.tracker.Pause(c.Request.Context())
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"live": state})
}

func (h *LiveHandler) Resume(c *gin.Context) {
	state, apiErr := h.tracker.Resume(c.Request.Context())
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"live": state})
}

func (h *LiveHandler) UpdateProfit(c *gin.Context) {
	var req profitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}
	if req.Profit == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "invalid_argument", "message": "profit is required"},
		})
		return
	}

	state, apiErr := h.tracker.UpdateProfit(c.Request.Context(), *req.Profit)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"live": state})
}

func (h *LiveHandler) Stop(c *gin.Context) {
	result, apiErr := h.tracker.Stop(c.Request.Context())
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, result)
}
