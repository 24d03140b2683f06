package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"acecoach/internal/service"
)

type SessionHandler struct {
	ledger *service.Ledger
}

type notesRequest struct {
	Notes string `json:"notes"`
}

func NewSessionHandler(ledger *service.Ledger) *SessionHandler {
	return &SessionHandler{ledger: ledger}
}

func (h *SessionHandler) List(c *gin.Context) {
	sessions, apiErr := h.ledger.List(c.Request.Context())
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *SessionHandler) Create(c *gin.Context) {
	var input service.CreateSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeInvalidJSON(c)
		return
	}

	session, apiErr := h.ledger.Create(c.Request.Context(), &input)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

func (h *SessionHandler) Delete(c *gin.Context) {
	if apiErr := h.ledger.Delete(c.Request.Context(), c.Param("id")); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) UpdateNotes(c *gin.Context) {
	var req notesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	if apiErr := h.ledger.UpdateNotes(c.Request.Context(), c.Param("id"), req.Notes); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) Stats(c *gin.Context) {
	stats, apiErr := h.ledger.Stats(c.Request.Context())
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (h *SessionHandler) LabPrompt(c *gin.Context) {
	view, apiErr := h.ledger.LabPrompt(c.Request.Context(), c.Param("id"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, view)
}
