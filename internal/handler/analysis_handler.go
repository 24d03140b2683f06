package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"acecoach/internal/model"
	"acecoach/internal/service"
)

type AnalysisHandler struct {
	analyzer *service.Analyzer
}

type analyzeRequest struct {
	Prompt  string              `json:"prompt"`
	Mode    string              `json:"mode"`
	PotSize float64             `json:"potSize"`
	Media   *model.MediaPayload `json:"media"`
}

type sizingRequest struct {
	PotSize  *float64 `json:"potSize"`
	Fraction *float64 `json:"fraction"`
}

func NewAnalysisHandler(analyzer *service.Analyzer) *AnalysisHandler {
	return &AnalysisHandler{analyzer: analyzer}
}

func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	result, apiErr := h.analyzer.Analyze(c.Request.Context(), &service.AnalyzeInput{
		Prompt:  req.Prompt,
		Media:   req.Media,
		Mode:    req.Mode,
		PotSize: req.PotSize,
	})
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (h *AnalysisHandler) History(c *gin.Context) {
	limit := 50
	if rawLimit := c.Query("limit"); rawLimit != "" {
		if parsed, err := strconv.Atoi(rawLimit); err == nil {
			limit = parsed
		}
	}

	items, apiErr := h.analyzer.History(c.Request.Context(), limit)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": items})
}

func (h *AnalysisHandler) Sizing(c *gin.Context) {
	var req sizingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}
	if req.PotSize == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "invalid_argument", "message": "potSize is required"},
		})
		return
	}

	reference, apiErr := service.ReferenceSizes(*req.PotSize)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}

	body := gin.H{"referenceSizes": reference}
	if req.Fraction != nil {
		bet, apiErr := service.SizeFor(*req.PotSize, *req.Fraction)
		if apiErr != nil {
			writeError(c, apiErr)
			return
		}
		body["betSize"] = bet
	}
	c.JSON(http.StatusOK, body)
}
