package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/staybooking/internal/service/stats"
)

type StatsHandler struct {
	service stats.StatsUseCase
}

type availableUnitsResponse struct {
	AvailableUnits int64 `json:"available_units"`
}

func NewStatsHandler(service stats.StatsUseCase) *StatsHandler {
	return &StatsHandler{service: service}
}

func (h *StatsHandler) Register(router *gin.RouterGroup) {
	router.GET("/available-units", h.availableUnits)
	router.POST("/available-units/refresh", h.refresh)
}

func (h *StatsHandler) availableUnits(c *gin.Context) {
	count, err := h.service.AvailableUnits(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, availableUnitsResponse{AvailableUnits: count})
}

func (h *StatsHandler) refresh(c *gin.Context) {
	count, err := h.service.RefreshAvailableUnits(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, availableUnitsResponse{AvailableUnits: count})
}
