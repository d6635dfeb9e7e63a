package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/staybooking/internal/domain"
	"github.com/zvrva/staybooking/internal/pricing"
	"github.com/zvrva/staybooking/internal/service/units"
)

type UnitHandler struct {
	service units.UnitUseCase
}

type createUnitRequest struct {
	NumberOfRooms     int    `json:"number_of_rooms"`
	AccommodationType string `json:"accommodation_type"`
	Floor             int    `json:"floor"`
	BaseCostCents     int64  `json:"base_cost_cents"`
	Description       string `json:"description"`
	OwnerID           int64  `json:"owner_id"`
}

type unitResponse struct {
	ID                int64  `json:"id"`
	NumberOfRooms     int    `json:"number_of_rooms"`
	AccommodationType string `json:"accommodation_type"`
	Floor             int    `json:"floor"`
	TotalCostCents    int64  `json:"total_cost_cents"`
	Description       string `json:"description"`
	OwnerID           int64  `json:"owner_id"`
	CreatedAt         string `json:"created_at"`
}

// Responses never expose the stored base cost, only the marked-up price.
func toUnitResponse(u *domain.Unit) unitResponse {
	return unitResponse{
		ID:                u.ID,
		NumberOfRooms:     u.NumberOfRooms,
		AccommodationType: string(u.AccommodationType),
		Floor:             u.Floor,
		TotalCostCents:    pricing.NightlyCostCents(u.BaseCostCents),
		Description:       u.Description,
		OwnerID:           u.OwnerID,
		CreatedAt:         u.CreatedAt.Format(time.RFC3339),
	}
}

func NewUnitHandler(service units.UnitUseCase) *UnitHandler {
	return &UnitHandler{service: service}
}

func (h *UnitHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.search)
	router.GET("/:id", h.get)
}

func (h *UnitHandler) create(c *gin.Context) {
	var req createUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	unit, err := h.service.CreateUnit(c.Request.Context(), units.CreateUnitInput{
		NumberOfRooms:     req.NumberOfRooms,
		AccommodationType: domain.AccommodationType(req.AccommodationType),
		Floor:             req.Floor,
		BaseCostCents:     req.BaseCostCents,
		Description:       req.Description,
		OwnerID:           req.OwnerID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUnitResponse(unit))
}

func (h *UnitHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	unit, err := h.service.GetUnit(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUnitResponse(unit))
}

func (h *UnitHandler) search(c *gin.Context) {
	input, err := parseSearchInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	found, err := h.service.SearchUnits(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]unitResponse, 0, len(found))
	for i := range found {
		resp = append(resp, toUnitResponse(&found[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func parseSearchInput(c *gin.Context) (units.SearchUnitsInput, error) {
	var input units.SearchUnitsInput

	if v := c.Query("rooms"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return input, errInvalidQuery("rooms")
		}
		input.NumberOfRooms = &n
	}
	if v := c.Query("type"); v != "" {
		t := domain.AccommodationType(v)
		input.AccommodationType = &t
	}
	if v := c.Query("floor"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return input, errInvalidQuery("floor")
		}
		input.Floor = &n
	}
	if v := c.Query("min_cost_cents"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return input, errInvalidQuery("min_cost_cents")
		}
		input.MinCostCents = &n
	}
	if v := c.Query("max_cost_cents"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return input, errInvalidQuery("max_cost_cents")
		}
		input.MaxCostCents = &n
	}
	if v := c.Query("start_date"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			return input, errInvalidQuery("start_date")
		}
		input.StartDate = &d
	}
	if v := c.Query("end_date"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			return input, errInvalidQuery("end_date")
		}
		input.EndDate = &d
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return input, errInvalidQuery("limit")
		}
		input.Limit = n
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return input, errInvalidQuery("offset")
		}
		input.Offset = n
	}

	return input, nil
}
