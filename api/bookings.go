package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/staybooking/internal/domain"
	"github.com/zvrva/staybooking/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	UnitID    int64  `json:"unit_id"`
	UserID    int64  `json:"user_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type bookingResponse struct {
	ID             int64   `json:"id"`
	UnitID         int64   `json:"unit_id"`
	UserID         int64   `json:"user_id"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	Status         string  `json:"status"`
	TotalCostCents int64   `json:"total_cost_cents"`
	ExpiresAt      *string `json:"expires_at,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

func toBookingResponse(b *domain.Booking, totalCostCents int64) bookingResponse {
	resp := bookingResponse{
		ID:             b.ID,
		UnitID:         b.UnitID,
		UserID:         b.UserID,
		StartDate:      b.StartDate.Format(dateLayout),
		EndDate:        b.EndDate.Format(dateLayout),
		Status:         string(b.Status),
		TotalCostCents: totalCostCents,
		CreatedAt:      b.CreatedAt.Format(time.RFC3339),
	}
	if b.ExpiresAt != nil {
		v := b.ExpiresAt.Format(time.RFC3339)
		resp.ExpiresAt = &v
	}
	return resp
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup, usersGroup *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("/:id", h.get)
	router.DELETE("/:id", h.cancel)
	usersGroup.GET("/:id/bookings", h.listForUser)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date, expected YYYY-MM-DD"})
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date, expected YYYY-MM-DD"})
		return
	}

	created, payment, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		UnitID:    req.UnitID,
		UserID:    req.UserID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created, payment.AmountCents))
}

func (h *BookingHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	found, payment, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(found, payment.AmountCents))
}

func (h *BookingHandler) listForUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	summaries, err := h.service.ListUserBookings(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]bookingResponse, 0, len(summaries))
	for i := range summaries {
		resp = append(resp, toBookingResponse(&summaries[i].Booking, summaries[i].TotalCostCents))
	}
	c.JSON(http.StatusOK, resp)
}

// cancel requires the requesting user's id; only the booking owner may
// cancel.
func (h *BookingHandler) cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id query parameter is required"})
		return
	}

	if err := h.service.CancelBooking(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
