package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/staybooking/internal/domain"
	"github.com/zvrva/staybooking/internal/service/payments"
)

type PaymentHandler struct {
	service payments.PaymentUseCase
}

type processPaymentRequest struct {
	BookingID int64 `json:"booking_id"`
}

type paymentResponse struct {
	ID          int64  `json:"id"`
	BookingID   int64  `json:"booking_id"`
	AmountCents int64  `json:"amount_cents"`
	Status      string `json:"status"`
	TxRef       string `json:"tx_ref,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func toPaymentResponse(p *domain.Payment) paymentResponse {
	return paymentResponse{
		ID:          p.ID,
		BookingID:   p.BookingID,
		AmountCents: p.AmountCents,
		Status:      string(p.Status),
		TxRef:       p.TxRef,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

func NewPaymentHandler(service payments.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) Register(router *gin.RouterGroup) {
	router.POST("/process", h.process)
	router.GET("/booking/:id", h.getByBooking)
}

func (h *PaymentHandler) process(c *gin.Context) {
	var req processPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.service.ProcessPayment(c.Request.Context(), req.BookingID)
	if err != nil {
		// A closed payment window (expired, cancelled or already paid)
		// surfaces as 408 so clients can offer a rebook.
		if errors.Is(err, domain.ErrInvalidState) {
			c.JSON(http.StatusRequestTimeout, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPaymentResponse(payment))
}

func (h *PaymentHandler) getByBooking(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	payment, err := h.service.GetByBookingID(c.Request.Context(), bookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPaymentResponse(payment))
}
