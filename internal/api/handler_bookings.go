package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"parking-reservation-backend/internal/cache"
	"parking-reservation-backend/internal/mw"
	"parking-reservation-backend/internal/store"
)

// SearchLots finds active lots by pincode or address fragment. Results are
// cached per query with a short TTL; brief staleness is tolerated.
func (h *Handler) SearchLots(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a search query ('q' parameter) is required"})
		return
	}

	result, err := h.cache.GetOrCompute(cache.LotSearchKey(query), cache.LotSearchTTL, func() (any, error) {
		return h.store.SearchLots(c.Request.Context(), query)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type bookingRequest struct {
	SpotID        int64  `json:"spot_id" binding:"required"`
	VehicleNumber string `json:"vehicle_number" binding:"required"`
	FuelType      string `json:"fuel_type"`
	Brand         string `json:"brand"`
	Model         string `json:"model"`
	Color         string `json:"color"`
}

// BookSpot books a parking spot for the caller's vehicle.
func (h *Handler) BookSpot(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims := mw.Identity(c)
	reservation, err := h.store.BookSpot(c.Request.Context(), claims.UserID, store.BookingRequest{
		SpotID:        req.SpotID,
		VehicleNumber: req.VehicleNumber,
		FuelType:      req.FuelType,
		Brand:         req.Brand,
		Model:         req.Model,
		Color:         req.Color,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.invalidate.UserActivity(claims.UserID)
	c.JSON(http.StatusCreated, reservation)
}

// GetVehicle returns a vehicle's registered details.
func (h *Handler) GetVehicle(c *gin.Context) {
	vehicle, err := h.store.GetVehicle(c.Request.Context(), c.Param("vehicle_number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

// ListReservations returns the caller's reservation history, newest first.
func (h *Handler) ListReservations(c *gin.Context) {
	claims := mw.Identity(c)
	reservations, err := h.store.ListUserReservations(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservations)
}

type releaseRequest struct {
	LeavingTimestamp string `json:"leaving_timestamp" binding:"required"`
}

// ReleaseReservation completes the caller's reservation and frees the spot.
func (h *Handler) ReleaseReservation(c *gin.Context) {
	reservationID, err := strconv.ParseInt(c.Param("reservation_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation ID"})
		return
	}

	var req releaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	leavingAt, err := time.Parse(time.RFC3339, req.LeavingTimestamp)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid leaving_timestamp, use RFC3339"})
		return
	}

	claims := mw.Identity(c)
	reservation, err := h.store.ReleaseReservation(c.Request.Context(), claims.UserID, reservationID, leavingAt)
	if err != nil {
		respondError(c, err)
		return
	}

	h.invalidate.UserActivity(claims.UserID)
	c.JSON(http.StatusOK, reservation)
}

type paymentRequest struct {
	ReservationID int64   `json:"reservation_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	PaymentMethod string  `json:"payment_method" binding:"required"`
}

// RecordPayment settles a reservation's payment.
func (h *Handler) RecordPayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.store.RecordPayment(c.Request.Context(), req.ReservationID, req.Amount, req.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}

	claims := mw.Identity(c)
	h.invalidate.UserActivity(claims.UserID)
	c.JSON(http.StatusCreated, payment)
}

// UserSummary returns the caller's trailing-90-day booking aggregate,
// cached per user.
func (h *Handler) UserSummary(c *gin.Context) {
	claims := mw.Identity(c)

	result, err := h.cache.GetOrCompute(cache.UserSummaryKey(claims.UserID), cache.UserSummaryTTL, func() (any, error) {
		return h.store.UserSummary(c.Request.Context(), claims.UserID, 90*24*time.Hour)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AdminSummary returns the admin dashboard aggregate, cached globally.
func (h *Handler) AdminSummary(c *gin.Context) {
	result, err := h.cache.GetOrCompute(cache.AdminSummaryKey, cache.AdminSummaryTTL, func() (any, error) {
		return h.store.AdminSummary(c.Request.Context())
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
