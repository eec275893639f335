package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"parking-reservation-backend/internal/store"
)

type lotCreateRequest struct {
	PrimeLocationName    string  `json:"prime_location_name" binding:"required"`
	City                 string  `json:"city" binding:"required"`
	State                string  `json:"state" binding:"required"`
	District             string  `json:"district" binding:"required"`
	PinCode              string  `json:"pin_code" binding:"required"`
	PricePerHour         float64 `json:"price_per_hour" binding:"required"`
	FloorLevel           string  `json:"floor_level"`
	MaximumNumberOfSpots int     `json:"maximum_number_of_spots" binding:"required"`
	OpenTime             string  `json:"open_time"`
	CloseTime            string  `json:"close_time"`
}

type lotUpdateRequest struct {
	PricePerHour         float64 `json:"price_per_hour" binding:"required"`
	MaximumNumberOfSpots int     `json:"maximum_number_of_spots" binding:"required"`
	OpenTime             string  `json:"open_time"`
	CloseTime            string  `json:"close_time"`
}

func lotIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("lot_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid lot ID"})
		return 0, false
	}
	return id, true
}

// ListLots returns every lot with its spots.
func (h *Handler) ListLots(c *gin.Context) {
	lots, err := h.store.ListLots(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lots)
}

// GetLot returns a single lot with its spots.
func (h *Handler) GetLot(c *gin.Context) {
	id, ok := lotIDParam(c)
	if !ok {
		return
	}
	lot, err := h.store.GetLot(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lot)
}

// CreateLot creates a lot with its full spot pool.
func (h *Handler) CreateLot(c *gin.Context) {
	var req lotCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lot, err := h.store.CreateLot(c.Request.Context(), store.LotSpec{
		PrimeLocationName:    req.PrimeLocationName,
		City:                 req.City,
		State:                req.State,
		District:             req.District,
		PinCode:              req.PinCode,
		PricePerHour:         req.PricePerHour,
		FloorLevel:           req.FloorLevel,
		MaximumNumberOfSpots: req.MaximumNumberOfSpots,
		OpenTime:             req.OpenTime,
		CloseTime:            req.CloseTime,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.invalidate.LotsMutated()
	c.JSON(http.StatusCreated, lot)
}

// UpdateLot resizes and updates a lot.
func (h *Handler) UpdateLot(c *gin.Context) {
	id, ok := lotIDParam(c)
	if !ok {
		return
	}
	var req lotUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lot, err := h.store.UpdateLot(c.Request.Context(), id, store.LotUpdate{
		PricePerHour:         req.PricePerHour,
		MaximumNumberOfSpots: req.MaximumNumberOfSpots,
		OpenTime:             req.OpenTime,
		CloseTime:            req.CloseTime,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.invalidate.LotsMutated()
	c.JSON(http.StatusOK, lot)
}

// DeleteLot removes a lot and all of its spots.
func (h *Handler) DeleteLot(c *gin.Context) {
	id, ok := lotIDParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteLot(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	h.invalidate.LotsMutated()
	c.Status(http.StatusNoContent)
}

// DeleteSpot removes a single spot and shrinks the lot's capacity.
func (h *Handler) DeleteSpot(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("spot_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid spot ID"})
		return
	}
	if err := h.store.DeleteSpot(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	h.invalidate.LotsMutated()
	c.Status(http.StatusNoContent)
}

// SpotReservation returns the active reservation occupying a spot.
func (h *Handler) SpotReservation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("spot_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid spot ID"})
		return
	}
	reservation, err := h.store.ActiveReservationForSpot(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// AdminSearch looks up lots, users or vehicles by a typed query parameter.
func (h *Handler) AdminSearch(c *gin.Context) {
	searchType := c.Param("search_type")
	if searchType != "lot" && searchType != "user" && searchType != "vehicle" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid search type specified"})
		return
	}

	params := c.Request.URL.Query()
	var key, value string
	for k, vs := range params {
		if len(vs) > 0 {
			key, value = k, vs[0]
			break
		}
	}

	results, err := h.store.AdminSearch(c.Request.Context(), searchType, key, value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// ListUsers returns all non-admin accounts.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.store.ListNonAdminUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]userResponse, 0, len(users))
	for i := range users {
		responses = append(responses, toUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, responses)
}
