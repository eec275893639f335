package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"parking-reservation-backend/internal/jobs"
	"parking-reservation-backend/internal/model"
	"parking-reservation-backend/internal/mw"
)

type registerRequest struct {
	FullName    string `json:"full_name" binding:"required"`
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Address     string `json:"address" binding:"required"`
	Pincode     string `json:"pincode" binding:"required"`
}

type userResponse struct {
	FullName    string `json:"full_name"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	Pincode     string `json:"pincode"`
	Role        string `json:"role"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		FullName:    u.FullName,
		Username:    u.Username,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Address:     u.Address,
		Pincode:     u.Pincode,
		Role:        u.Role,
	}
}

// Register creates a new user account and enqueues the welcome email. The
// email is fire-and-forget: its failure never rolls back the registration.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := model.User{
		FullName:    req.FullName,
		Username:    req.Username,
		Email:       req.Email,
		Role:        model.RoleUser,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Pincode:     req.Pincode,
	}
	if err := user.SetPassword(req.Password); err != nil {
		respondError(c, err)
		return
	}

	if err := h.store.CreateUser(c.Request.Context(), &user); err != nil {
		respondError(c, err)
		return
	}

	h.queue.Enqueue(&jobs.WelcomeEmail{Store: h.store, Mail: h.mail, Email: user.Email})

	c.JSON(http.StatusCreated, toUserResponse(&user))
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a session token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil || !user.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	token, err := h.auth.Issue(user.ID, user.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"user":         toUserResponse(user),
	})
}

// Logout revokes the caller's current credential.
func (h *Handler) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}

	if err := h.auth.Revoke(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or revoked credential"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "successfully logged out"})
}

// Me returns the profile of the authenticated caller.
func (h *Handler) Me(c *gin.Context) {
	claims := mw.Identity(c)
	user, err := h.store.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}
