package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/onlygrow/identity/internal/account"
	apperrors "github.com/onlygrow/identity/internal/errors"
	"github.com/onlygrow/identity/internal/identity"
	"github.com/onlygrow/identity/version"
)

type handlers struct {
	svc *identity.Service
}

// --- Request DTOs ---

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,password"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type googleLoginRequest struct {
	Token string `json:"token" binding:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type resetRequest struct {
	Email string `json:"email" binding:"required"`
}

type confirmResetRequest struct {
	UID      string `json:"uid" binding:"required"`
	Ticket   string `json:"ticket" binding:"required"`
	Password string `json:"password" binding:"required,password"`
}

// --- Response DTOs ---

type accountResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	AuthProvider string    `json:"auth_provider"`
	IsVerified   bool      `json:"is_verified"`
	Image        string    `json:"image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func toAccountResponse(a *account.Account) accountResponse {
	return accountResponse{
		ID:           a.ID.String(),
		Email:        a.Email,
		Username:     a.Username,
		AuthProvider: a.AuthProvider,
		IsVerified:   a.IsVerified,
		Image:        a.Image,
		CreatedAt:    a.CreatedAt,
	}
}

// --- Handlers ---

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version.Get().String(),
	})
}

func (h *handlers) register(c *gin.Context) {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	a, err := h.svc.Register(c.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAccountResponse(a))
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	pair, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *handlers) googleLogin(c *gin.Context) {
	var req googleLoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	pair, err := h.svc.GoogleLogin(c.Request.Context(), req.Token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *handlers) refresh(c *gin.Context) {
	var req refreshRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	access, err := h.svc.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access})
}

func (h *handlers) logout(c *gin.Context) {
	var req refreshRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	if err := h.svc.Logout(c.Request.Context(), req.Refresh); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) verifyEmail(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		respondError(c, apperrors.MissingField("token"))
		return
	}

	a, err := h.svc.VerifyEmail(c.Request.Context(), tokenString)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAccountResponse(a))
}

func (h *handlers) requestReset(c *gin.Context) {
	var req resetRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	link, err := h.svc.RequestReset(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

func (h *handlers) confirmReset(c *gin.Context) {
	var req confirmResetRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	if err := h.svc.ConfirmReset(c.Request.Context(), req.UID, req.Ticket, req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *handlers) profile(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		respondError(c, apperrors.AuthenticationFailed("authorization header required"))
		return
	}

	a, err := h.svc.Profile(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAccountResponse(a))
}
