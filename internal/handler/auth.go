package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wisefood/internal/logger"
	"wisefood/internal/middleware"
	"wisefood/internal/model"
	"wisefood/internal/service"
)

type AuthHandler struct {
	auth     *service.AuthService
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthHandler(auth *service.AuthService, secret []byte, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, secret: secret, tokenTTL: tokenTTL}
}

// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}

	account, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		logger.Warn("login failed", "username", req.Username)
		fail(c, err)
		return
	}

	token, err := middleware.NewToken(h.secret, account.ID, account.Name, []string{account.Role}, h.tokenTTL)
	if err != nil {
		fail(c, err)
		return
	}

	logger.Info("login ok", "account_id", account.ID, "name", account.Name)
	c.JSON(http.StatusOK, model.LoginResponse{Token: token, Account: *account})
}
