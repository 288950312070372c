package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-booking/internal/logger"
	"github.com/iliyamo/rental-booking/internal/utils"
)

// AuthHandler issues owner access tokens.
type AuthHandler struct {
	Secret       string
	PasswordHash string
	TTLMin       int
	Now          func() time.Time
}

// NewAuthHandler returns an AuthHandler. It panics without a secret or
// password hash.
func NewAuthHandler(secret, passwordHash string, ttlMin int) *AuthHandler {
	if secret == "" || passwordHash == "" {
		panic("handler.NewAuthHandler: secret and password hash are required")
	}
	return &AuthHandler{Secret: secret, PasswordHash: passwordHash, TTLMin: ttlMin, Now: time.Now}
}

type loginReq struct {
	Password string `json:"password"`
}

// Login exchanges the owner password for an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password required"})
	}
	if !utils.VerifyPassword(h.PasswordHash, req.Password) {
		logger.Log.WithField("ip", c.RealIP()).Warn("failed owner login")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	tok, err := utils.NewAccessToken(h.Secret, "owner", utils.RoleOwner, h.TTLMin, h.Now())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"access": tok, "role": utils.RoleOwner})
}
