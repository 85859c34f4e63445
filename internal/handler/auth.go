package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/gold-cinema/internal/model"
	"github.com/iliyamo/gold-cinema/internal/service"
)

// Accounts is the subset of service.AuthService the HTTP layer uses.
type Accounts interface {
	Register(ctx context.Context, email, username, password string) (string, error)
	Login(ctx context.Context, identity, password string) (service.LoginResult, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

// AuthHandler serves registration and login.
type AuthHandler struct {
	accounts Accounts
	logger   zerolog.Logger
}

func NewAuthHandler(accounts Accounts, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, logger: logger}
}

type registerReq struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginReq struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

type userPart struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type loginResp struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      userPart  `json:"user"`
}

// Register creates a regular user account.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bindStrict(c, &req); err != nil {
		return writeError(c, h.logger, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	id, err := h.accounts.Register(ctx, req.Email, req.Username, req.Password)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Registered", "id": id})
}

// Login exchanges credentials for an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bindStrict(c, &req); err != nil {
		return writeError(c, h.logger, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	res, err := h.accounts.Login(ctx, req.UsernameOrEmail, req.Password)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, loginResp{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      userPart{ID: res.User.ID, Username: res.User.Username, Role: res.User.Role},
	})
}
