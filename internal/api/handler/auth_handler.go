package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/account-service/internal/api/metrics"
	"github.com/99minutos/account-service/internal/core/domain"
	"github.com/99minutos/account-service/internal/core/ports"
)

const (
	msgRegistered         = "User registered successfully!"
	msgUsernameRegistered = "Username already registered!"
	msgEmailRegistered    = "Email already registered!"
	msgLoginSucceeded     = "Login successful"
	msgInvalidCredentials = "Invalid username or password"
)

type AuthHandler struct {
	accounts ports.AccountService
}

func NewAuthHandler(accounts ports.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  registerResponse
// @Failure      400   {object}  messageResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	user, err := h.accounts.Register(c.Request().Context(), ports.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateUsername):
			metrics.RegistrationsTotal.WithLabelValues(metrics.ResultDuplicate).Inc()
			return c.JSON(http.StatusBadRequest, messageResponse{Message: msgUsernameRegistered})
		case errors.Is(err, domain.ErrDuplicateEmail):
			metrics.RegistrationsTotal.WithLabelValues(metrics.ResultDuplicate).Inc()
			return c.JSON(http.StatusBadRequest, messageResponse{Message: msgEmailRegistered})
		case errors.Is(err, domain.ErrInvalidInput):
			metrics.RegistrationsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid registration details"})
		}
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultError).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return c.JSON(http.StatusOK, registerResponse{
		Message:  msgRegistered,
		Username: user.Username,
		Email:    user.Email,
	})
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	result, err := h.accounts.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: msgInvalidCredentials})
		}
		metrics.LoginsTotal.WithLabelValues(metrics.ResultError).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Message:  msgLoginSucceeded,
		Token:    result.Token,
		Username: result.Username,
	})
}
