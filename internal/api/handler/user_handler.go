package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/account-service/internal/core/domain"
	"github.com/99minutos/account-service/internal/core/ports"
)

type UserHandler struct {
	accounts ports.AccountService
}

func NewUserHandler(accounts ports.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// Me returns the profile of the authenticated user.
//
// @Summary      Current user
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  currentUserResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /user/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	profile, err := h.accounts.CurrentUser(c.Request().Context(), identity)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "User not found"})
		}
		return err
	}

	return c.JSON(http.StatusOK, currentUserResponse{
		UserID:    profile.ID,
		Username:  profile.Username,
		Email:     profile.Email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Role:      profile.Role,
	})
}
