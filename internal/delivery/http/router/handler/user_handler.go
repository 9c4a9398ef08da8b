package handler

import (
	"net/http"
	"strconv"

	"lingo/internal/delivery/http/middleware"
	"lingo/internal/delivery/http/response"
	"lingo/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserHandler holds dependencies for the authenticated user endpoints.
type UserHandler struct {
	uc usecase.AuthUsecase
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.AuthUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

// Me returns the authenticated user's profile.
func (h *UserHandler) Me(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Not authenticated")
	}

	user, err := h.uc.GetUser(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserView(user), "")
}

// LoginHistory returns the authenticated user's recent login attempts.
func (h *UserHandler) LoginHistory(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Not authenticated")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	attempts, err := h.uc.LoginHistory(c.Request().Context(), userID, limit)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]loginAttemptView, 0, len(attempts))
	for _, attempt := range attempts {
		views = append(views, loginAttemptView{
			Provider:    attempt.Provider.String(),
			IPAddress:   attempt.IPAddress,
			UserAgent:   attempt.UserAgent,
			Successful:  attempt.Successful,
			AttemptedAt: attempt.AttemptedAt,
		})
	}

	return response.Success(c, http.StatusOK, views, "")
}
