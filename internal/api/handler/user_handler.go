package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/senbank/backoffice/internal/api/metrics"
	"github.com/senbank/backoffice/internal/core/domain"
	"github.com/senbank/backoffice/internal/core/ports"
)

// UserHandler handles HTTP requests for the user directory.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Create handles POST /users.
//
// @Summary      Register a client or distributor account
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "Account details"
// @Success      201   {object}  createUserResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.Create(c.Request().Context(), ports.CreateUserInput{
		Nom:       req.Nom,
		Prenom:    req.Prenom,
		Email:     req.Email,
		Password:  req.MotDePasse,
		Role:      req.Role,
		NumTel:    req.NumTel,
		NumCompte: req.NumCompte,
		Photo:     req.Photo,
	})
	if err != nil {
		return err
	}
	metrics.UsersCreatedTotal.WithLabelValues(user.Role).Inc()

	return c.JSON(http.StatusCreated, createUserResponse{Message: "user created", User: user})
}

// Update handles PUT /users/:id.
//
// @Summary      Edit a user profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Profile fields"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := identityFrom(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err = h.service.Update(c.Request().Context(), actor, c.Param("id"), ports.UpdateUserInput{
		Nom:    req.Nom,
		Prenom: req.Prenom,
		Email:  req.Email,
		NumTel: req.NumTel,
		Photo:  req.Photo,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "user updated"})
}

// ChangePassword handles PUT /users/:id/password.
//
// @Summary      Change a password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "User id"
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id}/password [put]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	actor, err := identityFrom(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	err = h.service.ChangePassword(c.Request().Context(), actor, c.Param("id"), ports.ChangePasswordInput{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "password changed"})
}

// List handles GET /users.
//
// @Summary      List active users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usersResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return c.JSON(http.StatusOK, usersResponse{Users: users})
}

// Archive handles DELETE /users. Records are flagged, never removed.
//
// @Summary      Archive users
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      idsRequest  true  "User ids"
// @Success      200   {object}  bulkResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users [delete]
func (h *UserHandler) Archive(c echo.Context) error {
	actor, err := identityFrom(c)
	if err != nil {
		return err
	}

	var req idsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	n, err := h.service.Archive(c.Request().Context(), actor, req.IDs)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, bulkResponse{
		Message:       fmt.Sprintf("%d user(s) archived", n),
		ModifiedCount: n,
	})
}

// SetBlocked handles PATCH /users/block.
//
// @Summary      Block or unblock users
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      blockRequest  true  "User ids and target flag"
// @Success      200   {object}  bulkResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/block [patch]
func (h *UserHandler) SetBlocked(c echo.Context) error {
	actor, err := identityFrom(c)
	if err != nil {
		return err
	}

	var req blockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	n, err := h.service.SetBlocked(c.Request().Context(), actor, req.IDs, *req.Bloquer)
	if err != nil {
		return err
	}

	verb := "unblocked"
	if *req.Bloquer {
		verb = "blocked"
	}
	return c.JSON(http.StatusOK, bulkResponse{
		Message:       fmt.Sprintf("%d user(s) %s", n, verb),
		ModifiedCount: n,
	})
}
