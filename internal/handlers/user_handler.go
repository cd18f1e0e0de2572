package handlers

import (
	"net/http"

	"garrison/internal/access"
	"garrison/internal/models"
	"garrison/internal/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type UserHandler struct {
	users services.CrudService[models.User]
	db    *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{
		users: services.NewCrudService(db, models.User{}),
		db:    db,
	}
}

type UpdateUserRequest struct {
	Name   string `json:"name" validate:"omitempty,min=2"`
	Role   string `json:"role" validate:"omitempty,user_role"`
	BaseID string `json:"base_id" validate:"omitempty,uuid"`
}

// List returns every user account.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context(), nil, "Base")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, users)
}

// Update edits a user's name, role or assigned base. Email and password
// changes go through auth flows, not this endpoint.
func (h *UserHandler) Update(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing id parameter")
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user := models.User{
		Name:   req.Name,
		Role:   access.Role(req.Role),
		BaseID: req.BaseID,
	}
	if err := h.users.Update(c.Request().Context(), id, &user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, user)
}

// Delete removes a user account and invalidates their sessions.
func (h *UserHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing id parameter")
	}

	if err := h.users.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Their tokens stop working the moment the session rows go.
	if err := h.db.WithContext(c.Request().Context()).
		Where("user_id = ?", id).
		Delete(&models.AuthSession{}).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
