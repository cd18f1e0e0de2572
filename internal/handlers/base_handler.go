package handlers

import (
	"net/http"

	"garrison/internal/models"
	"garrison/internal/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type BaseHandler struct {
	bases services.CrudService[models.Base]
}

func NewBaseHandler(db *gorm.DB) *BaseHandler {
	return &BaseHandler{
		bases: services.NewCrudService(db, models.Base{}),
	}
}

type BaseRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Location string `json:"location" validate:"required"`
}

// List returns every base.
func (h *BaseHandler) List(c echo.Context) error {
	bases, err := h.bases.List(c.Request().Context(), nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, bases)
}

// Create registers a new base.
func (h *BaseHandler) Create(c echo.Context) error {
	var req BaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body "+err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	base := models.Base{Name: req.Name, Location: req.Location}
	if err := h.bases.Create(c.Request().Context(), &base); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, base)
}

// Update edits a base's name and location. Bases are never deleted.
func (h *BaseHandler) Update(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing id parameter")
	}

	var req BaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	base := models.Base{Name: req.Name, Location: req.Location}
	if err := h.bases.Update(c.Request().Context(), id, &base); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, base)
}
