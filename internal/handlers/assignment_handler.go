package handlers

import (
	"net/http"
	"time"

	"garrison/internal/models"
	"garrison/internal/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type AssignmentHandler struct {
	assignments services.CrudService[models.Assignment]
}

func NewAssignmentHandler(db *gorm.DB) *AssignmentHandler {
	return &AssignmentHandler{
		assignments: services.NewCrudService(db, models.Assignment{}),
	}
}

type CreateAssignmentRequest struct {
	AssetID       string `json:"asset_id" validate:"required,uuid"`
	BaseID        string `json:"base_id" validate:"required,uuid"`
	PersonnelName string `json:"personnel_name" validate:"required"`
	Quantity      int64  `json:"quantity" validate:"required,gt=0"`
	Status        string `json:"status" validate:"omitempty,assignment_status"`
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
}

type UpdateAssignmentStatusRequest struct {
	Status string `json:"status" validate:"required,assignment_status"`
}

// List returns assignment records, optionally filtered to one base.
func (h *AssignmentHandler) List(c echo.Context) error {
	filters := map[string]interface{}{}
	if baseID := c.QueryParam("base_id"); baseID != "" {
		filters["base_id"] = baseID
	}

	assignments, err := h.assignments.List(c.Request().Context(), filters)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, assignments)
}

// Create records an assignment of a quantity of an asset to personnel.
func (h *AssignmentHandler) Create(c echo.Context) error {
	var req CreateAssignmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body "+err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date")
	}

	// New assignments start as assigned unless stated otherwise.
	if req.Status == "" {
		req.Status = string(models.AssignmentStatusAssigned)
	}

	assignment := models.Assignment{
		AssetID:       req.AssetID,
		BaseID:        req.BaseID,
		PersonnelName: req.PersonnelName,
		Quantity:      req.Quantity,
		Status:        models.AssignmentStatus(req.Status),
		Date:          date,
	}
	if err := h.assignments.Create(c.Request().Context(), &assignment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, assignment)
}

// UpdateStatus mutates the status of an assignment in place. All other
// fields are fixed at creation.
func (h *AssignmentHandler) UpdateStatus(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing id parameter")
	}

	var req UpdateAssignmentStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.assignments.UpdateColumn(c.Request().Context(), id, "status", req.Status); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"id": id, "status": req.Status})
}
