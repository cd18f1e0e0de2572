package handlers

import (
	"net/http"
	"time"

	"garrison/internal/api/middleware"
	"garrison/internal/models"
	"garrison/internal/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type TransferHandler struct {
	transfers services.CrudService[models.Transfer]
}

func NewTransferHandler(db *gorm.DB) *TransferHandler {
	return &TransferHandler{
		transfers: services.NewCrudService(db, models.Transfer{}),
	}
}

type CreateTransferRequest struct {
	AssetID    string `json:"asset_id" validate:"required,uuid"`
	FromBaseID string `json:"from_base_id" validate:"required,uuid"`
	ToBaseID   string `json:"to_base_id" validate:"required,uuid,nefield=FromBaseID"`
	Quantity   int64  `json:"quantity" validate:"required,gt=0"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
}

// List returns transfer records, optionally bounded by a start/end date
// window. With ?direction=in|out the result is filtered to transfers into
// or out of a base: the one named by ?base_id, falling back to the actor's
// assigned base. Without a direction the full history is returned.
func (h *TransferHandler) List(c echo.Context) error {
	scope, err := scopeFromQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	window := services.DateWindow(scope.Start, scope.End)

	direction := c.QueryParam("direction")
	if direction == "" {
		transfers, err := h.transfers.ListScoped(c.Request().Context(), nil, window)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, transfers)
	}

	baseID := scope.BaseID
	if baseID == "" {
		baseID = middleware.GetUserBaseID(c)
	}
	if baseID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "direction filter requires a base")
	}

	filters := map[string]interface{}{}
	switch direction {
	case "in":
		filters["to_base_id"] = baseID
	case "out":
		filters["from_base_id"] = baseID
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "direction must be 'in' or 'out'")
	}

	transfers, err := h.transfers.ListScoped(c.Request().Context(), filters, window)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, transfers)
}

// Create appends a transfer record. The validator rejects a transfer whose
// source and destination base are identical before it reaches storage.
func (h *TransferHandler) Create(c echo.Context) error {
	var req CreateTransferRequest
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

	transfer := models.Transfer{
		AssetID:    req.AssetID,
		FromBaseID: req.FromBaseID,
		ToBaseID:   req.ToBaseID,
		Quantity:   req.Quantity,
		Date:       date,
	}
	if err := h.transfers.Create(c.Request().Context(), &transfer); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, transfer)
}
