package handlers

import (
	"net/http"
	"time"

	"garrison/internal/models"
	"garrison/internal/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type PurchaseHandler struct {
	purchases services.CrudService[models.Purchase]
}

func NewPurchaseHandler(db *gorm.DB) *PurchaseHandler {
	return &PurchaseHandler{
		purchases: services.NewCrudService(db, models.Purchase{}),
	}
}

type CreatePurchaseRequest struct {
	AssetID  string `json:"asset_id" validate:"required,uuid"`
	BaseID   string `json:"base_id" validate:"required,uuid"`
	Quantity int64  `json:"quantity" validate:"required,gt=0"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
}

// List returns purchase records, optionally filtered to one base and a
// start/end date window.
func (h *PurchaseHandler) List(c echo.Context) error {
	scope, err := scopeFromQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	filters := map[string]interface{}{}
	if scope.BaseID != "" {
		filters["base_id"] = scope.BaseID
	}

	purchases, err := h.purchases.ListScoped(c.Request().Context(), filters, services.DateWindow(scope.Start, scope.End))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, purchases)
}

// Create appends a purchase record. Purchases are never edited or deleted.
func (h *PurchaseHandler) Create(c echo.Context) error {
	var req CreatePurchaseRequest
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

	purchase := models.Purchase{
		AssetID:  req.AssetID,
		BaseID:   req.BaseID,
		Quantity: req.Quantity,
		Date:     date,
	}
	if err := h.purchases.Create(c.Request().Context(), &purchase); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, purchase)
}
