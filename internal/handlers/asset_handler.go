package handlers

import (
	"net/http"
	"time"

	"garrison/internal/models"
	"garrison/internal/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type AssetHandler struct {
	assets services.CrudService[models.Asset]
	ledger *services.LedgerService
}

func NewAssetHandler(db *gorm.DB) *AssetHandler {
	return &AssetHandler{
		assets: services.NewCrudService(db, models.Asset{}),
		ledger: services.NewLedgerService(db),
	}
}

type CreateAssetRequest struct {
	Name     string `json:"name" validate:"required"`
	Type     string `json:"type" validate:"required"`
	TotalQty int64  `json:"total_qty" validate:"required,gt=0"`
}

// List returns every asset.
func (h *AssetHandler) List(c echo.Context) error {
	assets, err := h.assets.List(c.Request().Context(), nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, assets)
}

// Create registers a new asset type.
func (h *AssetHandler) Create(c echo.Context) error {
	var req CreateAssetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body "+err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	asset := models.Asset{
		Name:     req.Name,
		Type:     req.Type,
		TotalQty: req.TotalQty,
	}
	if err := h.assets.Create(c.Request().Context(), &asset); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, asset)
}

// Summary computes the movement summary for the requested scope. An absent
// base_id means force-wide; start/end bound the window as YYYY-MM-DD dates.
func (h *AssetHandler) Summary(c echo.Context) error {
	scope, err := scopeFromQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	summary, err := h.ledger.Summarize(c.Request().Context(), scope)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, summary)
}

func scopeFromQuery(c echo.Context) (services.LedgerScope, error) {
	scope := services.LedgerScope{BaseID: c.QueryParam("base_id")}

	if raw := c.QueryParam("start"); raw != "" {
		start, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return scope, err
		}
		scope.Start = &start
	}
	if raw := c.QueryParam("end"); raw != "" {
		end, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return scope, err
		}
		// End is exclusive; include the named day.
		end = end.AddDate(0, 0, 1)
		scope.End = &end
	}
	return scope, nil
}
