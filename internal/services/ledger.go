package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"garrison/internal/models"

	"gorm.io/gorm"
)

// LedgerScope identifies the base and/or time window a summary is computed
// against. An empty BaseID means the whole force; nil Start/End mean an
// unbounded window.
type LedgerScope struct {
	BaseID string
	Start  *time.Time
	End    *time.Time
}

// LedgerSummary is the computed movement summary for a scope. All figures
// are quantities, never money.
type LedgerSummary struct {
	OpeningBalance int64 `json:"opening_balance"`
	Purchases      int64 `json:"purchases"`
	TransfersIn    int64 `json:"transfers_in"`
	TransfersOut   int64 `json:"transfers_out"`
	NetMovement    int64 `json:"net_movement"`
	Assigned       int64 `json:"assigned"`
	Expended       int64 `json:"expended"`
	ClosingBalance int64 `json:"closing_balance"`
}

type LedgerService struct {
	db *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

// Summarize computes the movement summary for the scope:
//
//	net_movement    = purchases + transfers_in - transfers_out
//	opening_balance = net movement minus expenditures accumulated strictly
//	                  before the window, so closing of one window equals
//	                  opening of the next
//	closing_balance = opening_balance + net_movement - expended
func (s *LedgerService) Summarize(ctx context.Context, scope LedgerScope) (*LedgerSummary, error) {
	summary := &LedgerSummary{}

	var err error
	if summary.Purchases, err = s.sumPurchases(ctx, scope.BaseID, scope.Start, scope.End); err != nil {
		return nil, fmt.Errorf("failed to sum purchases: %w", err)
	}
	if summary.TransfersIn, err = s.sumTransfers(ctx, "to_base_id", scope.BaseID, scope.Start, scope.End); err != nil {
		return nil, fmt.Errorf("failed to sum inbound transfers: %w", err)
	}
	if summary.TransfersOut, err = s.sumTransfers(ctx, "from_base_id", scope.BaseID, scope.Start, scope.End); err != nil {
		return nil, fmt.Errorf("failed to sum outbound transfers: %w", err)
	}
	if summary.Assigned, err = s.sumAssignments(ctx, models.AssignmentStatusAssigned, scope.BaseID, scope.Start, scope.End); err != nil {
		return nil, fmt.Errorf("failed to sum assignments: %w", err)
	}
	if summary.Expended, err = s.sumAssignments(ctx, models.AssignmentStatusExpended, scope.BaseID, scope.Start, scope.End); err != nil {
		return nil, fmt.Errorf("failed to sum expenditures: %w", err)
	}

	summary.NetMovement = summary.Purchases + summary.TransfersIn - summary.TransfersOut

	if scope.Start != nil {
		prior := LedgerScope{BaseID: scope.BaseID, End: scope.Start}
		purchases, err := s.sumPurchases(ctx, prior.BaseID, nil, prior.End)
		if err != nil {
			return nil, fmt.Errorf("failed to sum prior purchases: %w", err)
		}
		in, err := s.sumTransfers(ctx, "to_base_id", prior.BaseID, nil, prior.End)
		if err != nil {
			return nil, fmt.Errorf("failed to sum prior inbound transfers: %w", err)
		}
		out, err := s.sumTransfers(ctx, "from_base_id", prior.BaseID, nil, prior.End)
		if err != nil {
			return nil, fmt.Errorf("failed to sum prior outbound transfers: %w", err)
		}
		expended, err := s.sumAssignments(ctx, models.AssignmentStatusExpended, prior.BaseID, nil, prior.End)
		if err != nil {
			return nil, fmt.Errorf("failed to sum prior expenditures: %w", err)
		}
		summary.OpeningBalance = purchases + in - out - expended
	}

	summary.ClosingBalance = summary.OpeningBalance + summary.NetMovement - summary.Expended

	return summary, nil
}

func (s *LedgerService) sumPurchases(ctx context.Context, baseID string, start, end *time.Time) (int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Purchase{}).Where("is_deleted = ?", false)
	if baseID != "" {
		query = query.Where("base_id = ?", baseID)
	}
	return scanSum(applyWindow(query, start, end))
}

func (s *LedgerService) sumTransfers(ctx context.Context, baseColumn string, baseID string, start, end *time.Time) (int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Transfer{}).Where("is_deleted = ?", false)
	if baseID != "" {
		query = query.Where(baseColumn+" = ?", baseID)
	}
	return scanSum(applyWindow(query, start, end))
}

func (s *LedgerService) sumAssignments(ctx context.Context, status models.AssignmentStatus, baseID string, start, end *time.Time) (int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("is_deleted = ?", false).
		Where("status = ?", status)
	if baseID != "" {
		query = query.Where("base_id = ?", baseID)
	}
	return scanSum(applyWindow(query, start, end))
}

func applyWindow(query *gorm.DB, start, end *time.Time) *gorm.DB {
	if start != nil {
		query = query.Where("date >= ?", *start)
	}
	if end != nil {
		query = query.Where("date < ?", *end)
	}
	return query
}

func scanSum(query *gorm.DB) (int64, error) {
	var total int64
	if err := query.Select("COALESCE(SUM(quantity), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// BuildMovementReport renders the movement records of a base as CSV, one
// section per record kind. Used by the export task.
func (s *LedgerService) BuildMovementReport(ctx context.Context, baseID string) ([]byte, error) {
	var purchases []models.Purchase
	if err := s.db.WithContext(ctx).
		Where("base_id = ? AND is_deleted = ?", baseID, false).
		Order("date").
		Find(&purchases).Error; err != nil {
		return nil, fmt.Errorf("failed to load purchases: %w", err)
	}

	var transfers []models.Transfer
	if err := s.db.WithContext(ctx).
		Where("(from_base_id = ? OR to_base_id = ?) AND is_deleted = ?", baseID, baseID, false).
		Order("date").
		Find(&transfers).Error; err != nil {
		return nil, fmt.Errorf("failed to load transfers: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{"kind", "id", "asset_id", "from_base_id", "to_base_id", "quantity", "date"})
	for _, p := range purchases {
		_ = w.Write([]string{"purchase", p.ID, p.AssetID, "", p.BaseID, strconv.FormatInt(p.Quantity, 10), p.Date.Format("2006-01-02")})
	}
	for _, t := range transfers {
		_ = w.Write([]string{"transfer", t.ID, t.AssetID, t.FromBaseID, t.ToBaseID, strconv.FormatInt(t.Quantity, 10), t.Date.Format("2006-01-02")})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
