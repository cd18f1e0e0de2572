package client

import (
	"context"
	"net/url"
	"sync"
)

// Summary is the movement ledger for one scope. Absent figures decode to
// zero, so a partial backend response still renders.
type Summary struct {
	OpeningBalance int64 `json:"opening_balance"`
	Purchases      int64 `json:"purchases"`
	TransfersIn    int64 `json:"transfers_in"`
	TransfersOut   int64 `json:"transfers_out"`
	NetMovement    int64 `json:"net_movement"`
	Assigned       int64 `json:"assigned"`
	Expended       int64 `json:"expended"`
	ClosingBalance int64 `json:"closing_balance"`
}

// Scope selects the base and date window a summary covers. Empty fields
// widen the scope: no base means all bases, no dates means all time.
type Scope struct {
	BaseID string
	Start  string // inclusive, 2006-01-02
	End    string // inclusive, 2006-01-02
}

func (s Scope) query() url.Values {
	q := url.Values{}
	if s.BaseID != "" {
		q.Set("base_id", s.BaseID)
	}
	if s.Start != "" {
		q.Set("start", s.Start)
	}
	if s.End != "" {
		q.Set("end", s.End)
	}
	return q
}

// Category names one figure of the summary that can be expanded into its
// underlying records.
type Category string

const (
	CategoryPurchases    Category = "purchases"
	CategoryTransfersIn  Category = "transfers_in"
	CategoryTransfersOut Category = "transfers_out"
)

// LedgerView holds the current ledger scope and its last good summary.
// Safe for concurrent use.
type LedgerView struct {
	client *Client

	mu      sync.RWMutex
	scope   Scope
	summary Summary
}

func newLedgerView(c *Client) *LedgerView {
	return &LedgerView{client: c}
}

// SetScope replaces the active scope. The cached summary is kept until the
// next Summarize call reloads it.
func (v *LedgerView) SetScope(scope Scope) {
	v.mu.Lock()
	v.scope = scope
	v.mu.Unlock()
}

func (v *LedgerView) Scope() Scope {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.scope
}

// Current returns the last successfully loaded summary. Zero before the
// first load.
func (v *LedgerView) Current() Summary {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.summary
}

// Summarize reloads the summary for the active scope. On failure the
// previous summary is kept and the error returned.
func (v *LedgerView) Summarize(ctx context.Context) (Summary, error) {
	v.mu.RLock()
	scope := v.scope
	v.mu.RUnlock()

	var summary Summary
	if err := v.client.get(ctx, "/asset/summary", scope.query(), &summary); err != nil {
		return v.Current(), err
	}

	v.mu.Lock()
	v.summary = summary
	v.mu.Unlock()
	return summary, nil
}

// DrillDown fetches the records behind one summary figure, scoped to the
// active base and window. Figures with no underlying record list, such as
// computed balances, report drillable false with no error and no network
// call. Rows come back as raw column maps so callers can render whatever
// columns the record type carries.
func (v *LedgerView) DrillDown(ctx context.Context, category Category) (rows []map[string]interface{}, drillable bool, err error) {
	v.mu.RLock()
	scope := v.scope
	v.mu.RUnlock()

	q := scope.query()
	var path string
	switch category {
	case CategoryPurchases:
		path = "/purchase/get"
	case CategoryTransfersIn:
		path = "/transfer/get-all"
		q.Set("direction", "in")
	case CategoryTransfersOut:
		path = "/transfer/get-all"
		q.Set("direction", "out")
	default:
		return nil, false, nil
	}

	if err := v.client.get(ctx, path, q, &rows); err != nil {
		return nil, true, err
	}
	return rows, true, nil
}
