package client

import (
	"context"
	"sync"

	"garrison/internal/models"
)

// Kind names one indexed entity collection.
type Kind string

const (
	KindAssets      Kind = "assets"
	KindBases       Kind = "bases"
	KindUsers       Kind = "users"
	KindPurchases   Kind = "purchases"
	KindTransfers   Kind = "transfers"
	KindAssignments Kind = "assignments"
)

// Entity is any indexed record. All persisted models satisfy it through
// their embedded base columns.
type Entity interface {
	EntityID() string
}

var kindPaths = map[Kind]string{
	KindAssets:      "/asset/get-all",
	KindBases:       "/base/get-all-base",
	KindUsers:       "/user/get-users",
	KindPurchases:   "/purchase/get",
	KindTransfers:   "/transfer/get-all",
	KindAssignments: "/assignment",
}

// EntityIndex caches full entity collections for dropdowns and foreign key
// display. Each kind is replaced wholesale on load; concurrent loads of the
// same kind resolve to the most recently started one.
type EntityIndex struct {
	client *Client

	mu         sync.RWMutex
	records    map[Kind][]Entity
	byID       map[Kind]map[string]Entity
	generation map[Kind]uint64
}

func newEntityIndex(c *Client) *EntityIndex {
	return &EntityIndex{
		client:     c,
		records:    make(map[Kind][]Entity),
		byID:       make(map[Kind]map[string]Entity),
		generation: make(map[Kind]uint64),
	}
}

// LoadAll fetches the full collection for kind and swaps it in atomically.
// A load that was superseded by a newer one for the same kind discards its
// result instead of clobbering fresher data. On error the previous
// collection stays in place.
func (idx *EntityIndex) LoadAll(ctx context.Context, kind Kind) error {
	idx.mu.Lock()
	idx.generation[kind]++
	gen := idx.generation[kind]
	idx.mu.Unlock()

	records, err := idx.fetch(ctx, kind)
	if err != nil {
		return err
	}

	byID := make(map[string]Entity, len(records))
	for _, r := range records {
		byID[r.EntityID()] = r
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.generation[kind] != gen {
		// A newer load started after this one; its result wins.
		return nil
	}
	idx.records[kind] = records
	idx.byID[kind] = byID
	return nil
}

// All returns the cached collection for kind, possibly empty.
func (idx *EntityIndex) All(kind Kind) []Entity {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.records[kind]
}

// ByID resolves one cached record in constant time.
func (idx *EntityIndex) ByID(kind Kind, id string) (Entity, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	r, ok := idx.byID[kind][id]
	return r, ok
}

// Clear drops every cached collection. Called on logout so the next actor
// starts from an empty index.
func (idx *EntityIndex) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.records = make(map[Kind][]Entity)
	idx.byID = make(map[Kind]map[string]Entity)
}

func (idx *EntityIndex) fetch(ctx context.Context, kind Kind) ([]Entity, error) {
	path, ok := kindPaths[kind]
	if !ok {
		return nil, &ValidationError{Field: "kind", Message: "unknown entity kind " + string(kind)}
	}

	switch kind {
	case KindAssets:
		var out []models.Asset
		if err := idx.client.get(ctx, path, nil, &out); err != nil {
			return nil, err
		}
		return wrap(out), nil
	case KindBases:
		var out []models.Base
		if err := idx.client.get(ctx, path, nil, &out); err != nil {
			return nil, err
		}
		return wrap(out), nil
	case KindUsers:
		var out []models.User
		if err := idx.client.get(ctx, path, nil, &out); err != nil {
			return nil, err
		}
		return wrap(out), nil
	case KindPurchases:
		var out []models.Purchase
		if err := idx.client.get(ctx, path, nil, &out); err != nil {
			return nil, err
		}
		return wrap(out), nil
	case KindTransfers:
		var out []models.Transfer
		if err := idx.client.get(ctx, path, nil, &out); err != nil {
			return nil, err
		}
		return wrap(out), nil
	default:
		var out []models.Assignment
		if err := idx.client.get(ctx, path, nil, &out); err != nil {
			return nil, err
		}
		return wrap(out), nil
	}
}

func wrap[T Entity](records []T) []Entity {
	out := make([]Entity, len(records))
	for i := range records {
		out[i] = records[i]
	}
	return out
}
