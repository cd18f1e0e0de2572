package client

import (
	"context"

	"garrison/internal/access"
	"garrison/internal/models"
)

// Mutation names one write operation the client can perform.
type Mutation string

const (
	MutationAssetCreate      Mutation = "asset.create"
	MutationBaseCreate       Mutation = "base.create"
	MutationBaseUpdate       Mutation = "base.update"
	MutationPurchaseCreate   Mutation = "purchase.create"
	MutationTransferCreate   Mutation = "transfer.create"
	MutationAssignmentCreate Mutation = "assignment.create"
	MutationAssignmentStatus Mutation = "assignment.status"
	MutationUserCreate       Mutation = "user.create"
	MutationUserUpdate       Mutation = "user.update"
	MutationUserDelete       Mutation = "user.delete"
)

type refreshPlan struct {
	kinds   []Kind
	summary bool
}

// refreshPlans maps each mutation to the collections whose displayed data
// it can change. A mutation that fails refreshes nothing.
var refreshPlans = map[Mutation]refreshPlan{
	MutationAssetCreate:      {kinds: []Kind{KindAssets}},
	MutationBaseCreate:       {kinds: []Kind{KindBases}},
	MutationBaseUpdate:       {kinds: []Kind{KindBases}},
	MutationPurchaseCreate:   {kinds: []Kind{KindPurchases}, summary: true},
	MutationTransferCreate:   {kinds: []Kind{KindTransfers}, summary: true},
	MutationAssignmentCreate: {kinds: []Kind{KindAssignments}, summary: true},
	MutationAssignmentStatus: {kinds: []Kind{KindAssignments}, summary: true},
	MutationUserCreate:       {kinds: []Kind{KindUsers}},
	MutationUserUpdate:       {kinds: []Kind{KindUsers}},
	MutationUserDelete:       {kinds: []Kind{KindUsers}},
}

// applyRefresh reloads everything the plan names. Refresh failures are
// logged but do not fail the mutation that already succeeded.
func (c *Client) applyRefresh(ctx context.Context, m Mutation) {
	plan, ok := refreshPlans[m]
	if !ok {
		return
	}
	for _, kind := range plan.kinds {
		if err := c.Index.LoadAll(ctx, kind); err != nil {
			c.logger.Warn("Refresh of %s after %s failed: %v", kind, m, err)
		}
	}
	if plan.summary {
		if _, err := c.Ledger.Summarize(ctx); err != nil {
			c.logger.Warn("Summary refresh after %s failed: %v", m, err)
		}
	}
}

// AssetInput describes a new asset type.
type AssetInput struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	TotalQty int64  `json:"total_qty"`
}

func (c *Client) CreateAsset(ctx context.Context, in AssetInput) (*models.Asset, error) {
	if err := c.Authorize(access.ResourceAssets); err != nil {
		return nil, err
	}
	if in.TotalQty <= 0 {
		return nil, &ValidationError{Field: "total_qty", Message: "must be positive"}
	}
	var asset models.Asset
	if err := c.post(ctx, "/asset/add", in, &asset); err != nil {
		return nil, err
	}
	c.applyRefresh(ctx, MutationAssetCreate)
	return &asset, nil
}

// BaseInput describes a base to create or edit.
type BaseInput struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

func (c *Client) CreateBase(ctx context.Context, in BaseInput) (*models.Base, error) {
	if err := c.Authorize(access.ResourceBases); err != nil {
		return nil, err
	}
	var base models.Base
	if err := c.post(ctx, "/base/create", in, &base); err != nil {
		return nil, err
	}
	c.applyRefresh(ctx, MutationBaseCreate)
	return &base, nil
}

func (c *Client) UpdateBase(ctx context.Context, id string, in BaseInput) error {
	if err := c.Authorize(access.ResourceBases); err != nil {
		return err
	}
	if err := c.put(ctx, "/base/edit/"+id, in, nil); err != nil {
		return err
	}
	c.applyRefresh(ctx, MutationBaseUpdate)
	return nil
}

// PurchaseInput records procurement of an asset for a base.
type PurchaseInput struct {
	AssetID  string `json:"asset_id"`
	BaseID   string `json:"base_id"`
	Quantity int64  `json:"quantity"`
	Date     string `json:"date"`
}

func (c *Client) CreatePurchase(ctx context.Context, in PurchaseInput) (*models.Purchase, error) {
	if err := c.Authorize(access.ResourcePurchases); err != nil {
		return nil, err
	}
	if in.Quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Message: "must be positive"}
	}
	var purchase models.Purchase
	if err := c.post(ctx, "/purchase/create", in, &purchase); err != nil {
		return nil, err
	}
	c.applyRefresh(ctx, MutationPurchaseCreate)
	return &purchase, nil
}

// TransferInput moves quantity of an asset between two distinct bases.
type TransferInput struct {
	AssetID    string `json:"asset_id"`
	FromBaseID string `json:"from_base_id"`
	ToBaseID   string `json:"to_base_id"`
	Quantity   int64  `json:"quantity"`
	Date       string `json:"date"`
}

func (c *Client) CreateTransfer(ctx context.Context, in TransferInput) (*models.Transfer, error) {
	if err := c.Authorize(access.ResourceTransfers); err != nil {
		return nil, err
	}
	if in.Quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Message: "must be positive"}
	}
	if in.FromBaseID != "" && in.FromBaseID == in.ToBaseID {
		return nil, &ValidationError{Field: "to_base_id", Message: "source and destination base must differ"}
	}
	var transfer models.Transfer
	if err := c.post(ctx, "/transfer/create", in, &transfer); err != nil {
		return nil, err
	}
	c.applyRefresh(ctx, MutationTransferCreate)
	return &transfer, nil
}

// AssignmentInput hands quantity of an asset to named personnel.
type AssignmentInput struct {
	AssetID       string `json:"asset_id"`
	BaseID        string `json:"base_id"`
	PersonnelName string `json:"personnel_name"`
	Quantity      int64  `json:"quantity"`
	Date          string `json:"date"`
}

func (c *Client) CreateAssignment(ctx context.Context, in AssignmentInput) (*models.Assignment, error) {
	if err := c.Authorize(access.ResourceAssignments); err != nil {
		return nil, err
	}
	if in.Quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Message: "must be positive"}
	}
	var assignment models.Assignment
	if err := c.post(ctx, "/assignment", in, &assignment); err != nil {
		return nil, err
	}
	c.applyRefresh(ctx, MutationAssignmentCreate)
	return &assignment, nil
}

func (c *Client) UpdateAssignmentStatus(ctx context.Context, id string, status models.AssignmentStatus) error {
	if err := c.Authorize(access.ResourceAssignments); err != nil {
		return err
	}
	if !models.IsValidAssignmentStatus(status) {
		return &ValidationError{Field: "status", Message: "unknown assignment status " + string(status)}
	}
	body := map[string]string{"status": string(status)}
	if err := c.put(ctx, "/assignment/"+id+"/status", body, nil); err != nil {
		return err
	}
	c.applyRefresh(ctx, MutationAssignmentStatus)
	return nil
}

// UserInput describes an operator account.
type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role"`
	BaseID   string `json:"base_id,omitempty"`
}

func (c *Client) CreateUser(ctx context.Context, in UserInput) error {
	if err := c.Authorize(access.ResourceUsers); err != nil {
		return err
	}
	if !access.IsValidRole(access.Role(in.Role)) {
		return &ValidationError{Field: "role", Message: "unknown role " + in.Role}
	}
	if err := c.post(ctx, "/user/register", in, nil); err != nil {
		return err
	}
	c.applyRefresh(ctx, MutationUserCreate)
	return nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, in UserInput) error {
	if err := c.Authorize(access.ResourceUsers); err != nil {
		return err
	}
	if in.Role != "" && !access.IsValidRole(access.Role(in.Role)) {
		return &ValidationError{Field: "role", Message: "unknown role " + in.Role}
	}
	if err := c.put(ctx, "/user/edit-user/"+id, in, nil); err != nil {
		return err
	}
	c.applyRefresh(ctx, MutationUserUpdate)
	return nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	if err := c.Authorize(access.ResourceUsers); err != nil {
		return err
	}
	if err := c.delete(ctx, "/user/"+id); err != nil {
		return err
	}
	c.applyRefresh(ctx, MutationUserDelete)
	return nil
}
