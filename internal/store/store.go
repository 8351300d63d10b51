package store

import (
	"context"
	"errors"
	"time"

	models "github.com/chenglongtech/membership/internal/models"
	types "github.com/chenglongtech/membership/pkg/types"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned on unique-key conflicts (email, order number,
	// invite code). Order-number conflicts are retryable at the engine level.
	ErrDuplicate = errors.New("duplicate record")
)

// ScanOrdersRequest is a filtered, paginated order listing used by admin
// pages.
type ScanOrdersRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

// Store is the data-access contract for the three record collections. Each
// engine mutates only its own entity type; cross-entity consistency comes
// from running both writes inside one Transact scope.
//
// Methods suffixed ForUpdate take a row lock and are only meaningful inside
// Transact.
type Store interface {
	CreateAccount(ctx context.Context, a *models.Account) error
	AccountByID(ctx context.Context, id string) (*models.Account, error)
	AccountByEmail(ctx context.Context, email string) (*models.Account, error)
	AccountByIDForUpdate(ctx context.Context, id string) (*models.Account, error)
	SaveAccount(ctx context.Context, a *models.Account) error

	CreateOrder(ctx context.Context, o *models.Order) error
	OrderByNo(ctx context.Context, orderNo string) (*models.Order, error)
	UserOrderByNo(ctx context.Context, userID, orderNo string) (*models.Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]*models.Order, error)
	ScanOrders(ctx context.Context, req *ScanOrdersRequest) ([]*models.Order, int64, error)
	// SettleOrder is the compare-and-set pending->paid. It reports false when
	// the order was not pending, i.e. another settle path won or the order is
	// terminal.
	SettleOrder(ctx context.Context, orderNo, paymentNo string, paidAt time.Time) (bool, error)
	// CancelOrder is the compare-and-set pending->cancelled.
	CancelOrder(ctx context.Context, orderNo string) (bool, error)

	CreateInviteCodes(ctx context.Context, codes []*models.InviteCode) error
	InviteCodeByCode(ctx context.Context, code string) (*models.InviteCode, error)
	// ClaimInviteCode is the compare-and-set unused->used. Exactly one caller
	// can claim a given code; losers observe false.
	ClaimInviteCode(ctx context.Context, code, userID string, at time.Time) (bool, error)

	CreateNotificationLog(ctx context.Context, l *models.GatewayNotificationLog) error

	// Transact runs fn within one atomic transaction; every store call made
	// through the passed Store commits or rolls back as a unit.
	Transact(ctx context.Context, fn func(tx Store) error) error
}
