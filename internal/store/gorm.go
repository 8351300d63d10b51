package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	models "github.com/chenglongtech/membership/internal/models"
	types "github.com/chenglongtech/membership/pkg/types"

	"go.uber.org/fx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormStore struct {
	db *gorm.DB
}

// New wraps a gorm handle as a Store. The handle is constructed once at
// bootstrap and injected; nothing in the engines opens connections lazily.
func New(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func (s *gormStore) CreateAccount(ctx context.Context, a *models.Account) error {
	return translate(s.db.WithContext(ctx).Create(a).Error)
}

func (s *gormStore) AccountByID(ctx context.Context, id string) (*models.Account, error) {
	var a models.Account
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *gormStore) AccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var a models.Account
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *gormStore) AccountByIDForUpdate(ctx context.Context, id string) (*models.Account, error) {
	var a models.Account
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *gormStore) SaveAccount(ctx context.Context, a *models.Account) error {
	return translate(s.db.WithContext(ctx).Save(a).Error)
}

func (s *gormStore) CreateOrder(ctx context.Context, o *models.Order) error {
	return translate(s.db.WithContext(ctx).Create(o).Error)
}

func (s *gormStore) OrderByNo(ctx context.Context, orderNo string) (*models.Order, error) {
	var o models.Order
	if err := s.db.WithContext(ctx).Where("order_no = ?", orderNo).First(&o).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (s *gormStore) UserOrderByNo(ctx context.Context, userID, orderNo string) (*models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).
		Where("order_no = ? AND user_id = ?", orderNo, userID).
		First(&o).Error
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (s *gormStore) ListUserOrders(ctx context.Context, userID string) ([]*models.Order, error) {
	var orders []*models.Order
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, translate(err)
	}
	return orders, nil
}

// filtersAnd combines multiple CommonFilter into a single clause expression.
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

func (s *gormStore) ScanOrders(ctx context.Context, req *ScanOrdersRequest) ([]*models.Order, int64, error) {
	if req == nil {
		return nil, 0, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.Order{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	q := tx.Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: sortBy}, Desc: req.SortOrder != "asc"}}})

	var rows []*models.Order
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return rows, total, nil
}

func (s *gormStore) SettleOrder(ctx context.Context, orderNo, paymentNo string, paidAt time.Time) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_no = ? AND status = ?", orderNo, types.OrderStatusPending).
		Updates(map[string]any{
			"status":     types.OrderStatusPaid,
			"payment_no": paymentNo,
			"paid_at":    paidAt,
		})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *gormStore) CancelOrder(ctx context.Context, orderNo string) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_no = ? AND status = ?", orderNo, types.OrderStatusPending).
		Update("status", types.OrderStatusCancelled)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *gormStore) CreateInviteCodes(ctx context.Context, codes []*models.InviteCode) error {
	if len(codes) == 0 {
		return nil
	}
	return translate(s.db.WithContext(ctx).Create(codes).Error)
}

func (s *gormStore) InviteCodeByCode(ctx context.Context, code string) (*models.InviteCode, error) {
	var c models.InviteCode
	if err := s.db.WithContext(ctx).Where("code = ?", code).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *gormStore) ClaimInviteCode(ctx context.Context, code, userID string, at time.Time) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.InviteCode{}).
		Where("code = ? AND used = ?", code, false).
		Updates(map[string]any{
			"used":    true,
			"used_by": userID,
			"used_at": at,
		})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *gormStore) CreateNotificationLog(ctx context.Context, l *models.GatewayNotificationLog) error {
	return translate(s.db.WithContext(ctx).Create(l).Error)
}

func (s *gormStore) Transact(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

var Module = fx.Options(
	fx.Provide(New),
)
