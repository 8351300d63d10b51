// Package storetest provides an in-memory store.Store used by engine tests.
// Transact serializes on one mutex and restores a snapshot on error, giving
// the same commit-or-rollback and one-winner semantics the SQL store gets
// from transactions and row locks.
package storetest

import (
	"context"
	"strings"
	"sync"
	"time"

	models "github.com/chenglongtech/membership/internal/models"
	"github.com/chenglongtech/membership/internal/store"
	types "github.com/chenglongtech/membership/pkg/types"
)

type state struct {
	accounts map[string]*models.Account    // by id
	orders   map[string]*models.Order      // by order no
	codes    map[string]*models.InviteCode // by code
	logs     []*models.GatewayNotificationLog
}

func (st *state) clone() *state {
	c := &state{
		accounts: make(map[string]*models.Account, len(st.accounts)),
		orders:   make(map[string]*models.Order, len(st.orders)),
		codes:    make(map[string]*models.InviteCode, len(st.codes)),
		logs:     append([]*models.GatewayNotificationLog(nil), st.logs...),
	}
	for k, v := range st.accounts {
		cp := *v
		c.accounts[k] = &cp
	}
	for k, v := range st.orders {
		cp := *v
		c.orders[k] = &cp
	}
	for k, v := range st.codes {
		cp := *v
		c.codes[k] = &cp
	}
	return c
}

// Memory is a store.Store backed by maps.
type Memory struct {
	mu sync.Mutex
	st *state

	// SaveAccountHook, when set, runs before an account save and can fail it.
	// Used to exercise rollback paths.
	SaveAccountHook func(a *models.Account) error
}

func NewMemory() *Memory {
	return &Memory{st: &state{
		accounts: map[string]*models.Account{},
		orders:   map[string]*models.Order{},
		codes:    map[string]*models.InviteCode{},
	}}
}

// view gives unlocked access to the current state; used inside Transact.
type view struct {
	m  *Memory
	st *state
}

func (m *Memory) CreateAccount(ctx context.Context, a *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{m, m.st}).CreateAccount(ctx, a)
}

func (m *Memory) AccountByID(ctx context.Context, id string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{m, m.st}).AccountByID(ctx, id)
}

func (m *Memory) AccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{m, m.st}).AccountByEmail(ctx, email)
}

func (m *Memory) AccountByIDForUpdate(ctx context.Context, id string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{m, m.st}).AccountByIDForUpdate(ctx, id)
}

func (m *Memory) SaveAccount(ctx context.Context, a *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{m, m.st}).SaveAccount(ctx, a)
}

func (m *Memory) CreateOrder(ctx context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{m, m.st}).CreateOrder(ctx, o)
}

func (m *Memory) OrderByNo(ctx context.Context, orderNo string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{m, m.st}).OrderByNo(ctx, orderNo)
}

func (m *Memory) UserOrderByNo(ctx context.Context, userID, orderNo string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{m, m.st}).UserOrderByNo(ctx, userID, orderNo)
}

func (m *Memory) ListUserOrders(ctx context.Context, userID string) ([]*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{m, m.st}).ListUserOrders(ctx, userID)
}

func (m *Memory) ScanOrders(ctx context.Context, req *store.ScanOrdersRequest) ([]*models.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{m, m.st}).ScanOrders(ctx, req)
}

func (m *Memory) SettleOrder(ctx context.Context, orderNo, paymentNo string, paidAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{m, m.st}).SettleOrder(ctx, orderNo, paymentNo, paidAt)
}

func (m *Memory) CancelOrder(ctx context.Context, orderNo string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{m, m.st}).CancelOrder(ctx, orderNo)
}

func (m *Memory) CreateInviteCodes(ctx context.Context, codes []*models.InviteCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{m, m.st}).CreateInviteCodes(ctx, codes)
}

func (m *Memory) InviteCodeByCode(ctx context.Context, code string) (*models.InviteCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{m, m.st}).InviteCodeByCode(ctx, code)
}

func (m *Memory) ClaimInviteCode(ctx context.Context, code, userID string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{m, m.st}).ClaimInviteCode(ctx, code, userID, at)
}

func (m *Memory) CreateNotificationLog(ctx context.Context, l *models.GatewayNotificationLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{m, m.st}).CreateNotificationLog(ctx, l)
}

// Transact runs fn under the store mutex against the live state and restores
// the pre-transaction snapshot when fn fails.
func (m *Memory) Transact(ctx context.Context, fn func(tx store.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.st.clone()
	if err := fn(&view{m, m.st}); err != nil {
		m.st = snapshot
		return err
	}
	return nil
}

func (v *view) CreateAccount(_ context.Context, a *models.Account) error {
	for _, existing := range v.st.accounts {
		if existing.Email == a.Email {
			return store.ErrDuplicate
		}
	}
	if _, ok := v.st.accounts[a.ID]; ok {
		return store.ErrDuplicate
	}
	cp := *a
	v.st.accounts[a.ID] = &cp
	return nil
}

func (v *view) AccountByID(_ context.Context, id string) (*models.Account, error) {
	a, ok := v.st.accounts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (v *view) AccountByEmail(_ context.Context, email string) (*models.Account, error) {
	for _, a := range v.st.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (v *view) AccountByIDForUpdate(ctx context.Context, id string) (*models.Account, error) {
	return v.AccountByID(ctx, id)
}

func (v *view) SaveAccount(_ context.Context, a *models.Account) error {
	if v.m.SaveAccountHook != nil {
		if err := v.m.SaveAccountHook(a); err != nil {
			return err
		}
	}
	if _, ok := v.st.accounts[a.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *a
	v.st.accounts[a.ID] = &cp
	return nil
}

func (v *view) CreateOrder(_ context.Context, o *models.Order) error {
	if _, ok := v.st.orders[o.OrderNo]; ok {
		return store.ErrDuplicate
	}
	cp := *o
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	v.st.orders[o.OrderNo] = &cp
	return nil
}

func (v *view) OrderByNo(_ context.Context, orderNo string) (*models.Order, error) {
	o, ok := v.st.orders[orderNo]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (v *view) UserOrderByNo(ctx context.Context, userID, orderNo string) (*models.Order, error) {
	o, err := v.OrderByNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, store.ErrNotFound
	}
	return o, nil
}

func (v *view) ListUserOrders(_ context.Context, userID string) ([]*models.Order, error) {
	var out []*models.Order
	for _, o := range v.st.orders {
		if o.UserID == userID {
			cp := *o
			out = append(out, &cp)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.After(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

// ScanOrders supports eq filters on user_id and status; enough for tests.
func (v *view) ScanOrders(_ context.Context, req *store.ScanOrdersRequest) ([]*models.Order, int64, error) {
	match := func(o *models.Order) bool {
		for _, f := range req.Filters {
			if f.Operator != types.CommonFilterOperatorEq || len(f.Values) == 0 {
				continue
			}
			want, _ := f.Values[0].(string)
			switch f.Field {
			case "user_id":
				if o.UserID != want {
					return false
				}
			case "status":
				if string(o.Status) != want {
					return false
				}
			}
		}
		return true
	}

	var out []*models.Order
	for _, o := range v.st.orders {
		if match(o) {
			cp := *o
			out = append(out, &cp)
		}
	}
	total := int64(len(out))
	if req.From > 0 && req.From < len(out) {
		out = out[req.From:]
	}
	if req.Size > 0 && req.Size < len(out) {
		out = out[:req.Size]
	}
	return out, total, nil
}

func (v *view) SettleOrder(_ context.Context, orderNo, paymentNo string, paidAt time.Time) (bool, error) {
	o, ok := v.st.orders[orderNo]
	if !ok || o.Status != types.OrderStatusPending {
		return false, nil
	}
	o.Status = types.OrderStatusPaid
	o.PaymentNo = &paymentNo
	o.PaidAt = &paidAt
	return true, nil
}

func (v *view) CancelOrder(_ context.Context, orderNo string) (bool, error) {
	o, ok := v.st.orders[orderNo]
	if !ok || o.Status != types.OrderStatusPending {
		return false, nil
	}
	o.Status = types.OrderStatusCancelled
	return true, nil
}

func (v *view) CreateInviteCodes(_ context.Context, codes []*models.InviteCode) error {
	for _, c := range codes {
		if _, ok := v.st.codes[c.Code]; ok {
			return store.ErrDuplicate
		}
	}
	for _, c := range codes {
		cp := *c
		v.st.codes[c.Code] = &cp
	}
	return nil
}

func (v *view) InviteCodeByCode(_ context.Context, code string) (*models.InviteCode, error) {
	c, ok := v.st.codes[strings.ToUpper(code)]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (v *view) ClaimInviteCode(_ context.Context, code, userID string, at time.Time) (bool, error) {
	c, ok := v.st.codes[strings.ToUpper(code)]
	if !ok || c.Used {
		return false, nil
	}
	c.Used = true
	c.UsedBy = &userID
	c.UsedAt = &at
	return true, nil
}

func (v *view) CreateNotificationLog(_ context.Context, l *models.GatewayNotificationLog) error {
	cp := *l
	v.st.logs = append(v.st.logs, &cp)
	return nil
}

// Transact on a view joins the enclosing transaction.
func (v *view) Transact(_ context.Context, fn func(tx store.Store) error) error {
	return fn(v)
}

// NotificationLogs returns a copy of the recorded callback audit entries.
func (m *Memory) NotificationLogs() []*models.GatewayNotificationLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.GatewayNotificationLog(nil), m.st.logs...)
}

var _ store.Store = (*Memory)(nil)
var _ store.Store = (*view)(nil)
