package order

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/chenglongtech/membership/internal/app/service/membership"
	"github.com/chenglongtech/membership/internal/app/service/notifylog"
	models "github.com/chenglongtech/membership/internal/models"
	"github.com/chenglongtech/membership/internal/store"
	"github.com/chenglongtech/membership/pkg/config"
	"github.com/chenglongtech/membership/pkg/logctx"
	"github.com/chenglongtech/membership/pkg/metrics"
	"github.com/chenglongtech/membership/pkg/tool"
	types "github.com/chenglongtech/membership/pkg/types"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// settle sources for metrics.
const (
	settleSourceDirect  = "direct"
	settleSourceGateway = "gateway"
)

const orderNoRetries = 3

type Service struct {
	cfg  *config.Config
	st   store.Store
	gw   Gateway
	nlog *notifylog.Service
	mts  *metrics.Metrics
	log  *zap.SugaredLogger
}

func NewService(cfg *config.Config, st store.Store, gw Gateway, nlog *notifylog.Service, mts *metrics.Metrics, log *zap.SugaredLogger) *Service {
	return &Service{cfg: cfg, st: st, gw: gw, nlog: nlog, mts: mts, log: log}
}

// SettleResult is the outcome of a finalize, direct or callback-driven.
type SettleResult struct {
	Order      *models.Order
	Membership membership.Info
	// AlreadyPaid marks an idempotent no-op: the order had settled before
	// this call and membership was not touched again.
	AlreadyPaid bool
}

// CreateOrder creates a pending order for one membership grant. The stored
// expiry is a prospective snapshot computed against the account's current
// state; the authoritative expiry is recomputed when the order settles.
func (s *Service) CreateOrder(ctx context.Context, userID string, plan types.MembershipType) (*models.Order, error) {
	if !plan.Valid() {
		return nil, ErrInvalidPlan
	}

	a, err := s.st.AccountByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	amount, err := s.cfg.Pricing.AmountFor(plan)
	if err != nil {
		return nil, ErrInvalidPlan
	}

	now := time.Now()
	prospective := membership.Extend(membership.SnapshotOf(a), plan, now)

	o := &models.Order{
		UserID:        userID,
		Type:          plan,
		Amount:        amount,
		Status:        types.OrderStatusPending,
		PaymentMethod: types.PaymentMethodAlipay,
		ExpiresAt:     prospective.ExpiresAt,
	}

	// Order numbers are generated up front and never regenerated for an
	// existing order; a collision gets a fresh number on a fresh attempt.
	for attempt := 0; attempt < orderNoRetries; attempt++ {
		o.ID = tool.GenerateUUIDV7()
		o.OrderNo = tool.GenerateOrderNo()
		err = s.st.CreateOrder(ctx, o)
		if err == nil {
			s.mts.OrdersCreated.WithLabelValues(string(plan)).Inc()
			logctx.FromCtx(ctx, s.log).Infow("order created",
				"order_no", o.OrderNo, "user_id", userID, "plan", plan, "amount", amount)
			return o, nil
		}
		if !errors.Is(err, store.ErrDuplicate) {
			return nil, fmt.Errorf("failed to create order: %w", err)
		}
	}
	return nil, ErrOrderNoConflict
}

// GetOrder returns an order owned by userID.
func (s *Service) GetOrder(ctx context.Context, userID, orderNo string) (*models.Order, error) {
	o, err := s.st.UserOrderByNo(ctx, userID, orderNo)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// ListOrders returns the user's orders, newest first.
func (s *Service) ListOrders(ctx context.Context, userID string) ([]*models.Order, error) {
	return s.st.ListUserOrders(ctx, userID)
}

// ScanOrders is the filtered admin listing.
func (s *Service) ScanOrders(ctx context.Context, req *store.ScanOrdersRequest) ([]*models.Order, int64, error) {
	if req == nil {
		return nil, 0, fmt.Errorf("nil request")
	}
	return s.st.ScanOrders(ctx, req)
}

// CancelOrder moves a pending order to cancelled.
func (s *Service) CancelOrder(ctx context.Context, userID, orderNo string) (*models.Order, error) {
	var out *models.Order
	err := s.st.Transact(ctx, func(tx store.Store) error {
		o, err := tx.UserOrderByNo(ctx, userID, orderNo)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if o.Status != types.OrderStatusPending {
			return ErrOrderTerminal
		}
		ok, err := tx.CancelOrder(ctx, orderNo)
		if err != nil {
			return err
		}
		if !ok {
			return ErrOrderTerminal
		}
		o.Status = types.OrderStatusCancelled
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BuildPaymentForm returns the gateway redirect URL for a pending order.
func (s *Service) BuildPaymentForm(ctx context.Context, userID, orderNo string) (string, error) {
	if !s.gw.Configured() {
		return "", ErrGatewayUnavailable
	}
	o, err := s.GetOrder(ctx, userID, orderNo)
	if err != nil {
		return "", err
	}
	if o.Status != types.OrderStatusPending {
		return "", ErrOrderTerminal
	}

	subject := "Chenglong Tech monthly membership"
	body := "Monthly membership subscription"
	if o.Type == types.MembershipTypeYearly {
		subject = "Chenglong Tech yearly membership"
		body = "Yearly membership subscription"
	}

	base := s.cfg.Server.BaseURL
	payURL, err := s.gw.PagePayURL(&PagePayRequest{
		OrderNo:   o.OrderNo,
		AmountFen: o.Amount,
		Subject:   subject,
		Body:      body,
		ReturnURL: fmt.Sprintf("%s/membership/success?orderNo=%s", base, o.OrderNo),
		NotifyURL: fmt.Sprintf("%s/api/v1/membership/alipay/notify", base),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	return payURL, nil
}

// FinalizePayment settles an order from the direct confirm path and extends
// the owner's membership. Finalizing an already-paid order is an idempotent
// success regardless of request shape, so the reference requirement is only
// enforced once the order is known to still be pending. Without a gateway
// reference, a DEV-prefixed payment number is minted, dev mode only.
func (s *Service) FinalizePayment(ctx context.Context, userID, orderNo, paymentNo string) (*SettleResult, error) {
	var res *SettleResult
	err := s.st.Transact(ctx, func(tx store.Store) error {
		o, err := tx.UserOrderByNo(ctx, userID, orderNo)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if o.Status == types.OrderStatusPending && paymentNo == "" {
			if !s.cfg.DevPayEnabled() {
				return ErrPaymentRefRequired
			}
			paymentNo = tool.GenerateDevPaymentNo()
		}
		res, err = s.settleAndExtend(ctx, tx, o, paymentNo, settleSourceDirect)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// settleAndExtend performs the shared settle sequence inside an open
// transaction: compare-and-set the order to paid, then extend the owner's
// membership from its live, locked snapshot. Both writes commit or roll back
// together.
func (s *Service) settleAndExtend(ctx context.Context, tx store.Store, o *models.Order, paymentNo, source string) (*SettleResult, error) {
	now := time.Now()

	idempotent := func(paid *models.Order) (*SettleResult, error) {
		a, err := tx.AccountByID(ctx, paid.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to load account: %w", err)
		}
		return &SettleResult{Order: paid, Membership: membership.InfoOf(a, now), AlreadyPaid: true}, nil
	}

	switch o.Status {
	case types.OrderStatusPaid:
		return idempotent(o)
	case types.OrderStatusCancelled, types.OrderStatusFailed:
		return nil, ErrOrderTerminal
	}

	claimed, err := tx.SettleOrder(ctx, o.OrderNo, paymentNo, now)
	if err != nil {
		return nil, fmt.Errorf("failed to settle order: %w", err)
	}
	if !claimed {
		// The other settle path won between our read and the compare-and-set.
		fresh, err := tx.OrderByNo(ctx, o.OrderNo)
		if err != nil {
			return nil, err
		}
		if fresh.Status == types.OrderStatusPaid {
			return idempotent(fresh)
		}
		return nil, ErrOrderTerminal
	}

	a, err := tx.AccountByIDForUpdate(ctx, o.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	// Extension uses the live account state, not the snapshot taken at order
	// creation: membership may have changed since.
	membership.Apply(a, o.Type, now)
	if err := tx.SaveAccount(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to extend membership: %w", err)
	}

	o.Status = types.OrderStatusPaid
	o.PaymentNo = &paymentNo
	o.PaidAt = &now

	s.mts.PaymentsSettled.WithLabelValues(string(o.Type), source).Inc()
	logctx.FromCtx(ctx, s.log).Infow("order settled",
		"order_no", o.OrderNo, "user_id", o.UserID, "plan", o.Type, "source", source)

	return &SettleResult{Order: o, Membership: membership.InfoOf(a, now)}, nil
}

// Ack tokens for the gateway callback. The callback path never returns
// structured errors, only these two literals.
const (
	AckSuccess = "success"
	AckFail    = "fail"
)

// HandleGatewayCallback verifies and settles an asynchronous gateway
// notification, returning the literal acknowledgement for the gateway.
// Settled statuses drive the same settle-and-extend sequence as the direct
// path; recognized non-settled terminal statuses are acknowledged without
// touching membership so the gateway stops redelivering. Every notification
// is recorded for operator review.
func (s *Service) HandleGatewayCallback(ctx context.Context, values url.Values) string {
	lg := logctx.FromCtx(ctx, s.log)

	audit := &models.GatewayNotificationLog{
		OrderNo: values.Get("out_trade_no"),
		TradeNo: values.Get("trade_no"),
		Params:  paramsMap(values),
	}

	noti, err := s.gw.DecodeNotification(values)
	if err != nil {
		lg.Errorw("gateway callback signature verification failed", "err", err)
		s.mts.CallbacksRejected.WithLabelValues("signature").Inc()
		audit.Verdict = models.GatewayNotificationVerdictSignatureInvalid
		s.nlog.Save(ctx, audit)
		return AckFail
	}
	audit.OrderNo = noti.OutTradeNo
	audit.TradeNo = noti.TradeNo
	audit.TradeStatus = string(noti.TradeStatus)

	if !noti.TradeStatus.Settled() {
		// TRADE_CLOSED and friends: ack to stop redelivery, mutate nothing.
		audit.Verdict = models.GatewayNotificationVerdictIgnored
		s.nlog.Save(ctx, audit)
		return AckSuccess
	}

	var duplicate bool
	err = s.st.Transact(ctx, func(tx store.Store) error {
		o, err := tx.OrderByNo(ctx, noti.OutTradeNo)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		// Unit-exact comparison of the gateway's major-unit decimal string
		// against the recorded fen amount.
		if noti.TotalAmount != tool.FormatFenAsYuan(o.Amount) {
			return ErrAmountMismatch
		}
		res, err := s.settleAndExtend(ctx, tx, o, noti.TradeNo, settleSourceGateway)
		if err != nil {
			return err
		}
		duplicate = res.AlreadyPaid
		return nil
	})

	switch {
	case err == nil && duplicate:
		audit.Verdict = models.GatewayNotificationVerdictDuplicate
	case err == nil:
		audit.Verdict = models.GatewayNotificationVerdictAccepted
	case errors.Is(err, ErrAmountMismatch):
		lg.Errorw("gateway callback amount mismatch",
			"order_no", noti.OutTradeNo, "settled_amount", noti.TotalAmount)
		s.mts.CallbacksRejected.WithLabelValues("amount").Inc()
		audit.Verdict = models.GatewayNotificationVerdictAmountMismatch
	case errors.Is(err, ErrOrderNotFound):
		lg.Errorw("gateway callback for unknown order", "order_no", noti.OutTradeNo)
		s.mts.CallbacksRejected.WithLabelValues("order_not_found").Inc()
		audit.Verdict = models.GatewayNotificationVerdictOrderNotFound
	default:
		lg.Errorw("gateway callback handling failed", "order_no", noti.OutTradeNo, "err", err)
		s.mts.CallbacksRejected.WithLabelValues("internal").Inc()
		audit.Verdict = models.GatewayNotificationVerdictHandleFailed
	}
	s.nlog.Save(ctx, audit)

	if err != nil {
		return AckFail
	}
	return AckSuccess
}

func paramsMap(values url.Values) datatypes.JSONMap {
	m := datatypes.JSONMap{}
	for k := range values {
		m[k] = values.Get(k)
	}
	return m
}
