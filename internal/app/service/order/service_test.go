package order

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chenglongtech/membership/internal/app/service/notifylog"
	models "github.com/chenglongtech/membership/internal/models"
	"github.com/chenglongtech/membership/internal/store/storetest"
	"github.com/chenglongtech/membership/pkg/config"
	"github.com/chenglongtech/membership/pkg/metrics"
	"github.com/chenglongtech/membership/pkg/tool"
	types "github.com/chenglongtech/membership/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// One registry per test binary; collectors register globally.
var testMetrics = metrics.New()

type stubGateway struct {
	configured  bool
	payURL      string
	payErr      error
	lastPagePay *PagePayRequest

	noti      *Notification
	decodeErr error
}

func (g *stubGateway) Configured() bool { return g.configured }

func (g *stubGateway) PagePayURL(req *PagePayRequest) (string, error) {
	g.lastPagePay = req
	return g.payURL, g.payErr
}

func (g *stubGateway) DecodeNotification(url.Values) (*Notification, error) {
	if g.decodeErr != nil {
		return nil, g.decodeErr
	}
	return g.noti, nil
}

func testConfig(env config.Env) *config.Config {
	return &config.Config{
		Env: env,
		Server: config.ServerConfig{
			BaseURL: "https://membership.example.com",
		},
		Pricing: config.PricingConfig{
			MonthlyFen: 1000,
			YearlyFen:  9900,
		},
	}
}

func newTestService(env config.Env, gw Gateway) (*Service, *storetest.Memory) {
	st := storetest.NewMemory()
	log := zap.NewNop().Sugar()
	if gw == nil {
		gw = &stubGateway{}
	}
	svc := NewService(testConfig(env), st, gw, notifylog.New(st, log), testMetrics, log)
	return svc, st
}

func seedAccount(t *testing.T, st *storetest.Memory) *models.Account {
	t.Helper()
	a := &models.Account{
		ID:               tool.GenerateUUIDV7(),
		Email:            "user@example.com",
		MembershipType:   types.MembershipTypeNone,
		MembershipStatus: types.MembershipStatusNone,
	}
	require.NoError(t, st.CreateAccount(context.Background(), a))
	return a
}

func TestCreateOrder(t *testing.T) {
	svc, st := newTestService(config.EnvDev, nil)
	a := seedAccount(t, st)

	o, err := svc.CreateOrder(context.Background(), a.ID, types.MembershipTypeMonthly)
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusPending, o.Status)
	assert.Equal(t, int64(1000), o.Amount)
	assert.Equal(t, types.MembershipTypeMonthly, o.Type)
	assert.Equal(t, types.PaymentMethodAlipay, o.PaymentMethod)
	assert.True(t, strings.HasPrefix(o.OrderNo, "ORD"))
	require.NotNil(t, o.ExpiresAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 1, 0), *o.ExpiresAt, time.Minute)

	y, err := svc.CreateOrder(context.Background(), a.ID, types.MembershipTypeYearly)
	require.NoError(t, err)
	assert.Equal(t, int64(9900), y.Amount)
}

func TestCreateOrder_InvalidPlan(t *testing.T) {
	svc, st := newTestService(config.EnvDev, nil)
	a := seedAccount(t, st)

	_, err := svc.CreateOrder(context.Background(), a.ID, types.MembershipType("weekly"))
	assert.ErrorIs(t, err, ErrInvalidPlan)

	_, err = svc.CreateOrder(context.Background(), a.ID, types.MembershipTypeNone)
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestCreateOrder_UnknownAccount(t *testing.T) {
	svc, _ := newTestService(config.EnvDev, nil)

	_, err := svc.CreateOrder(context.Background(), "nobody", types.MembershipTypeMonthly)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestFinalizePayment_DevBypass(t *testing.T) {
	svc, st := newTestService(config.EnvDev, nil)
	a := seedAccount(t, st)
	o, err := svc.CreateOrder(context.Background(), a.ID, types.MembershipTypeMonthly)
	require.NoError(t, err)

	res, err := svc.FinalizePayment(context.Background(), a.ID, o.OrderNo, "")
	require.NoError(t, err)
	assert.False(t, res.AlreadyPaid)
	assert.Equal(t, types.OrderStatusPaid, res.Order.Status)
	require.NotNil(t, res.Order.PaymentNo)
	assert.True(t, strings.HasPrefix(*res.Order.PaymentNo, "DEV"))
	assert.True(t, res.Membership.IsActive)
	assert.Equal(t, types.MembershipTypeMonthly, res.Membership.Type)
	require.NotNil(t, res.Membership.ExpiresAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 1, 0), *res.Membership.ExpiresAt, time.Minute)

	// The extension persisted.
	saved, err := st.AccountByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MembershipStatusActive, saved.MembershipStatus)
}

func TestFinalizePayment_ProdRequiresReference(t *testing.T) {
	svc, st := newTestService(config.EnvProd, nil)
	a := seedAccount(t, st)
	o, err := svc.CreateOrder(context.Background(), a.ID, types.MembershipTypeMonthly)
	require.NoError(t, err)

	_, err = svc.FinalizePayment(context.Background(), a.ID, o.OrderNo, "")
	assert.ErrorIs(t, err, ErrPaymentRefRequired)

	res, err := svc.FinalizePayment(context.Background(), a.ID, o.OrderNo, "2026082912345")
	require.NoError(t, err)
	assert.Equal(t, "2026082912345", *res.Order.PaymentNo)

	// A duplicate confirm of the settled order is an idempotent success even
	// without a reference; the requirement only applies while pending.
	again, err := svc.FinalizePayment(context.Background(), a.ID, o.OrderNo, "")
	require.NoError(t, err)
	assert.True(t, again.AlreadyPaid)
	assert.Equal(t, "2026082912345", *again.Order.PaymentNo)
}

func TestFinalizePayment_Idempotent(t *testing.T) {
	svc, st := newTestService(config.EnvDev, nil)
	a := seedAccount(t, st)
	o, err := svc.CreateOrder(context.Background(), a.ID, types.MembershipTypeMonthly)
	require.NoError(t, err)

	first, err := svc.FinalizePayment(context.Background(), a.ID, o.OrderNo, "")
	require.NoError(t, err)
	require.NotNil(t, first.Membership.ExpiresAt)

	second, err := svc.FinalizePayment(context.Background(), a.ID, o.OrderNo, "")
	require.NoError(t, err)
	assert.True(t, second.AlreadyPaid)

	// No double extension.
	saved, err := st.AccountByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, *first.Membership.ExpiresAt, *saved.MembershipExpiresAt)
}

func TestFinalizePayment_CancelledIsTerminal(t *testing.T) {
	svc, st := newTestService(config.EnvDev, nil)
	a := seedAccount(t, st)
	o, err := svc.CreateOrder(context.Background(), a.ID, types.MembershipTypeMonthly)
	require.NoError(t, err)

	_, err = svc.CancelOrder(context.Background(), a.ID, o.OrderNo)
	require.NoError(t, err)

	_, err = svc.FinalizePayment(context.Background(), a.ID, o.OrderNo, "")
	assert.ErrorIs(t, err, ErrOrderTerminal)

	saved, err := st.AccountByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MembershipStatusNone, saved.MembershipStatus)
}

func TestFinalizePayment_WrongOwner(t *testing.T) {
	svc, st := newTestService(config.EnvDev, nil)
	a := seedAccount(t, st)
	o, err := svc.CreateOrder(context.Background(), a.ID, types.MembershipTypeMonthly)
	require.NoError(t, err)

	_, err = svc.FinalizePayment(context.Background(), "someone-else", o.OrderNo, "")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestFinalizePayment_RollsBackOnAccountFailure(t *testing.T) {
	svc, st := newTestService(config.EnvDev, nil)
	a := seedAccount(t, st)
	o, err := svc.CreateOrder(context.Background(), a.ID, types.MembershipTypeMonthly)
	require.NoError(t, err)

	st.SaveAccountHook = func(*models.Account) error { return errors.New("disk full") }
	_, err = svc.FinalizePayment(context.Background(), a.ID, o.OrderNo, "")
	require.Error(t, err)
	st.SaveAccountHook = nil

	// The order settle rolled back with the membership write; the order is
	// still payable.
	saved, err := st.OrderByNo(context.Background(), o.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusPending, saved.Status)

	_, err = svc.FinalizePayment(context.Background(), a.ID, o.OrderNo, "")
	require.NoError(t, err)
}

func TestFinalizePayment_ConcurrentOneWinner(t *testing.T) {
	svc, st := newTestService(config.EnvDev, nil)
	a := seedAccount(t, st)
	o, err := svc.CreateOrder(context.Background(), a.ID, types.MembershipTypeMonthly)
	require.NoError(t, err)

	const workers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	var winners int
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.FinalizePayment(context.Background(), a.ID, o.OrderNo, "")
			if err == nil && !res.AlreadyPaid {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)

	// Membership was extended exactly once.
	saved, err := st.AccountByID(context.Background(), a.ID)
	require.NoError(t, err)
	require.NotNil(t, saved.MembershipExpiresAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 1, 0), *saved.MembershipExpiresAt, time.Minute)
}

func TestCancelOrder(t *testing.T) {
	svc, st := newTestService(config.EnvDev, nil)
	a := seedAccount(t, st)
	o, err := svc.CreateOrder(context.Background(), a.ID, types.MembershipTypeMonthly)
	require.NoError(t, err)

	cancelled, err := svc.CancelOrder(context.Background(), a.ID, o.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusCancelled, cancelled.Status)

	_, err = svc.CancelOrder(context.Background(), a.ID, o.OrderNo)
	assert.ErrorIs(t, err, ErrOrderTerminal)

	_, err = svc.CancelOrder(context.Background(), a.ID, "ORD00000000000000000")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCancelOrder_PaidIsTerminal(t *testing.T) {
	svc, st := newTestService(config.EnvDev, nil)
	a := seedAccount(t, st)
	o, err := svc.CreateOrder(context.Background(), a.ID, types.MembershipTypeMonthly)
	require.NoError(t, err)
	_, err = svc.FinalizePayment(context.Background(), a.ID, o.OrderNo, "")
	require.NoError(t, err)

	_, err = svc.CancelOrder(context.Background(), a.ID, o.OrderNo)
	assert.ErrorIs(t, err, ErrOrderTerminal)
}

func TestBuildPaymentForm(t *testing.T) {
	gw := &stubGateway{
		configured: true,
		payURL:     "https://openapi.alipay.com/gateway.do?biz=1",
	}
	svc, st := newTestService(config.EnvDev, gw)
	a := seedAccount(t, st)
	o, err := svc.CreateOrder(context.Background(), a.ID, types.MembershipTypeYearly)
	require.NoError(t, err)

	u, err := svc.BuildPaymentForm(context.Background(), a.ID, o.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, gw.payURL, u)

	require.NotNil(t, gw.lastPagePay)
	assert.Equal(t, o.OrderNo, gw.lastPagePay.OrderNo)
	assert.Equal(t, int64(9900), gw.lastPagePay.AmountFen)
	assert.Contains(t, gw.lastPagePay.Subject, "yearly")
	assert.Contains(t, gw.lastPagePay.NotifyURL, "/membership/alipay/notify")
	assert.Contains(t, gw.lastPagePay.ReturnURL, o.OrderNo)
}

func TestBuildPaymentForm_Unconfigured(t *testing.T) {
	svc, st := newTestService(config.EnvDev, &stubGateway{configured: false})
	a := seedAccount(t, st)
	o, err := svc.CreateOrder(context.Background(), a.ID, types.MembershipTypeMonthly)
	require.NoError(t, err)

	_, err = svc.BuildPaymentForm(context.Background(), a.ID, o.OrderNo)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestBuildPaymentForm_SettledOrder(t *testing.T) {
	svc, st := newTestService(config.EnvDev, &stubGateway{configured: true, payURL: "x"})
	a := seedAccount(t, st)
	o, err := svc.CreateOrder(context.Background(), a.ID, types.MembershipTypeMonthly)
	require.NoError(t, err)
	_, err = svc.FinalizePayment(context.Background(), a.ID, o.OrderNo, "")
	require.NoError(t, err)

	_, err = svc.BuildPaymentForm(context.Background(), a.ID, o.OrderNo)
	assert.ErrorIs(t, err, ErrOrderTerminal)
}

func TestListOrders(t *testing.T) {
	svc, st := newTestService(config.EnvDev, nil)
	a := seedAccount(t, st)
	other := &models.Account{ID: tool.GenerateUUIDV7(), Email: "other@example.com"}
	require.NoError(t, st.CreateAccount(context.Background(), other))

	_, err := svc.CreateOrder(context.Background(), a.ID, types.MembershipTypeMonthly)
	require.NoError(t, err)
	_, err = svc.CreateOrder(context.Background(), a.ID, types.MembershipTypeYearly)
	require.NoError(t, err)
	_, err = svc.CreateOrder(context.Background(), other.ID, types.MembershipTypeMonthly)
	require.NoError(t, err)

	orders, err := svc.ListOrders(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, a.ID, o.UserID)
	}
}
