package order

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	models "github.com/chenglongtech/membership/internal/models"
	"github.com/chenglongtech/membership/internal/store/storetest"
	"github.com/chenglongtech/membership/pkg/config"
	types "github.com/chenglongtech/membership/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notifyValues(orderNo string) url.Values {
	return url.Values{
		"out_trade_no": {orderNo},
		"trade_no":     {"2026082922001400001234567890"},
		"trade_status": {"TRADE_SUCCESS"},
		"total_amount": {"10.00"},
	}
}

// awaitLogs polls the asynchronously written audit trail until n entries
// exist.
func awaitLogs(t *testing.T, st *storetest.Memory, n int) []*models.GatewayNotificationLog {
	t.Helper()
	var logs []*models.GatewayNotificationLog
	require.Eventually(t, func() bool {
		logs = st.NotificationLogs()
		return len(logs) >= n
	}, time.Second, 5*time.Millisecond)
	return logs
}

func lastVerdict(t *testing.T, st *storetest.Memory) models.GatewayNotificationVerdict {
	t.Helper()
	logs := awaitLogs(t, st, 1)
	return logs[len(logs)-1].Verdict
}

func TestHandleGatewayCallback_Settles(t *testing.T) {
	gw := &stubGateway{configured: true}
	svc, st := newTestService(config.EnvProd, gw)
	a := seedAccount(t, st)
	o, err := svc.CreateOrder(context.Background(), a.ID, types.MembershipTypeMonthly)
	require.NoError(t, err)

	gw.noti = &Notification{
		OutTradeNo:  o.OrderNo,
		TradeNo:     "2026082922001400001234567890",
		TotalAmount: "10.00",
		TradeStatus: types.TradeStatusSuccess,
	}

	ack := svc.HandleGatewayCallback(context.Background(), notifyValues(o.OrderNo))
	assert.Equal(t, AckSuccess, ack)

	saved, err := st.OrderByNo(context.Background(), o.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusPaid, saved.Status)
	require.NotNil(t, saved.PaymentNo)
	assert.Equal(t, gw.noti.TradeNo, *saved.PaymentNo)

	acc, err := st.AccountByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MembershipStatusActive, acc.MembershipStatus)

	assert.Equal(t, models.GatewayNotificationVerdictAccepted, lastVerdict(t, st))
}

func TestHandleGatewayCallback_BadSignature(t *testing.T) {
	gw := &stubGateway{configured: true, decodeErr: errors.New("sign verification failed")}
	svc, st := newTestService(config.EnvProd, gw)
	a := seedAccount(t, st)
	o, err := svc.CreateOrder(context.Background(), a.ID, types.MembershipTypeMonthly)
	require.NoError(t, err)

	ack := svc.HandleGatewayCallback(context.Background(), notifyValues(o.OrderNo))
	assert.Equal(t, AckFail, ack)

	saved, err := st.OrderByNo(context.Background(), o.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusPending, saved.Status)

	assert.Equal(t, models.GatewayNotificationVerdictSignatureInvalid, lastVerdict(t, st))
}

func TestHandleGatewayCallback_AmountMismatch(t *testing.T) {
	gw := &stubGateway{configured: true}
	svc, st := newTestService(config.EnvProd, gw)
	a := seedAccount(t, st)
	o, err := svc.CreateOrder(context.Background(), a.ID, types.MembershipTypeMonthly)
	require.NoError(t, err)

	gw.noti = &Notification{
		OutTradeNo:  o.OrderNo,
		TradeNo:     "trade-1",
		TotalAmount: "0.01",
		TradeStatus: types.TradeStatusSuccess,
	}

	ack := svc.HandleGatewayCallback(context.Background(), notifyValues(o.OrderNo))
	assert.Equal(t, AckFail, ack)

	// Nothing settled, nothing extended.
	saved, err := st.OrderByNo(context.Background(), o.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusPending, saved.Status)
	acc, err := st.AccountByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MembershipStatusNone, acc.MembershipStatus)

	assert.Equal(t, models.GatewayNotificationVerdictAmountMismatch, lastVerdict(t, st))
}

func TestHandleGatewayCallback_UnknownOrder(t *testing.T) {
	gw := &stubGateway{configured: true, noti: &Notification{
		OutTradeNo:  "ORD17000000000000000",
		TradeNo:     "trade-1",
		TotalAmount: "10.00",
		TradeStatus: types.TradeStatusSuccess,
	}}
	svc, st := newTestService(config.EnvProd, gw)

	ack := svc.HandleGatewayCallback(context.Background(), notifyValues("ORD17000000000000000"))
	assert.Equal(t, AckFail, ack)
	assert.Equal(t, models.GatewayNotificationVerdictOrderNotFound, lastVerdict(t, st))
}

func TestHandleGatewayCallback_ClosedTradeIgnored(t *testing.T) {
	gw := &stubGateway{configured: true}
	svc, st := newTestService(config.EnvProd, gw)
	a := seedAccount(t, st)
	o, err := svc.CreateOrder(context.Background(), a.ID, types.MembershipTypeMonthly)
	require.NoError(t, err)

	gw.noti = &Notification{
		OutTradeNo:  o.OrderNo,
		TradeNo:     "trade-1",
		TotalAmount: "10.00",
		TradeStatus: types.TradeStatusClosed,
	}

	// Acknowledged so the gateway stops redelivering, but nothing changes.
	ack := svc.HandleGatewayCallback(context.Background(), notifyValues(o.OrderNo))
	assert.Equal(t, AckSuccess, ack)

	saved, err := st.OrderByNo(context.Background(), o.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusPending, saved.Status)
	acc, err := st.AccountByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MembershipStatusNone, acc.MembershipStatus)

	assert.Equal(t, models.GatewayNotificationVerdictIgnored, lastVerdict(t, st))
}

func TestHandleGatewayCallback_Redelivery(t *testing.T) {
	gw := &stubGateway{configured: true}
	svc, st := newTestService(config.EnvProd, gw)
	a := seedAccount(t, st)
	o, err := svc.CreateOrder(context.Background(), a.ID, types.MembershipTypeMonthly)
	require.NoError(t, err)

	gw.noti = &Notification{
		OutTradeNo:  o.OrderNo,
		TradeNo:     "trade-1",
		TotalAmount: "10.00",
		TradeStatus: types.TradeStatusSuccess,
	}

	require.Equal(t, AckSuccess, svc.HandleGatewayCallback(context.Background(), notifyValues(o.OrderNo)))
	awaitLogs(t, st, 1)

	first, err := st.AccountByID(context.Background(), a.ID)
	require.NoError(t, err)
	require.NotNil(t, first.MembershipExpiresAt)
	want := *first.MembershipExpiresAt

	// Gateways redeliver; the duplicate is acknowledged without a second
	// extension.
	assert.Equal(t, AckSuccess, svc.HandleGatewayCallback(context.Background(), notifyValues(o.OrderNo)))

	again, err := st.AccountByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, want, *again.MembershipExpiresAt)

	assert.Equal(t, models.GatewayNotificationVerdictDuplicate, awaitLogs(t, st, 2)[1].Verdict)
}

func TestHandleGatewayCallback_FinishedAlsoSettles(t *testing.T) {
	gw := &stubGateway{configured: true}
	svc, st := newTestService(config.EnvProd, gw)
	a := seedAccount(t, st)
	o, err := svc.CreateOrder(context.Background(), a.ID, types.MembershipTypeYearly)
	require.NoError(t, err)

	gw.noti = &Notification{
		OutTradeNo:  o.OrderNo,
		TradeNo:     "trade-1",
		TotalAmount: "99.00",
		TradeStatus: types.TradeStatusFinished,
	}

	assert.Equal(t, AckSuccess, svc.HandleGatewayCallback(context.Background(), notifyValues(o.OrderNo)))

	saved, err := st.OrderByNo(context.Background(), o.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusPaid, saved.Status)
}
