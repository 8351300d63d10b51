package invite

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	models "github.com/chenglongtech/membership/internal/models"
	"github.com/chenglongtech/membership/internal/store/storetest"
	"github.com/chenglongtech/membership/pkg/metrics"
	"github.com/chenglongtech/membership/pkg/tool"
	types "github.com/chenglongtech/membership/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testMetrics = metrics.New()

func newTestService() (*Service, *storetest.Memory) {
	st := storetest.NewMemory()
	return NewService(st, testMetrics, zap.NewNop().Sugar()), st
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

func seedCode(t *testing.T, st *storetest.Memory, code string, plan types.MembershipType, expiresAt *time.Time) *models.InviteCode {
	t.Helper()
	c := &models.InviteCode{
		ID:             tool.GenerateUUIDV7(),
		Code:           code,
		MembershipType: plan,
		ExpiresAt:      expiresAt,
		BatchID:        tool.GenerateUUIDV7(),
	}
	require.NoError(t, st.CreateInviteCodes(context.Background(), []*models.InviteCode{c}))
	return c
}

func ptr(t time.Time) *time.Time { return &t }

func TestValidateCode(t *testing.T) {
	svc, st := newTestService()
	seedCode(t, st, "WELCOME2026A", types.MembershipTypeMonthly, nil)
	seedCode(t, st, "EXPIREDCODEA", types.MembershipTypeMonthly, ptr(time.Now().Add(-time.Hour)))
	used := seedCode(t, st, "USEDCODE2026", types.MembershipTypeYearly, nil)
	_, err := st.ClaimInviteCode(context.Background(), used.Code, "someone", time.Now())
	require.NoError(t, err)

	tests := []struct {
		name    string
		code    string
		wantErr error
	}{
		{"valid", "WELCOME2026A", nil},
		{"valid lowercased input", "welcome2026a", nil},
		{"unknown", "NOSUCHCODE22", ErrCodeNotFound},
		{"expired", "EXPIREDCODEA", ErrCodeExpired},
		{"used", "USEDCODE2026", ErrCodeUsed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := svc.ValidateCode(context.Background(), tt.code)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "WELCOME2026A", info.Code)
			assert.Equal(t, types.MembershipTypeMonthly, info.MembershipType)
		})
	}
}

func TestRedeemCode_FreshActivation(t *testing.T) {
	svc, st := newTestService()
	a := seedAccount(t, st)
	seedCode(t, st, "WELCOME2026A", types.MembershipTypeMonthly, nil)

	res, err := svc.RedeemCode(context.Background(), a.ID, "welcome2026a")
	require.NoError(t, err)
	assert.False(t, res.IsRenewal)
	assert.Equal(t, types.MembershipTypeMonthly, res.Plan)
	assert.True(t, res.Membership.IsActive)
	require.NotNil(t, res.Membership.ExpiresAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 1, 0), *res.Membership.ExpiresAt, time.Minute)

	// Claim recorded against the redeemer.
	c, err := st.InviteCodeByCode(context.Background(), "WELCOME2026A")
	require.NoError(t, err)
	assert.True(t, c.Used)
	require.NotNil(t, c.UsedBy)
	assert.Equal(t, a.ID, *c.UsedBy)

	// Second redemption, any user, is rejected.
	_, err = svc.RedeemCode(context.Background(), a.ID, "WELCOME2026A")
	assert.ErrorIs(t, err, ErrCodeUsed)
}

func TestRedeemCode_RenewalExtendsFromExpiry(t *testing.T) {
	svc, st := newTestService()
	a := seedAccount(t, st)
	expiry := time.Now().Add(10 * 24 * time.Hour)
	a.MembershipType = types.MembershipTypeMonthly
	a.MembershipStatus = types.MembershipStatusActive
	a.MembershipExpiresAt = &expiry
	require.NoError(t, st.SaveAccount(context.Background(), a))

	seedCode(t, st, "YEARLYBONUSA", types.MembershipTypeYearly, nil)

	res, err := svc.RedeemCode(context.Background(), a.ID, "YEARLYBONUSA")
	require.NoError(t, err)
	assert.True(t, res.IsRenewal)
	assert.Equal(t, types.MembershipTypeYearly, res.Membership.Type)
	require.NotNil(t, res.Membership.ExpiresAt)
	assert.Equal(t, expiry.AddDate(1, 0, 0), *res.Membership.ExpiresAt)
}

func TestRedeemCode_ExpiredAndUnknown(t *testing.T) {
	svc, st := newTestService()
	a := seedAccount(t, st)
	seedCode(t, st, "EXPIREDCODEA", types.MembershipTypeMonthly, ptr(time.Now().Add(-time.Minute)))

	_, err := svc.RedeemCode(context.Background(), a.ID, "EXPIREDCODEA")
	assert.ErrorIs(t, err, ErrCodeExpired)

	_, err = svc.RedeemCode(context.Background(), a.ID, "NOSUCHCODE22")
	assert.ErrorIs(t, err, ErrCodeNotFound)

	// Neither attempt touched the account.
	saved, err := st.AccountByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MembershipStatusNone, saved.MembershipStatus)
}

func TestRedeemCode_ConcurrentOneWinner(t *testing.T) {
	svc, st := newTestService()
	seedCode(t, st, "CONTESTED123", types.MembershipTypeMonthly, nil)

	const workers = 16
	accounts := make([]*models.Account, workers)
	for i := range accounts {
		a := &models.Account{ID: tool.GenerateUUIDV7(), Email: tool.GenerateUUIDV7() + "@example.com"}
		require.NoError(t, st.CreateAccount(context.Background(), a))
		accounts[i] = a
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var winners, losers int
	for _, a := range accounts {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			_, err := svc.RedeemCode(context.Background(), userID, "CONTESTED123")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners++
			case errors.Is(err, ErrCodeUsed):
				losers++
			}
		}(a.ID)
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, workers-1, losers)
}

func TestRedeemCode_RollsBackClaimOnAccountFailure(t *testing.T) {
	svc, st := newTestService()
	a := seedAccount(t, st)
	seedCode(t, st, "WELCOME2026A", types.MembershipTypeMonthly, nil)

	st.SaveAccountHook = func(*models.Account) error { return errors.New("disk full") }
	_, err := svc.RedeemCode(context.Background(), a.ID, "WELCOME2026A")
	require.Error(t, err)
	st.SaveAccountHook = nil

	// The code was not burned; a retry succeeds.
	c, err := st.InviteCodeByCode(context.Background(), "WELCOME2026A")
	require.NoError(t, err)
	assert.False(t, c.Used)

	_, err = svc.RedeemCode(context.Background(), a.ID, "WELCOME2026A")
	require.NoError(t, err)
}

func TestBatchCreate(t *testing.T) {
	svc, st := newTestService()

	codes, err := svc.BatchCreate(context.Background(), types.MembershipTypeYearly, 5, nil)
	require.NoError(t, err)
	require.Len(t, codes, 5)

	format := regexp.MustCompile(`^[A-HJ-NP-Z2-9]{12}$`)
	seen := map[string]bool{}
	for _, c := range codes {
		assert.Regexp(t, format, c.Code)
		assert.Equal(t, types.MembershipTypeYearly, c.MembershipType)
		assert.Equal(t, codes[0].BatchID, c.BatchID)
		assert.False(t, seen[c.Code])
		seen[c.Code] = true

		// Codes are live immediately.
		_, err := st.InviteCodeByCode(context.Background(), c.Code)
		assert.NoError(t, err)
	}
}

func TestBatchCreate_Invalid(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.BatchCreate(context.Background(), types.MembershipTypeNone, 5, nil)
	assert.ErrorIs(t, err, ErrInvalidBatch)

	_, err = svc.BatchCreate(context.Background(), types.MembershipTypeMonthly, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidBatch)

	_, err = svc.BatchCreate(context.Background(), types.MembershipTypeMonthly, 100001, nil)
	assert.ErrorIs(t, err, ErrInvalidBatch)
}
