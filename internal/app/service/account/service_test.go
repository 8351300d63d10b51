package account

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/chenglongtech/membership/internal/app/service/invite"
	models "github.com/chenglongtech/membership/internal/models"
	"github.com/chenglongtech/membership/internal/store/storetest"
	"github.com/chenglongtech/membership/pkg/config"
	"github.com/chenglongtech/membership/pkg/metrics"
	"github.com/chenglongtech/membership/pkg/token"
	"github.com/chenglongtech/membership/pkg/tool"
	types "github.com/chenglongtech/membership/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testMetrics = metrics.New()

func newTestService(t *testing.T) (*Service, *storetest.Memory, token.Maker) {
	t.Helper()
	st := storetest.NewMemory()
	maker := token.NewMaker(&config.Config{JWT: config.JWTConfig{
		Secret: "test-secret-test-secret-test",
		TTL:    time.Hour,
	}})
	return NewService(st, maker, zap.NewNop().Sugar()), st, maker
}

func register(t *testing.T, svc *Service) *AuthResult {
	t.Helper()
	res, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "User@Example.com",
		Password: "hunter22",
		Name:     "Test User",
	})
	require.NoError(t, err)
	return res
}

func TestRegister(t *testing.T) {
	svc, st, maker := newTestService(t)

	res := register(t, svc)
	assert.Equal(t, "user@example.com", res.Account.Email)
	assert.Equal(t, "Test User", res.Account.Name)
	assert.NotEqual(t, "hunter22", res.Account.PasswordHash)
	assert.Equal(t, types.MembershipTypeNone, res.Account.MembershipType)

	claims, err := maker.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.Account.ID, claims.UserID)

	saved, err := st.AccountByEmail(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, res.Account.ID, saved.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	register(t, svc)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "user@example.com",
		Password: "different8",
		Name:     "Imposter",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_WeakPassword(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "user@example.com",
		Password: "short",
		Name:     "Test User",
	})
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestLogin(t *testing.T) {
	svc, st, _ := newTestService(t)
	reg := register(t, svc)

	res, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "user@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, reg.Account.ID, res.Account.ID)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, int64(1), res.Account.LoginCount)
	assert.NotNil(t, res.Account.LastLoginAt)

	_, err = svc.Login(context.Background(), &LoginRequest{Email: "user@example.com", Password: "hunter22"})
	require.NoError(t, err)
	saved, err := st.AccountByID(context.Background(), reg.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), saved.LoginCount)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _, _ := newTestService(t)
	register(t, svc)

	// Wrong password and unknown email produce the same message.
	_, err := svc.Login(context.Background(), &LoginRequest{Email: "user@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &LoginRequest{Email: "nobody@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_LazyExpiresStaleMembership(t *testing.T) {
	svc, st, _ := newTestService(t)
	reg := register(t, svc)

	expired := time.Now().Add(-24 * time.Hour)
	a, err := st.AccountByID(context.Background(), reg.Account.ID)
	require.NoError(t, err)
	a.MembershipType = types.MembershipTypeMonthly
	a.MembershipStatus = types.MembershipStatusActive
	a.MembershipExpiresAt = &expired
	require.NoError(t, st.SaveAccount(context.Background(), a))

	res, err := svc.Login(context.Background(), &LoginRequest{Email: "user@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, types.MembershipStatusExpired, res.Account.MembershipStatus)

	saved, err := st.AccountByID(context.Background(), reg.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MembershipStatusExpired, saved.MembershipStatus)
}

func TestProfile(t *testing.T) {
	svc, _, _ := newTestService(t)
	reg := register(t, svc)

	a, err := svc.Profile(context.Background(), reg.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, reg.Account.Email, a.Email)

	_, err = svc.Profile(context.Background(), tool.GenerateUUIDV7())
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestGetStatus(t *testing.T) {
	svc, st, _ := newTestService(t)
	reg := register(t, svc)

	// Fresh account: nothing to report.
	info, err := svc.GetStatus(context.Background(), reg.Account.ID)
	require.NoError(t, err)
	assert.False(t, info.IsActive)

	// Active membership reports in force.
	future := time.Now().Add(24 * time.Hour)
	a, err := st.AccountByID(context.Background(), reg.Account.ID)
	require.NoError(t, err)
	a.MembershipType = types.MembershipTypeYearly
	a.MembershipStatus = types.MembershipStatusActive
	a.MembershipExpiresAt = &future
	require.NoError(t, st.SaveAccount(context.Background(), a))

	info, err = svc.GetStatus(context.Background(), reg.Account.ID)
	require.NoError(t, err)
	assert.True(t, info.IsActive)
	assert.Equal(t, types.MembershipTypeYearly, info.Type)

	_, err = svc.GetStatus(context.Background(), tool.GenerateUUIDV7())
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestGetStatus_LazyExpiryPersists(t *testing.T) {
	svc, st, _ := newTestService(t)
	reg := register(t, svc)

	expired := time.Now().Add(-time.Minute)
	a, err := st.AccountByID(context.Background(), reg.Account.ID)
	require.NoError(t, err)
	a.MembershipType = types.MembershipTypeMonthly
	a.MembershipStatus = types.MembershipStatusActive
	a.MembershipExpiresAt = &expired
	require.NoError(t, st.SaveAccount(context.Background(), a))

	info, err := svc.GetStatus(context.Background(), reg.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MembershipStatusExpired, info.Status)
	assert.False(t, info.IsActive)
	// The expiry timestamp is kept for display; only the status flips.
	require.NotNil(t, info.ExpiresAt)

	saved, err := st.AccountByID(context.Background(), reg.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MembershipStatusExpired, saved.MembershipStatus)
}

// A status read racing a redemption must never leave an extended account
// downgraded: whichever side commits first, the persisted state ends active
// with the extended expiry.
func TestGetStatus_ConcurrentExtensionStaysActive(t *testing.T) {
	svc, st, _ := newTestService(t)
	codes := invite.NewService(st, testMetrics, zap.NewNop().Sugar())
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		res, err := svc.Register(ctx, &RegisterRequest{
			Email:    fmt.Sprintf("user%d@example.com", i),
			Password: "hunter22",
			Name:     "Test User",
		})
		require.NoError(t, err)
		id := res.Account.ID

		// Seed a stale-active account: still marked active but past expiry.
		stale := time.Now().Add(-time.Hour)
		a, err := st.AccountByID(ctx, id)
		require.NoError(t, err)
		a.MembershipType = types.MembershipTypeMonthly
		a.MembershipStatus = types.MembershipStatusActive
		a.MembershipExpiresAt = &stale
		require.NoError(t, st.SaveAccount(ctx, a))

		code := fmt.Sprintf("RACE%04d", i)
		require.NoError(t, st.CreateInviteCodes(ctx, []*models.InviteCode{{
			ID:             tool.GenerateUUIDV7(),
			Code:           code,
			MembershipType: types.MembershipTypeMonthly,
			BatchID:        tool.GenerateUUIDV7(),
		}}))

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, gerr := svc.GetStatus(ctx, id)
			assert.NoError(t, gerr)
		}()
		go func() {
			defer wg.Done()
			_, rerr := codes.RedeemCode(ctx, id, code)
			assert.NoError(t, rerr)
		}()
		wg.Wait()

		saved, err := st.AccountByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, types.MembershipStatusActive, saved.MembershipStatus)
		require.NotNil(t, saved.MembershipExpiresAt)
		assert.WithinDuration(t, time.Now().AddDate(0, 1, 0), *saved.MembershipExpiresAt, time.Minute)

		info, err := svc.GetStatus(ctx, id)
		require.NoError(t, err)
		assert.True(t, info.IsActive)
	}
}
