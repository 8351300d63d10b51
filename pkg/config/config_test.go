package config

import (
	"testing"

	"github.com/chenglongtech/membership/pkg/types"

	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	require.Equal(t, EnvDev, cfg.Env)
	require.True(t, cfg.DevPayEnabled())
	require.Equal(t, int64(1000), cfg.Pricing.MonthlyFen)
	require.Equal(t, int64(9900), cfg.Pricing.YearlyFen)
	require.NotEmpty(t, cfg.Database.DSN)
}

func TestPricing_AmountFor(t *testing.T) {
	p := PricingConfig{MonthlyFen: 1000, YearlyFen: 9900}

	monthly, err := p.AmountFor(types.MembershipTypeMonthly)
	require.NoError(t, err)
	require.Equal(t, int64(1000), monthly)

	yearly, err := p.AmountFor(types.MembershipTypeYearly)
	require.NoError(t, err)
	require.Equal(t, int64(9900), yearly)

	_, err = p.AmountFor(types.MembershipTypeNone)
	require.Error(t, err)
}

func TestAlipayConfig_Configured(t *testing.T) {
	require.False(t, AlipayConfig{}.Configured())
	require.False(t, AlipayConfig{AppID: "app"}.Configured())
	require.True(t, AlipayConfig{AppID: "app", PrivateKey: "key"}.Configured())
}
