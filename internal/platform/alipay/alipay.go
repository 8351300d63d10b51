// Package alipay adapts the Alipay open-platform SDK to the order engine's
// gateway contract.
package alipay

import (
	"fmt"
	"net/url"

	"github.com/smartwalle/alipay/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/chenglongtech/membership/internal/app/service/order"
	cfgpkg "github.com/chenglongtech/membership/pkg/config"
	"github.com/chenglongtech/membership/pkg/tool"
	types "github.com/chenglongtech/membership/pkg/types"
)

type gateway struct {
	client *alipay.Client
	log    *zap.SugaredLogger
}

// New builds the gateway from config. Missing credentials yield an
// unconfigured gateway rather than a startup failure, so the service can run
// (dev bypass, invite codes) without Alipay keys; bad credentials are still a
// startup failure.
func New(cfg *cfgpkg.Config, log *zap.SugaredLogger) (order.Gateway, error) {
	if !cfg.Alipay.Configured() {
		log.Warnw("alipay gateway not configured, page pay disabled")
		return &gateway{log: log}, nil
	}

	client, err := alipay.New(cfg.Alipay.AppID, cfg.Alipay.PrivateKey, cfg.Alipay.IsProd)
	if err != nil {
		return nil, fmt.Errorf("failed to init alipay client: %w", err)
	}
	if cfg.Alipay.AlipayPublicKey != "" {
		if err := client.LoadAliPayPublicKey(cfg.Alipay.AlipayPublicKey); err != nil {
			return nil, fmt.Errorf("failed to load alipay public key: %w", err)
		}
	}
	return &gateway{client: client, log: log}, nil
}

func (g *gateway) Configured() bool {
	return g.client != nil
}

func (g *gateway) PagePayURL(req *order.PagePayRequest) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("alipay client not configured")
	}

	p := alipay.TradePagePay{}
	p.OutTradeNo = req.OrderNo
	p.TotalAmount = tool.FormatFenAsYuan(req.AmountFen)
	p.Subject = req.Subject
	p.Body = req.Body
	p.ProductCode = "FAST_INSTANT_TRADE_PAY"
	p.ReturnURL = req.ReturnURL
	p.NotifyURL = req.NotifyURL

	u, err := g.client.TradePagePay(p)
	if err != nil {
		return "", fmt.Errorf("failed to build page pay url: %w", err)
	}
	return u.String(), nil
}

// DecodeNotification verifies the callback signature and maps the SDK's
// notification onto the engine's shape.
func (g *gateway) DecodeNotification(values url.Values) (*order.Notification, error) {
	if g.client == nil {
		return nil, fmt.Errorf("alipay client not configured")
	}

	n, err := g.client.DecodeNotification(values)
	if err != nil {
		return nil, fmt.Errorf("failed to verify notification: %w", err)
	}
	return &order.Notification{
		OutTradeNo:  n.OutTradeNo,
		TradeNo:     n.TradeNo,
		TotalAmount: n.TotalAmount,
		TradeStatus: types.TradeStatus(n.TradeStatus),
	}, nil
}

var Module = fx.Options(
	fx.Provide(New),
)
