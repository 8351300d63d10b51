package app

import (
	"time"

	"github.com/chenglongtech/membership/internal/app/api/server"
	"github.com/chenglongtech/membership/internal/app/service/account"
	"github.com/chenglongtech/membership/internal/app/service/invite"
	"github.com/chenglongtech/membership/internal/app/service/notifylog"
	"github.com/chenglongtech/membership/internal/app/service/order"
	"github.com/chenglongtech/membership/internal/platform/alipay"
	"github.com/chenglongtech/membership/internal/platform/db"
	"github.com/chenglongtech/membership/internal/store"
	"github.com/chenglongtech/membership/pkg/config"
	"github.com/chenglongtech/membership/pkg/logger"
	"github.com/chenglongtech/membership/pkg/metrics"
	"github.com/chenglongtech/membership/pkg/token"

	"go.uber.org/fx"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	store.Module,
	metrics.Module,
	token.Module,
	alipay.Module,
	server.Module,
	account.Module,
	order.Module,
	invite.Module,
	notifylog.Module,
)
