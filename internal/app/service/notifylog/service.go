package notifylog

import (
	"context"

	"github.com/chenglongtech/membership/internal/models"
	"github.com/chenglongtech/membership/internal/store"
	"github.com/chenglongtech/membership/pkg/logctx"
	"github.com/chenglongtech/membership/pkg/tool"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Service persists the gateway callback audit trail. Saves are asynchronous:
// the audit log must never delay or fail the callback acknowledgement.
type Service struct {
	st  store.Store
	log *zap.SugaredLogger
}

func New(st store.Store, log *zap.SugaredLogger) *Service {
	return &Service{st: st, log: log}
}

// Save asynchronously persists a gateway notification log. Nil input is ignored.
func (s *Service) Save(ctx context.Context, l *models.GatewayNotificationLog) {
	if l == nil {
		return
	}
	if l.ID == "" {
		l.ID = tool.GenerateUUIDV7()
	}
	if tid, ok := ctx.Value("traceID").(string); ok {
		l.TraceID = tid
	}
	go func() {
		if err := s.st.CreateNotificationLog(context.Background(), l); err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save gateway notification log: %v", err)
		}
	}()
}

var Module = fx.Options(
	fx.Provide(New),
)
