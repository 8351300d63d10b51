package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/chenglongtech/membership/docs"
	"github.com/chenglongtech/membership/internal/app/api/handlers"
	"github.com/chenglongtech/membership/internal/app/service/account"
	"github.com/chenglongtech/membership/internal/app/service/invite"
	"github.com/chenglongtech/membership/internal/app/service/order"
	cfgpkg "github.com/chenglongtech/membership/pkg/config"

	mw "github.com/chenglongtech/membership/internal/app/api/middleware"

	metrics "github.com/chenglongtech/membership/pkg/metrics"
	"github.com/chenglongtech/membership/pkg/token"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

func registerRoutes(r *gin.Engine, log *zap.SugaredLogger, cfg *cfgpkg.Config, mts *metrics.Metrics, tokens token.Maker, accounts *account.Service, orders *order.Service, codes *invite.Service) {
	// Prometheus metrics on a dedicated listener
	if cfg.MetricsAddr != "" {
		r.Use(mts.Middleware())
		mts.Serve(cfg.MetricsAddr, log)
		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}

	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())

	authed := apiV1.Group("/")
	authed.Use(mw.AuthMiddleware(tokens))

	handlers.RegisterAuthRoutes(apiV1, authed, accounts)
	handlers.RegisterMembershipRoutes(apiV1, authed, accounts, codes)
	handlers.RegisterOrderRoutes(authed, orders)

	// Gateway callback: verified by signature, never by bearer token.
	handlers.RegisterGatewayRoutes(apiV1, orders)

	admin := apiV1.Group("/admin")
	admin.Use(mw.AdminKeyMiddleware(cfg.Admin.APIKey))
	handlers.RegisterAdminRoutes(admin, codes, orders)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
