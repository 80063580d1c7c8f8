package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/rentledger/internal/backup"
	billdomain "github.com/smallbiznis/rentledger/internal/bill/domain"
	"github.com/smallbiznis/rentledger/internal/bus"
	"github.com/smallbiznis/rentledger/internal/config"
	meternamedomain "github.com/smallbiznis/rentledger/internal/metername/domain"
	pricedomain "github.com/smallbiznis/rentledger/internal/price/domain"
	recalcdomain "github.com/smallbiznis/rentledger/internal/recalc/domain"
	tenantdomain "github.com/smallbiznis/rentledger/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config, log *zap.Logger) *gin.Engine {
	return NewEngine(cfg, log)
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	log          *zap.Logger
	tenantSvc    tenantdomain.Service
	priceSvc     pricedomain.Service
	billSvc      billdomain.Service
	meterNameSvc meternamedomain.Service
	recalcSvc    recalcdomain.Service
	backupSvc    *backup.Service
	bus          *bus.Bus
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Log          *zap.Logger
	TenantSvc    tenantdomain.Service
	PriceSvc     pricedomain.Service
	BillSvc      billdomain.Service
	MeterNameSvc meternamedomain.Service
	RecalcSvc    recalcdomain.Service
	BackupSvc    *backup.Service `optional:"true"`
	Bus          *bus.Bus
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		log:          p.Log.Named("server"),
		tenantSvc:    p.TenantSvc,
		priceSvc:     p.PriceSvc,
		billSvc:      p.BillSvc,
		meterNameSvc: p.MeterNameSvc,
		recalcSvc:    p.RecalcSvc,
		backupSvc:    p.BackupSvc,
		bus:          p.Bus,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Tenants --------
	api.GET("/tenants", s.ListTenants)
	api.POST("/tenants", s.CreateTenant)
	api.GET("/tenants/:room", s.GetTenant)
	api.PATCH("/tenants/:room", s.UpdateTenant)
	api.DELETE("/tenants/:room", s.DeleteTenant)

	// -------- Prices --------
	api.GET("/prices", s.GetPrices)
	api.PATCH("/prices", s.UpdatePrices)
	api.PUT("/prices/privacy-keywords", s.UpdatePrivacyKeywords)

	// -------- Bills --------
	api.PUT("/bills", s.SaveBill)
	api.GET("/bills/:room/:month", s.GetBill)
	api.GET("/bills/:room/:month/total", s.GetBillTotal)

	// -------- Meter display names --------
	api.GET("/meter-names", s.ListMeterNames)
	api.POST("/meter-names", s.SetMeterName)
	api.DELETE("/meter-names", s.RemoveMeterName)

	// -------- Recalculation --------
	api.POST("/recalc", s.RecalculateAll)
	api.POST("/recalc/:room", s.RecalculateTenant)

	// -------- Backup --------
	api.POST("/backup/export", s.ExportSnapshot)
	api.POST("/backup/import", s.ImportSnapshot)

	// -------- Live change events --------
	api.GET("/events/:channel", s.StreamEvents)
}
