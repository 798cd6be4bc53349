package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/smallbiznis/recouvro/internal/account"
	accountdomain "github.com/smallbiznis/recouvro/internal/account/domain"
	"github.com/smallbiznis/recouvro/internal/activity"
	activitydomain "github.com/smallbiznis/recouvro/internal/activity/domain"
	"github.com/smallbiznis/recouvro/internal/assistant"
	"github.com/smallbiznis/recouvro/internal/clock"
	"github.com/smallbiznis/recouvro/internal/config"
	"github.com/smallbiznis/recouvro/internal/dashboard"
	dashboarddomain "github.com/smallbiznis/recouvro/internal/dashboard/domain"
	"github.com/smallbiznis/recouvro/internal/dunning"
	"github.com/smallbiznis/recouvro/internal/extraction"
	"github.com/smallbiznis/recouvro/internal/invoice"
	invoicedomain "github.com/smallbiznis/recouvro/internal/invoice/domain"
	"github.com/smallbiznis/recouvro/internal/letters"
	"github.com/smallbiznis/recouvro/internal/migration"
	"github.com/smallbiznis/recouvro/internal/observability"
	obsmiddleware "github.com/smallbiznis/recouvro/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/recouvro/internal/observability/metrics"
	obstracing "github.com/smallbiznis/recouvro/internal/observability/tracing"
	"github.com/smallbiznis/recouvro/internal/oracle"
	"github.com/smallbiznis/recouvro/internal/providers/email"
	"github.com/smallbiznis/recouvro/internal/providers/files"
	"github.com/smallbiznis/recouvro/internal/providers/pdf"
	"github.com/smallbiznis/recouvro/internal/ratelimit"
	"github.com/smallbiznis/recouvro/internal/recovery"
	recoverydomain "github.com/smallbiznis/recouvro/internal/recovery/domain"
	"github.com/smallbiznis/recouvro/internal/reminder"
	"github.com/smallbiznis/recouvro/pkg/db"
)

var Module = fx.Module("http.server",
	config.Module,
	clock.Module,
	observability.Module,
	db.Module,
	migration.Module,
	oracle.Module,
	extraction.Module,
	dunning.Module,
	email.Module,
	files.Module,
	pdf.Module,
	activity.Module,
	invoice.Module,
	dashboard.Module,
	recovery.Module,
	letters.Module,
	assistant.Module,
	account.Module,
	reminder.Module,
	ratelimit.Module,
	fx.Provide(provideSnowflakeNode),
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func provideSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, registry *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, registry *prometheus.Registry) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics, registry)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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
	db           *gorm.DB
	genID        *snowflake.Node
	limiter      *ratelimit.FixedWindow
	recoverySvc  recoverydomain.Service
	invoiceSvc   invoicedomain.Service
	dashboardSvc dashboarddomain.Service
	accountSvc   accountdomain.Service
	activitySvc  activitydomain.Service
	reminderSvc  reminder.Service
	letterSvc    *letters.Generator
	assistantSvc *assistant.Service
	filesSvc     files.Provider
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	GenID        *snowflake.Node
	Limiter      *ratelimit.FixedWindow
	RecoverySvc  recoverydomain.Service
	InvoiceSvc   invoicedomain.Service
	DashboardSvc dashboarddomain.Service
	AccountSvc   accountdomain.Service
	ActivitySvc  activitydomain.Service
	ReminderSvc  reminder.Service
	LetterSvc    *letters.Generator
	AssistantSvc *assistant.Service
	FilesSvc     files.Provider
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		genID:        p.GenID,
		limiter:      p.Limiter,
		recoverySvc:  p.RecoverySvc,
		invoiceSvc:   p.InvoiceSvc,
		dashboardSvc: p.DashboardSvc,
		accountSvc:   p.AccountSvc,
		activitySvc:  p.ActivitySvc,
		reminderSvc:  p.ReminderSvc,
		letterSvc:    p.LetterSvc,
		assistantSvc: p.AssistantSvc,
		filesSvc:     p.FilesSvc,
	}

	svc.registerAdminRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")
	admin.Use(s.OrgContext())
	s.registerResourceRoutes(admin)
}

// registerAPIRoutes mirrors the admin surface behind the static API token
// for machine clients.
func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.APITokenRequired(), s.OrgContext())
	s.registerResourceRoutes(api)
}

func (s *Server) registerResourceRoutes(g *gin.RouterGroup) {
	procedures := g.Group("/recovery/procedures")
	procedures.POST("", s.RateLimit("recovery"), s.StartRecovery)
	procedures.GET("/:id", s.GetRecoveryProcedure)
	procedures.POST("/:id/confirm", s.ConfirmRecoveryProcedure)
	procedures.POST("/:id/cancel", s.CancelRecoveryProcedure)

	invoices := g.Group("/invoices")
	invoices.GET("", s.ListInvoices)
	invoices.POST("", s.CreateInvoice)
	invoices.GET("/:id", s.GetInvoiceByID)
	invoices.PATCH("/:id/status", s.UpdateInvoiceStatus)
	invoices.DELETE("/:id", s.DeleteInvoice)
	invoices.POST("/:id/attachment", s.AttachInvoiceFile)
	invoices.POST("/:id/remind", s.RateLimit("reminder"), s.SendInvoiceReminder)
	invoices.GET("/:id/notice", s.RateLimit("notice"), s.DownloadInvoiceNotice)

	g.GET("/dashboard", s.GetDashboard)

	accountGroup := g.Group("/account")
	accountGroup.GET("", s.GetAccountOverview)
	accountGroup.GET("/billing", s.GetAccountBilling)
	accountGroup.PATCH("/profile", s.UpdateAccountProfile)
	accountGroup.POST("/avatar", s.UploadAccountAvatar)

	g.GET("/activity", s.ListActivity)

	g.POST("/letters", s.RateLimit("letters"), s.GenerateLetter)

	sessions := g.Group("/assistant/sessions")
	sessions.POST("", s.CreateAssistantSession)
	sessions.GET("/:id", s.GetAssistantSession)
	sessions.POST("/:id/messages", s.RateLimit("assistant"), s.SendAssistantMessage)
}
