package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/railzwaylabs/subcommerce/internal/auth"
	"github.com/railzwaylabs/subcommerce/internal/config"
	invoicedomain "github.com/railzwaylabs/subcommerce/internal/invoice/domain"
	renewaldomain "github.com/railzwaylabs/subcommerce/internal/renewal/domain"
	subscriptiondomain "github.com/railzwaylabs/subcommerce/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Config          config.Config
	Log             *zap.Logger
	DB              *gorm.DB
	Gatherer        prometheus.Gatherer
	Tokens          *auth.Tokens
	Authorizer      *auth.Authorizer
	RenewalSvc      renewaldomain.Service
	SubscriptionSvc subscriptiondomain.Service
	InvoiceSvc      invoicedomain.Service
}

type Server struct {
	cfg             config.Config
	log             *zap.Logger
	db              *gorm.DB
	gatherer        prometheus.Gatherer
	tokens          *auth.Tokens
	authorizer      *auth.Authorizer
	renewalSvc      renewaldomain.Service
	subscriptionSvc subscriptiondomain.Service
	invoiceSvc      invoicedomain.Service

	engine *gin.Engine
}

func New(p Params) *Server {
	if p.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:             p.Config,
		log:             p.Log.Named("server"),
		db:              p.DB,
		gatherer:        p.Gatherer,
		tokens:          p.Tokens,
		authorizer:      p.Authorizer,
		renewalSvc:      p.RenewalSvc,
		subscriptionSvc: p.SubscriptionSvc,
		invoiceSvc:      p.InvoiceSvc,
	}
	s.engine = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(s.log))

	r.GET("/healthz", s.Healthz)
	r.GET("/readyz", s.Readyz)
	if s.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api", s.AuthRequired())

	admin := api.Group("/admin")
	admin.POST("/renewals/run", s.RunRenewals)
	admin.GET("/renewals/runs", s.ListRenewalRuns)
	admin.GET("/renewals/inspect", s.InspectRenewals)
	admin.GET("/subscriptions", s.ListSubscriptions)
	admin.GET("/subscriptions/:id", s.GetSubscription)
	admin.GET("/subscriptions/:id/invoices", s.ListSubscriptionInvoices)
	admin.GET("/invoices/:id", s.GetInvoice)

	portal := api.Group("/portal")
	portal.GET("/subscriptions", s.ListMySubscriptions)
	portal.GET("/invoices", s.ListMyInvoices)

	r.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
	return r
}
