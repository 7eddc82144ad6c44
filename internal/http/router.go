package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/oncograph-backend/internal/http/handlers"
	httpMW "github.com/yungbote/oncograph-backend/internal/http/middleware"
	"github.com/yungbote/oncograph-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	// ImportLimiter throttles POST /api/discovery/indications; nil disables it.
	ImportLimiter *httpMW.RateLimiter

	HealthHandler   *httpH.HealthHandler
	OncologyHandler *httpH.OncologyHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	if h := cfg.OncologyHandler; h != nil {
		// Rankings
		api.GET("/rankings/indications", h.ListTopIndications)
		api.GET("/rankings/mutations", h.ListAllMutations)

		// Dossiers and estimates
		api.GET("/indications/:id", h.GetIndicationDossier)
		api.GET("/indications/:id/totals", h.GetIndicationTotals)
		api.GET("/mutations/:id", h.GetMutationDossier)
		api.GET("/mutations/:id/estimates", h.GetMutationEstimates)
		api.GET("/mutations/:id/indications/:indicationId/estimate", h.GetMutationIndicationEstimate)

		// Discovery
		api.GET("/discovery/indications", h.FindUndiscoveredIndications)
		importChain := []gin.HandlerFunc{}
		if cfg.ImportLimiter != nil {
			importChain = append(importChain, cfg.ImportLimiter.Middleware())
		}
		importChain = append(importChain, h.AddIndication)
		api.POST("/discovery/indications", importChain...)
	}

	return r
}
