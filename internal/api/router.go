package api

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const defaultServiceName = "roadmap-matcher"

type RouterConfig struct {
	Roadmaps Roadmaps
	Projects ProjectSuggester
	Health   Pinger

	Logger      *zap.Logger
	Version     string
	ServiceName string
	CORSOrigins []string
	Tracing     bool
	Sentry      bool
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	service := cfg.ServiceName
	if service == "" {
		service = defaultServiceName
	}

	r := gin.New()
	r.Use(Recovery(log))
	if cfg.Sentry {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if cfg.Tracing {
		r.Use(otelgin.Middleware(service))
	}
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(CORS(cfg.CORSOrigins))

	h := &Handler{
		roadmaps: cfg.Roadmaps,
		projects: cfg.Projects,
		health:   cfg.Health,
		version:  cfg.Version,
		logger:   log,
	}

	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	api := r.Group("/api/roadmap")
	{
		api.POST("/generate-roadmap", h.GenerateRoadmap)

		roadmaps := api.Group("/roadmaps")
		roadmaps.GET("/domains", h.ListDomains)
		roadmaps.GET("/similar", h.SimilarRoadmaps)
		roadmaps.GET("/recommendations", h.Recommendations)
		roadmaps.GET("/user/:user_id", h.UserRoadmaps)
		roadmaps.GET("/all", h.AllRoadmaps)
		roadmaps.DELETE("/:roadmap_id", h.DeleteRoadmap)

		resources := api.Group("/resources")
		resources.GET("/domain/:domain", h.DomainResources)
		resources.GET("/skills", h.Skills)

		api.POST("/projects/phase", h.PhaseProjects)
	}

	return r
}
