package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/roadmap-matcher/internal/ai"
	"github.com/spigell/roadmap-matcher/internal/engine"
	"github.com/spigell/roadmap-matcher/internal/roadmap"
)

// Roadmaps is the engine surface served over HTTP.
type Roadmaps interface {
	GenerateRoadmap(ctx context.Context, req engine.Request) (*engine.Result, error)
	ListDomains(ctx context.Context) ([]string, error)
	SimilarRoadmaps(ctx context.Context, goal, domain string, limit int) ([]engine.ScoredTemplate, error)
	Recommend(ctx context.Context, prefs engine.Preferences) ([]engine.ScoredTemplate, error)
	ListUserRoadmaps(ctx context.Context, userID string) ([]roadmap.UserRoadmap, error)
	ListAllUserRoadmaps(ctx context.Context, limit, skip int) ([]roadmap.UserRoadmap, int64, error)
	DomainSkills(ctx context.Context, domain string) (*engine.DomainSkillSet, error)
	AllSkills(ctx context.Context) (*engine.SkillCatalog, error)
	DeleteUserRoadmap(ctx context.Context, id, userID string) error
}

// ProjectSuggester answers phase project requests.
type ProjectSuggester interface {
	Suggest(ctx context.Context, phase ai.Phase, limit int) (*ai.Suggestions, error)
}

// Pinger reports backend health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	roadmaps Roadmaps
	projects ProjectSuggester
	health   Pinger
	version  string
	logger   *zap.Logger
}

type generateRequest struct {
	Goal   string `json:"goal"`
	Domain string `json:"domain"`
	UserID string `json:"user_id"`
}

type similarQuery struct {
	Goal   string `form:"goal" binding:"required"`
	Domain string `form:"domain"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

type recommendationsQuery struct {
	Interests       string `form:"interests"`
	ExperienceLevel string `form:"experience_level"`
	TimeCommitment  int    `form:"time_commitment" binding:"omitempty,min=1"`
	Limit           int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

type pageQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
	Skip  int `form:"skip" binding:"omitempty,min=0"`
}

type phaseRequest struct {
	Phase  string   `json:"phase"`
	Skills []string `json:"skills"`
	Limit  int      `json:"limit"`
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Roadmap matching API is running",
		"version": h.version,
	})
}

func (h *Handler) Health(c *gin.Context) {
	if h.health == nil {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "roadmap-api"})
		return
	}
	if err := h.health.Ping(c.Request.Context()); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"service":  "roadmap-api",
			"database": "disconnected",
			"error":    err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "roadmap-api", "database": "connected"})
}

func (h *Handler) GenerateRoadmap(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err)
		return
	}

	result, err := h.roadmaps.GenerateRoadmap(c.Request.Context(), engine.Request{
		Goal:   req.Goal,
		Domain: req.Domain,
		UserID: req.UserID,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) ListDomains(c *gin.Context) {
	domains, err := h.roadmaps.ListDomains(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"domains": domains})
}

func (h *Handler) SimilarRoadmaps(c *gin.Context) {
	var q similarQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err)
		return
	}

	roadmaps, err := h.roadmaps.SimilarRoadmaps(c.Request.Context(), q.Goal, q.Domain, q.Limit)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roadmaps": roadmaps})
}

func (h *Handler) Recommendations(c *gin.Context) {
	var q recommendationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err)
		return
	}

	recs, err := h.roadmaps.Recommend(c.Request.Context(), engine.Preferences{
		Interests:       q.Interests,
		ExperienceLevel: q.ExperienceLevel,
		TimeCommitment:  q.TimeCommitment,
		Limit:           q.Limit,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

func (h *Handler) UserRoadmaps(c *gin.Context) {
	roadmaps, err := h.roadmaps.ListUserRoadmaps(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roadmaps": roadmaps})
}

func (h *Handler) AllRoadmaps(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err)
		return
	}
	if q.Limit == 0 {
		q.Limit = engine.DefaultPageLimit
	}

	roadmaps, total, err := h.roadmaps.ListAllUserRoadmaps(c.Request.Context(), q.Limit, q.Skip)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"roadmaps": roadmaps,
		"total":    total,
		"limit":    q.Limit,
		"skip":     q.Skip,
	})
}

func (h *Handler) DomainResources(c *gin.Context) {
	set, err := h.roadmaps.DomainSkills(c.Request.Context(), c.Param("domain"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

func (h *Handler) Skills(c *gin.Context) {
	catalog, err := h.roadmaps.AllSkills(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalog)
}

func (h *Handler) DeleteRoadmap(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		respondMessage(c, http.StatusBadRequest, CodeInvalidRequest, "user_id is required")
		return
	}

	if err := h.roadmaps.DeleteUserRoadmap(c.Request.Context(), c.Param("roadmap_id"), userID); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Roadmap deleted successfully"})
}

func (h *Handler) PhaseProjects(c *gin.Context) {
	if h.projects == nil {
		respondMessage(c, http.StatusServiceUnavailable, CodeInternal, "project suggestions are disabled")
		return
	}

	var req phaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err)
		return
	}

	phase := strings.TrimSpace(req.Phase)
	suggestions, err := h.projects.Suggest(c.Request.Context(), ai.Phase{Name: phase, Skills: req.Skills}, req.Limit)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"recommendations": suggestions.Projects,
		"method":          suggestions.Method,
		"phase":           phase,
		"total":           len(suggestions.Projects),
	})
}
