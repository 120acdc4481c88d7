package main

import (
	"database/sql"
	"time"

	"leadpulse/internal/auth"
	"leadpulse/internal/httpapi"
	"leadpulse/internal/voice"
	"leadpulse/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// registerDeps carries everything the route table needs. Keep this file free
// of business logic; handlers delegate to internal modules.
type registerDeps struct {
	handlers httpapi.Handlers
	webhook  voice.WebhookHandler
	authMW   gin.HandlerFunc
	registry *prometheus.Registry
	db       *sql.DB
	redis    *redis.Client
}

func registerRoutes(r *gin.Engine, deps registerDeps) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		if err := utils.HealthCheck(c.Request.Context(), deps.db, 2*time.Second); err != nil {
			c.JSON(503, gin.H{"status": "degraded", "postgres": err.Error()})
			return
		}
		if err := deps.redis.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(503, gin.H{"status": "degraded", "redis": err.Error()})
			return
		}
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.registry, promhttp.HandlerOpts{})))

	// The website lead form posts here without a token; spam control is the
	// reverse proxy's problem.
	r.POST("/leads", deps.handlers.SubmitLead)

	// Provider webhooks (public path, authenticated by shared secret header).
	r.POST("/webhooks/vapi", deps.webhook.HandleWebhook)

	r.POST("/auth/login", deps.handlers.Login)

	// protected dashboard API
	v1 := r.Group("/v1")
	v1.Use(deps.authMW)
	{
		v1.GET("/me", func(c *gin.Context) {
			uid, _ := auth.UserID(c.Request.Context())
			role, _ := auth.Role(c.Request.Context())
			c.JSON(200, gin.H{"user_id": uid, "role": role})
		})

		v1.GET("/leads", deps.handlers.ListLeads)
		v1.GET("/leads/:lead_id", deps.handlers.GetLead)
		v1.POST("/leads/:lead_id/requalify", deps.handlers.RequalifyLead)

		v1.GET("/reports/summary", deps.handlers.ReportSummary)
		v1.GET("/reports/export", deps.handlers.ExportLeads)

		admin := v1.Group("/admin")
		admin.Use(auth.RequireRole(auth.RoleAdmin))
		{
			admin.GET("/settings/llm-key", deps.handlers.GetLLMKeyStatus)
			admin.PUT("/settings/llm-key", deps.handlers.SetLLMKey)
		}
	}
}
