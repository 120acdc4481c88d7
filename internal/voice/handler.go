package voice

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"leadpulse/internal/metrics"
	"leadpulse/pkg/logger"
	"leadpulse/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const secretHeader = "X-Vapi-Secret"

// dedupeTTL bounds how long a delivery claim is remembered. Providers retry
// for minutes, not days.
const dedupeTTL = 24 * time.Hour

// ReportSink receives parsed end-of-call reports. Implemented by the leads
// service; kept as an interface so this handler stays free of persistence
// assumptions.
type ReportSink interface {
	HandleCallReport(ctx context.Context, report EndOfCallReport) error
}

// WebhookHandler authenticates, dedupes and parses provider webhooks, then
// hands end-of-call reports to the sink. No qualification logic lives here.
type WebhookHandler struct {
	Sink    ReportSink
	Secret  string
	Redis   *redis.Client // optional; nil disables delivery dedupe
	Metrics *metrics.Metrics
}

func (h WebhookHandler) HandleWebhook(c *gin.Context) {
	log := logger.FromGin(c)

	if h.Secret != "" {
		got := c.GetHeader(secretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.Secret)) != 1 {
			h.count("rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook secret"})
			return
		}
	}

	msgType, report, err := ParseWebhook(c.Request)
	if err != nil {
		h.count("malformed")
		log.Warn("webhook parse failed", "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if report == nil {
		// Status updates, transcripts-in-progress and the like are
		// acknowledged and dropped.
		h.count("ignored")
		c.JSON(http.StatusOK, gin.H{"status": "ignored", "type": msgType})
		return
	}
	if report.ProviderCallID == "" {
		h.count("malformed")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "call id missing"})
		return
	}

	if h.Redis != nil {
		key := "leadpulse:webhook:" + msgType + ":" + report.ProviderCallID
		fresh, err := utils.ClaimOnce(c.Request.Context(), h.Redis, key, dedupeTTL)
		if err != nil {
			// Dedupe is best-effort; a Redis hiccup must not drop the report.
			log.Warn("webhook dedupe unavailable", "err", err)
		} else if !fresh {
			h.count("duplicate")
			c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
			return
		}
	}

	if h.Sink == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "report sink not configured"})
		return
	}
	if err := h.Sink.HandleCallReport(c.Request.Context(), *report); err != nil {
		h.count("failed")
		log.Error("call report handling failed", "provider_call_id", report.ProviderCallID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "report handling failed"})
		return
	}

	h.count("processed")
	c.JSON(http.StatusOK, gin.H{"status": "processed"})
}

func (h WebhookHandler) count(disposition string) {
	if h.Metrics != nil {
		h.Metrics.WebhooksSeen.WithLabelValues(disposition).Inc()
	}
}
