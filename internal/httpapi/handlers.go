package httpapi

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"leadpulse/internal/auth"
	"leadpulse/internal/config"
	"leadpulse/internal/leads"
	"leadpulse/internal/reporting"
	"leadpulse/internal/settings"
	"leadpulse/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Auth     *auth.Manager
	Operator config.AuthConfig
	Leads    *leads.Service
	Reports  *reporting.Service
	Settings settings.Store
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login validates the configured operator credentials and issues a JWT pair.
func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	emailOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(h.Operator.OperatorEmail)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.Operator.OperatorPassword)) == 1
	if !emailOK || !passOK {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	pair, err := h.Auth.IssuePair(time.Now(), h.Operator.OperatorEmail, auth.RoleAdmin)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

// --- Leads ---

// SubmitLead accepts the public website form and kicks off the outbound call.
func (h Handlers) SubmitLead(c *gin.Context) {
	var req leads.SubmitInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "name and phone are required"})
		return
	}

	lead, err := h.Leads.Submit(c.Request.Context(), req)
	if err != nil {
		abortForError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lead)
}

func (h Handlers) ListLeads(c *gin.Context) {
	var filter leads.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid filter"})
		return
	}

	rows, err := h.Leads.List(c.Request.Context(), filter)
	if err != nil {
		abortForError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leads": rows})
}

func (h Handlers) GetLead(c *gin.Context) {
	lead, err := h.Leads.Get(c.Request.Context(), c.Param("lead_id"))
	if err != nil {
		abortForError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// RequalifyLead re-fetches the call from the voice provider and re-runs the
// qualification pipeline.
func (h Handlers) RequalifyLead(c *gin.Context) {
	lead, err := h.Leads.Requalify(c.Request.Context(), c.Param("lead_id"))
	if err != nil {
		log := logger.FromGin(c)
		log.Error("requalify failed", "lead_id", c.Param("lead_id"), "error", err)
		abortForError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// --- Reports ---

func (h Handlers) ReportSummary(c *gin.Context) {
	out, err := h.Reports.Summary(c.Request.Context())
	if err != nil {
		abortForError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ExportLeads streams the pipeline as an xlsx workbook.
func (h Handlers) ExportLeads(c *gin.Context) {
	var filter leads.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid filter"})
		return
	}

	f, err := h.Reports.Export(c.Request.Context(), filter)
	if err != nil {
		abortForError(c, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("leads-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(c.Writer); err != nil {
		log := logger.FromGin(c)
		log.Error("xlsx export write failed", "error", err)
	}
}

// --- Admin settings ---

type llmKeyRequest struct {
	APIKey string `json:"api_key"`
}

// GetLLMKeyStatus reports whether an LLM key is configured. The key itself
// is never returned.
func (h Handlers) GetLLMKeyStatus(c *gin.Context) {
	key, err := h.Settings.LLMAPIKey(c.Request.Context())
	if err != nil {
		abortForError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"configured": strings.TrimSpace(key) != ""})
}

// SetLLMKey updates the runtime LLM credentials. An empty key clears them,
// which drops qualification back to heuristics.
func (h Handlers) SetLLMKey(c *gin.Context) {
	var req llmKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if err := h.Settings.SetLLMAPIKey(c.Request.Context(), req.APIKey); err != nil {
		abortForError(c, err)
		return
	}

	log := logger.FromGin(c)
	userID, _ := auth.UserID(c.Request.Context())
	log.Info("llm api key updated", "by", userID, "cleared", req.APIKey == "")
	c.JSON(http.StatusOK, gin.H{"configured": req.APIKey != ""})
}

func abortForError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, leads.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "lead not found"})
	case errors.Is(err, leads.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
