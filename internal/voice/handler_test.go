package voice

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type recordingSink struct {
	reports []EndOfCallReport
	err     error
}

func (s *recordingSink) HandleCallReport(ctx context.Context, report EndOfCallReport) error {
	s.reports = append(s.reports, report)
	return s.err
}

func postWebhook(t *testing.T, h WebhookHandler, body, secret string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/webhooks/vapi", strings.NewReader(body))
	if secret != "" {
		c.Request.Header.Set(secretHeader, secret)
	}
	h.HandleWebhook(c)
	return w
}

const reportBody = `{
	"message": {
		"type": "end-of-call-report",
		"endedReason": "customer-ended-call",
		"durationSeconds": 120,
		"transcript": "AI: Hello",
		"call": {"id": "call-1"}
	}
}`

func TestHandleWebhookDeliversReport(t *testing.T) {
	sink := &recordingSink{}
	h := WebhookHandler{Sink: sink}

	w := postWebhook(t, h, reportBody, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if len(sink.reports) != 1 || sink.reports[0].ProviderCallID != "call-1" {
		t.Fatalf("unexpected reports: %+v", sink.reports)
	}
}

func TestHandleWebhookRejectsBadSecret(t *testing.T) {
	sink := &recordingSink{}
	h := WebhookHandler{Sink: sink, Secret: "expected"}

	w := postWebhook(t, h, reportBody, "wrong")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	if len(sink.reports) != 0 {
		t.Fatalf("sink must not receive unauthenticated reports")
	}

	w = postWebhook(t, h, reportBody, "expected")
	if w.Code != http.StatusOK {
		t.Fatalf("status with correct secret = %d", w.Code)
	}
}

func TestHandleWebhookIgnoresNonReports(t *testing.T) {
	sink := &recordingSink{}
	h := WebhookHandler{Sink: sink}

	w := postWebhook(t, h, `{"message": {"type": "status-update", "call": {"id": "call-1"}}}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(sink.reports) != 0 {
		t.Fatalf("status updates must not reach the sink")
	}
}

func TestHandleWebhookRequiresCallID(t *testing.T) {
	h := WebhookHandler{Sink: &recordingSink{}}

	w := postWebhook(t, h, `{"message": {"type": "end-of-call-report"}}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestHandleWebhookSinkFailure(t *testing.T) {
	h := WebhookHandler{Sink: &recordingSink{err: errors.New("db down")}}

	w := postWebhook(t, h, reportBody, "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
}
