package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const defaultVapiBaseURL = "https://api.vapi.ai"

// VapiConfig holds the credentials and assistant wiring for the Vapi adapter.
type VapiConfig struct {
	APIKey        string
	AssistantID   string
	PhoneNumberID string

	// BaseURL may be overridden for tests.
	BaseURL string
}

// VapiProvider places and fetches calls through the Vapi REST API.
//
// Call placement is retried with exponential backoff on transient failures
// (network errors, 5xx). Client errors are permanent. Qualification never
// goes through this retry path; it has its own single-attempt contract.
type VapiProvider struct {
	cfg        VapiConfig
	httpClient *http.Client
}

func NewVapiProvider(cfg VapiConfig) (*VapiProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("voice: vapi api key is required")
	}
	if cfg.AssistantID == "" || cfg.PhoneNumberID == "" {
		return nil, errors.New("voice: vapi assistant id and phone number id are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultVapiBaseURL
	}
	return &VapiProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (p *VapiProvider) Name() string { return "vapi" }

type vapiCreateCallRequest struct {
	AssistantID   string            `json:"assistantId"`
	PhoneNumberID string            `json:"phoneNumberId"`
	Customer      vapiCustomer      `json:"customer"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

type vapiCustomer struct {
	Number string `json:"number"`
	Name   string `json:"name,omitempty"`
}

type vapiCall struct {
	ID              string   `json:"id"`
	Status          string   `json:"status"`
	EndedReason     string   `json:"endedReason"`
	DurationSeconds *float64 `json:"durationSeconds"`
	Transcript      string   `json:"transcript"`
	Artifact        struct {
		Transcript string `json:"transcript"`
	} `json:"artifact"`
	StartedAt *time.Time `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt"`
}

func (p *VapiProvider) PlaceCall(ctx context.Context, req PlaceCallRequest) (PlaceCallResult, error) {
	if req.Number == "" {
		return PlaceCallResult{}, errors.New("voice: customer number is required")
	}

	payload := vapiCreateCallRequest{
		AssistantID:   p.cfg.AssistantID,
		PhoneNumberID: p.cfg.PhoneNumberID,
		Customer:      vapiCustomer{Number: req.Number, Name: req.Name},
	}
	if req.LeadID != "" {
		payload.Metadata = map[string]string{"lead_id": req.LeadID}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return PlaceCallResult{}, fmt.Errorf("voice: marshal create call: %w", err)
	}

	var out PlaceCallResult
	op := func() error {
		call, err := p.doJSON(ctx, http.MethodPost, "/call", body)
		if err != nil {
			return err
		}
		out = PlaceCallResult{ProviderCallID: call.ID, Status: call.Status}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 20 * time.Second
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return PlaceCallResult{}, fmt.Errorf("voice: place call: %w", err)
	}
	return out, nil
}

func (p *VapiProvider) FetchCall(ctx context.Context, providerCallID string) (CallSnapshot, error) {
	if providerCallID == "" {
		return CallSnapshot{}, errors.New("voice: provider call id is required")
	}
	call, err := p.doJSON(ctx, http.MethodGet, "/call/"+providerCallID, nil)
	if err != nil {
		return CallSnapshot{}, fmt.Errorf("voice: fetch call: %w", err)
	}
	return call.toSnapshot(), nil
}

func (c vapiCall) toSnapshot() CallSnapshot {
	snap := CallSnapshot{
		ProviderCallID: c.ID,
		Status:         c.Status,
		EndedReason:    c.EndedReason,
		Transcript:     c.Transcript,
		StartedAt:      c.StartedAt,
		EndedAt:        c.EndedAt,
	}
	if snap.Transcript == "" {
		snap.Transcript = c.Artifact.Transcript
	}
	if c.DurationSeconds != nil {
		secs := int(math.Round(*c.DurationSeconds))
		snap.DurationSeconds = &secs
	}
	raw, err := json.Marshal(c)
	if err == nil {
		snap.Raw = string(raw)
	}
	return snap
}

// doJSON issues one request and decodes a vapiCall from the response.
// 5xx and transport errors are retryable; 4xx are permanent.
func (p *VapiProvider) doJSON(ctx context.Context, method, path string, body []byte) (vapiCall, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.cfg.BaseURL+path, reader)
	if err != nil {
		return vapiCall{}, backoff.Permanent(err)
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return vapiCall{}, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return vapiCall{}, err
	}

	if resp.StatusCode >= 500 {
		return vapiCall{}, fmt.Errorf("vapi server error: HTTP %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return vapiCall{}, backoff.Permanent(fmt.Errorf("vapi request failed: HTTP %d: %s", resp.StatusCode, string(respBody)))
	}

	var call vapiCall
	if err := json.Unmarshal(respBody, &call); err != nil {
		return vapiCall{}, backoff.Permanent(fmt.Errorf("decode vapi response: %w", err))
	}
	return call, nil
}
