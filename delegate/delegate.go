// Package delegate implements the client side of the external key-resolution
// procedure used by delegate-based lookup.
//
// The delegate is an opaque external service: imgsource POSTs the identifier
// and ambient request attributes to a configured endpoint and interprets the
// JSON response. The delegate is authoritative on existence, so a null
// response is a definitive not-found, not an error. Response shapes:
//
//   - a JSON string: the object key; the bucket stays at the configured
//     default
//   - a JSON object with string fields "bucket" and "key": both overridden
//   - JSON null, or HTTP 204: no object exists for this identifier
//
// Any other shape is a contract violation reported as
// interfaces.ErrInvalidDelegateResult. Transport failures and non-2xx
// responses are reported as interfaces.ErrDelegateUnavailable.
package delegate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pixfeed/imgsource/interfaces"
	"github.com/pixfeed/imgsource/metrics"
)

// maxResponseSize bounds the delegate response body (64KB).
const maxResponseSize = 64 * 1024

const defaultTimeout = 10 * time.Second

// HTTPDelegate invokes the delegate over HTTP.
type HTTPDelegate struct {
	endpoint string
	client   *http.Client
	log      *slog.Logger
}

// NewHTTPDelegate creates a delegate client for the given endpoint. A zero
// timeout falls back to a 10 second default.
func NewHTTPDelegate(endpoint string, timeout time.Duration, log *slog.Logger) *HTTPDelegate {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPDelegate{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		log:      log,
	}
}

type lookupRequest struct {
	Identifier string            `json:"identifier"`
	Context    map[string]string `json:"context"`
}

// ResolveObjectKey implements interfaces.DelegateClient.
func (d *HTTPDelegate) ResolveObjectKey(ctx context.Context, id interfaces.Identifier, requestContext map[string]string) (interfaces.DelegateResult, error) {
	body, err := json.Marshal(lookupRequest{
		Identifier: id.String(),
		Context:    requestContext,
	})
	if err != nil {
		return interfaces.DelegateResult{}, fmt.Errorf("%w: %v", interfaces.ErrDelegateUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return interfaces.DelegateResult{}, fmt.Errorf("%w: %v", interfaces.ErrDelegateUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		metrics.DelegateCallsTotal.WithLabelValues(metrics.OutcomeUnavailable).Inc()
		return interfaces.DelegateResult{}, fmt.Errorf("%w: %v", interfaces.ErrDelegateUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		metrics.DelegateCallsTotal.WithLabelValues(metrics.OutcomeNotFound).Inc()
		return interfaces.DelegateAbsent(), nil
	}
	if resp.StatusCode != http.StatusOK {
		metrics.DelegateCallsTotal.WithLabelValues(metrics.OutcomeUnavailable).Inc()
		d.log.Error("Delegate returned unexpected status",
			slog.String("endpoint", d.endpoint),
			slog.String("status", resp.Status))
		return interfaces.DelegateResult{}, fmt.Errorf("%w: delegate returned %s", interfaces.ErrDelegateUnavailable, resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		metrics.DelegateCallsTotal.WithLabelValues(metrics.OutcomeUnavailable).Inc()
		return interfaces.DelegateResult{}, fmt.Errorf("%w: %v", interfaces.ErrDelegateUnavailable, err)
	}

	result, err := ParseResult(raw)
	if err != nil {
		metrics.DelegateCallsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return interfaces.DelegateResult{}, err
	}

	metrics.DelegateCallsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	return result, nil
}

// ParseResult interprets a delegate response body as a tagged result. It is a
// pure function so the contract validation can be tested without a server.
func ParseResult(raw []byte) (interfaces.DelegateResult, error) {
	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return interfaces.DelegateResult{}, fmt.Errorf("%w: %v", interfaces.ErrInvalidDelegateResult, err)
	}

	switch v := value.(type) {
	case nil:
		return interfaces.DelegateAbsent(), nil
	case string:
		if v == "" {
			return interfaces.DelegateResult{}, fmt.Errorf("%w: empty object key", interfaces.ErrInvalidDelegateResult)
		}
		return interfaces.DelegateKey(v), nil
	case map[string]interface{}:
		bucket, bucketOK := v["bucket"].(string)
		key, keyOK := v["key"].(string)
		if !bucketOK || !keyOK || bucket == "" || key == "" {
			return interfaces.DelegateResult{}, fmt.Errorf("%w: mapping must contain bucket and key strings", interfaces.ErrInvalidDelegateResult)
		}
		return interfaces.DelegateLocation(bucket, key), nil
	default:
		return interfaces.DelegateResult{}, fmt.Errorf("%w: unexpected result type %T", interfaces.ErrInvalidDelegateResult, value)
	}
}

// Disabled is a DelegateClient for deployments without a configured delegate.
// Every lookup fails as unavailable.
type Disabled struct{}

// ResolveObjectKey implements interfaces.DelegateClient.
func (Disabled) ResolveObjectKey(context.Context, interfaces.Identifier, map[string]string) (interfaces.DelegateResult, error) {
	return interfaces.DelegateResult{}, fmt.Errorf("%w: delegate lookups are not configured", interfaces.ErrDelegateUnavailable)
}
