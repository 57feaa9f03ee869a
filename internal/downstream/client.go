// Package downstream implements the HTTP client shared by the interpreter
// and orchestrator clients. It maps transport and status-code outcomes to
// application-level errors so handlers can pass them through unchanged.
package downstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ctfarena/backend/pkg/apierrors"
	"github.com/ctfarena/backend/pkg/metrics"
)

// Client is a thin JSON-over-HTTP client bound to one downstream service.
type Client struct {
	logger  *zap.Logger
	service string
	baseURL string
	http    *http.Client
}

// New creates a client for the named service. The connect timeout bounds
// dialing; the request timeout bounds the whole call.
func New(logger *zap.Logger, service, baseURL string, requestTimeout, connectTimeout time.Duration) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: connectTimeout,
		}).DialContext,
		MaxIdleConns:        20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: connectTimeout,
	}

	return &Client{
		logger:  logger,
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: transport,
			Timeout:   requestTimeout,
		},
	}
}

// errorBody is the downstream error envelope
type errorBody struct {
	Detail string `json:"detail"`
}

// Do performs one JSON request. The result is decoded into out when out is
// non-nil. It returns found=false without error when the downstream answers
// 404 or 204, mirroring the rest of the mapping contract:
//
//	other 4xx  -> pass-through status with the downstream detail message
//	5xx        -> 502 "internal error in the <service>"
//	transport  -> 503 "connection failure"
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) (found bool, err error) {
	start := time.Now()
	found, err = c.do(ctx, method, path, query, body, out)
	outcome := outcomeLabel(err)
	metrics.DownstreamLatency.WithLabelValues(c.service, method, outcome).Observe(time.Since(start).Seconds())
	metrics.DownstreamRequests.WithLabelValues(c.service, method, outcome).Inc()
	return found, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) (bool, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return false, apierrors.Internal(fmt.Sprintf("failed to encode request body: %v", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return false, apierrors.Internal(fmt.Sprintf("failed to build request: %v", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("downstream request failed",
			zap.String("service", c.service),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return false, apierrors.Newf(http.StatusServiceUnavailable, "connection failure: %s unreachable", c.service)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusNoContent:
		return false, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var eb errorBody
		detail := fmt.Sprintf("error in request to %s", c.service)
		if decodeErr := json.NewDecoder(resp.Body).Decode(&eb); decodeErr == nil && eb.Detail != "" {
			detail = eb.Detail
		}
		return false, apierrors.New(resp.StatusCode, detail)
	case resp.StatusCode >= 500:
		c.logger.Error("downstream server error",
			zap.String("service", c.service),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return false, apierrors.Newf(http.StatusBadGateway, "internal error in the %s", c.service)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return true, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, apierrors.Newf(http.StatusBadGateway, "invalid response from the %s", c.service)
	}
	return true, nil
}

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	switch status := apierrors.StatusOf(err); {
	case status == http.StatusServiceUnavailable:
		return "unreachable"
	case status >= 500:
		return "server_error"
	default:
		return "client_error"
	}
}
