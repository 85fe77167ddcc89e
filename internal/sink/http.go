package sink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/utafrali/abundance/internal/domain"
	apperrors "github.com/utafrali/abundance/pkg/errors"
	"github.com/utafrali/abundance/pkg/httpclient"
)

const intakeService = "order-intake"

// HTTPSink posts each order as JSON to an order-intake API through a circuit
// breaker.
type HTTPSink struct {
	client *httpclient.CircuitBreakerClient
	url    string
	logger *slog.Logger
}

// NewHTTPSink creates a sink posting to url.
func NewHTTPSink(client *httpclient.CircuitBreakerClient, url string, logger *slog.Logger) *HTTPSink {
	return &HTTPSink{client: client, url: url, logger: logger}
}

// Submit posts the order. Transport failures, 5xx responses, and an open
// breaker all surface as apperrors.ErrServiceUnavail; 4xx responses are
// translated by httpclient.ParseResponseError.
func (s *HTTPSink) Submit(ctx context.Context, order *domain.Order) error {
	req, err := httpclient.NewJSONRequest(ctx, http.MethodPost, s.url, order)
	if err != nil {
		return fmt.Errorf("build order intake request: %w", err)
	}
	req.Header.Set("Idempotency-Key", order.ID.String())

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		if errors.Is(err, httpclient.ErrCircuitOpen) {
			s.logger.WarnContext(ctx, "order intake circuit open", slog.String("order_id", order.ID.String()))
		}
		return apperrors.Unavailable("order intake is unavailable, please try again", err)
	}

	if !httpclient.IsSuccess(resp.StatusCode) {
		return httpclient.ParseResponseError(resp, intakeService)
	}
	_ = resp.Body.Close()

	s.logger.InfoContext(ctx, "order accepted by intake",
		slog.String("order_id", order.ID.String()),
		slog.Int("status", resp.StatusCode),
	)
	return nil
}

// Name returns "http".
func (s *HTTPSink) Name() string { return "http" }
