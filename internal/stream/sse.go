package stream

import (
	"context"
	"net/url"

	"github.com/r3labs/sse/v2"
	"github.com/rxtech-lab/argo-chart/internal/logger"
	"github.com/rxtech-lab/argo-chart/pkg/errors"
	"go.uber.org/zap"
)

// SSEClient consumes the alternate unidirectional server-push transport.
//
// The transport carries named channel events ("price", "account",
// "algo_status") whose payloads have the same semantic fields as the
// websocket frames. Connection establishment and retry are implicit in the
// transport's native reconnection behavior; no extra retry logic is layered
// on top here.
type SSEClient struct {
	config Config
	router *Router
	log    *logger.Logger
	cancel context.CancelFunc
}

// NewSSEClient creates a server-push client routing payloads through router.
func NewSSEClient(config Config, router *Router, log *logger.Logger) (*SSEClient, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid stream config", err)
	}

	return &SSEClient{
		config: config,
		router: router,
		log:    log,
		cancel: nil,
	}, nil
}

// Start begins consuming the stream until Stop is called or ctx is done.
// A missing stream URL fails before any transport attempt, and a second Start
// without an intervening Stop is rejected.
func (s *SSEClient) Start(ctx context.Context) error {
	if s.cancel != nil {
		return errors.New(errors.ErrCodeAlreadyConnected, "server-push stream is already running")
	}

	if s.config.StreamURL == "" {
		return errors.New(errors.ErrCodeEndpointNotConfigured,
			"server-push endpoint is not configured; "+fallbackAdvice)
	}

	endpoint, err := s.streamEndpoint()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	client := sse.NewClient(endpoint)

	go func() {
		subscribeErr := client.SubscribeRawWithContext(ctx, func(msg *sse.Event) {
			if len(msg.Data) == 0 {
				return
			}

			s.router.RouteNamed(string(msg.Event), msg.Data)
		})
		if subscribeErr != nil && ctx.Err() == nil {
			s.log.Warn("server-push stream ended", zap.Error(subscribeErr))
		}
	}()

	s.log.Info("server-push stream started", zap.String("endpoint", s.config.StreamURL))

	return nil
}

// Stop ends the stream. Safe to call more than once.
func (s *SSEClient) Stop() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// streamEndpoint appends the optional API key as a query parameter.
func (s *SSEClient) streamEndpoint() (string, error) {
	if s.config.APIKey == "" {
		return s.config.StreamURL, nil
	}

	parsed, err := url.Parse(s.config.StreamURL)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid stream URL", err)
	}

	query := parsed.Query()
	query.Set("apiKey", s.config.APIKey)
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}
