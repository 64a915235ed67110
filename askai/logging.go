package askai

import (
	"context"
	"errors"
	"time"

	"github.com/aschepis/askai/llm"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// loggingMiddleware logs one provider call. One instance per call holds the
// request id and start time. Prompt text and credentials are never logged.
type loggingMiddleware struct {
	logger   zerolog.Logger
	provider llm.Provider
	id       string
	start    time.Time
}

func newLoggingMiddleware(logger zerolog.Logger, provider llm.Provider) *loggingMiddleware {
	return &loggingMiddleware{
		logger:   logger,
		provider: provider,
		id:       uuid.NewString(),
	}
}

func (m *loggingMiddleware) event(e *zerolog.Event, req *llm.Request) *zerolog.Event {
	return e.Str("request_id", m.id).
		Str("provider", m.provider.String()).
		Str("model", req.Model)
}

func (m *loggingMiddleware) BeforeRequest(_ context.Context, req *llm.Request) (*llm.Request, error) {
	m.start = time.Now()
	m.event(m.logger.Debug(), req).
		Int("messages", len(req.Messages)).
		Bool("system_prompt", req.System != nil).
		Msg("Asking model")
	return req, nil
}

func (m *loggingMiddleware) AfterResponse(_ context.Context, req *llm.Request, resp *llm.Response) (*llm.Response, error) {
	if resp == nil {
		return nil, nil
	}
	e := m.event(m.logger.Info(), req).
		Dur("latency", time.Since(m.start)).
		Str("stop_reason", resp.StopReason)
	if resp.Usage != nil {
		e = e.Int64("input_tokens", resp.Usage.InputTokens).
			Int64("output_tokens", resp.Usage.OutputTokens)
	}
	e.Msg("Answer received")
	return resp, nil
}

func (m *loggingMiddleware) OnError(_ context.Context, req *llm.Request, err error) error {
	e := m.event(m.logger.Error(), req).
		Dur("latency", time.Since(m.start)).
		Str("error_kind", string(llm.Kind(err)))

	var llmErr *llm.Error
	if errors.As(err, &llmErr) && llmErr.StatusCode != 0 {
		e = e.Int("status", llmErr.StatusCode)
	}
	e.Err(err).Msg("Ask failed")
	return nil
}

var _ llm.Middleware = (*loggingMiddleware)(nil)
