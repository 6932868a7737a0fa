package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger at Debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter returns an adapter writing to logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event as a single "protocol" record.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("request_id", event.RequestID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.Username != "" {
		attrs = append(attrs, slog.String("username", event.Username))
	}
	if event.URL != "" {
		attrs = append(attrs, slog.String("url", event.URL))
	}

	switch {
	case event.Exchange != nil:
		attrs = append(attrs, slog.Int("size", event.Exchange.Size))
		if event.Exchange.StatusCode != 0 {
			attrs = append(attrs, slog.Int("status", event.Exchange.StatusCode))
		}
		if event.Exchange.Duration != nil {
			attrs = append(attrs, slog.Duration("duration", *event.Exchange.Duration))
		}
		if len(event.Exchange.Body) > 0 {
			attrs = append(attrs,
				slog.String("body", string(event.Exchange.Body)),
				slog.Bool("truncated", event.Exchange.Truncated),
			)
		}
	case event.Message != nil:
		attrs = append(attrs, slog.String("msg_type", event.Message.Type.String()))
		if event.Message.Action != "" {
			attrs = append(attrs, slog.String("action", event.Message.Action))
		}
		if event.Message.Object != "" {
			attrs = append(attrs, slog.String("object", event.Message.Object))
		}
		if event.Message.IsSuccess != nil {
			attrs = append(attrs, slog.Bool("is_success", *event.Message.IsSuccess))
		}
		if event.Message.ResponseCode != nil {
			attrs = append(attrs, slog.Int("response_code", *event.Message.ResponseCode))
		}
		if event.Message.ResponseText != "" {
			attrs = append(attrs, slog.String("response_text", event.Message.ResponseText))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
		if event.Error.Code != nil {
			attrs = append(attrs, slog.Int("error_code", *event.Error.Code))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "protocol", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
