package logger

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	FieldProvider  = "ai_provider"
	FieldModel     = "ai_model"
	FieldKind      = "ai_kind"
	FieldRequestID = "request_id"
	FieldSeekerID  = "seeker_id"
	FieldJobID     = "job_id"
	FieldPrompt    = "prompt_preview"
	FieldResponse  = "response_preview"
	FieldBody      = "body_preview"
)

// PreviewLength is the default size of prompt and response previews.
// Queue bodies are cut shorter since they mostly carry ids.
const (
	PreviewLength     = 200
	BodyPreviewLength = 120
)

// Seeker identifies the seeker profile a log line is about. Unsaved
// profiles (id 0) add nothing.
func Seeker(id int64) zap.Field {
	if id <= 0 {
		return zap.Skip()
	}
	return zap.Int64(FieldSeekerID, id)
}

// Job identifies the posting a log line is about.
func Job(id int64) zap.Field {
	if id <= 0 {
		return zap.Skip()
	}
	return zap.Int64(FieldJobID, id)
}

// Kind records how a generative call failed.
func Kind[K ~string](kind K) zap.Field {
	return zap.String(FieldKind, string(kind))
}

// Prompt and Response preview generated-text traffic at PreviewLength.
func Prompt(text string) zap.Field   { return Preview(FieldPrompt, text, PreviewLength) }
func Response(text string) zap.Field { return Preview(FieldResponse, text, PreviewLength) }

// Body previews a queue message.
func Body(body []byte) zap.Field {
	return Preview(FieldBody, string(body), BodyPreviewLength)
}

// Preview returns text on a single line, cut to at most limit runes plus an
// ellipsis. A cut backs up to the last space when one is in the second half
// so words and skill names are not split. Empty text adds nothing.
func Preview(key, text string, limit int) zap.Field {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" || limit <= 0 {
		return zap.Skip()
	}
	return zap.String(key, excerpt(text, limit))
}

func excerpt(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	cut := string([]rune(text)[:limit])
	if i := strings.LastIndexByte(cut, ' '); i >= len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:") + "..."
}

// WithFields attaches fields to logger, defaulting to a no-op logger when
// logger is nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// WithModel tags a logger with the generative provider and model. Empty
// values are left out.
func WithModel(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, nonEmpty(FieldProvider, provider), nonEmpty(FieldModel, model))
}

// WithRequest attaches the correlation id of a CLI invocation or queue
// message.
func WithRequest(logger *zap.Logger, requestID string) *zap.Logger {
	return WithFields(logger, nonEmpty(FieldRequestID, requestID))
}

func nonEmpty(key, value string) zap.Field {
	if value = strings.TrimSpace(value); value == "" {
		return zap.Skip()
	}
	return zap.String(key, value)
}
