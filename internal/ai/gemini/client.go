package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/spigell/jobfit/internal/ai"
	"github.com/spigell/jobfit/internal/logger"
)

const (
	provider = "gemini"

	defaultModel        = "gemini-2.5-flash"
	defaultTimeout      = 8 * time.Second
	defaultMaxLogLength = logger.PreviewLength
	defaultSystemPrompt = "You write concise, professional resume and job-search content. " +
		"Reply with the requested content only, without preamble, notes or explanations."
)

type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)
}

type genaiChats struct {
	chats *genai.Chats
}

func (c genaiChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	chat, err := c.chats.Create(ctx, model, config, history)
	if err != nil {
		return nil, err
	}
	return chat, nil
}

// Config configures a Generator.
type Config struct {
	APIKey string
	// Model is tried first, then every entry of FallbackModels in order.
	Model          string
	FallbackModels []string
	// Timeout bounds each model attempt separately.
	Timeout           time.Duration
	RequestsPerMinute int
	SystemInstruction string
	MaxLogLength      int
}

// Generator implements ai.Completer on top of Gemini chat sessions.
type Generator struct {
	chats     chatCreator
	models    []string
	timeout   time.Duration
	system    string
	limiter   *rate.Limiter
	logger    *zap.Logger
	maxLogLen int
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, cfg Config, log *zap.Logger) (*Generator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	g := newGenerator(genaiChats{chats: client.Chats}, cfg, log)
	if cfg.RequestsPerMinute > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60), 1)
	}
	return g, nil
}

func newGenerator(chats chatCreator, cfg Config, log *zap.Logger) *Generator {
	models := make([]string, 0, 1+len(cfg.FallbackModels))
	seen := map[string]struct{}{}
	for _, m := range append([]string{cfg.Model}, cfg.FallbackModels...) {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		models = append(models, m)
	}
	if len(models) == 0 {
		models = append(models, defaultModel)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	system := strings.TrimSpace(cfg.SystemInstruction)
	if system == "" {
		system = defaultSystemPrompt
	}

	maxLogLen := cfg.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLength
	}

	return &Generator{
		chats:     chats,
		models:    models,
		timeout:   timeout,
		system:    system,
		logger:    logger.WithFields(log, zap.String(logger.FieldProvider, provider)),
		maxLogLen: maxLogLen,
	}
}

// Models returns the rotation order.
func (g *Generator) Models() []string {
	if g == nil {
		return nil
	}
	return append([]string(nil), g.models...)
}

// Complete sends prompt to each model in rotation order until one answers.
// Every model gets a single attempt bounded by its own timeout.
func (g *Generator) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return g.GenerateContent(ctx, g.system, prompt, maxTokens)
}

// GenerateContent is Complete with an explicit system instruction.
func (g *Generator) GenerateContent(ctx context.Context, systemInstruction, message string, maxTokens int) (string, error) {
	if g == nil || g.chats == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("prompt must not be empty")
	}

	var lastErr error
	for i, model := range g.models {
		if err := ctx.Err(); err != nil {
			return "", &ai.Error{Kind: ai.KindTimeout, Model: model, Err: err}
		}

		log := logger.WithModel(g.logger, "", model)
		log.Debug("gemini request",
			zap.Int("attempt", i+1),
			zap.Int("prompt_length", utf8.RuneCountInString(message)),
			logger.Preview(logger.FieldPrompt, message, g.maxLogLen),
		)

		output, err := g.attempt(ctx, model, systemInstruction, message, maxTokens)
		if err == nil {
			log.Debug("gemini response",
				zap.Int("response_length", utf8.RuneCountInString(output)),
				logger.Preview(logger.FieldResponse, output, g.maxLogLen),
			)
			return output, nil
		}

		lastErr = err
		kind := ai.KindOf(err)
		log.Warn("gemini model failed", logger.Kind(kind), zap.Error(err))

		if kind == ai.KindAuth {
			break
		}
	}

	return "", lastErr
}

func (g *Generator) attempt(ctx context.Context, model, systemInstruction, message string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", &ai.Error{Kind: ai.KindRateLimited, Model: model, Err: err}
		}
	}

	config := &genai.GenerateContentConfig{}
	if systemInstruction = strings.TrimSpace(systemInstruction); systemInstruction != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}}
	}
	if maxTokens > 0 {
		config.MaxOutputTokens = int32(maxTokens)
	}

	chat, err := g.chats.Create(ctx, model, config, nil)
	if err != nil {
		return "", classify(model, fmt.Errorf("create chat: %w", err))
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", classify(model, fmt.Errorf("send message: %w", err))
	}

	output := responseText(resp)
	if output == "" {
		return "", &ai.Error{Kind: ai.KindMalformed, Model: model, Err: errors.New("gemini api returned empty response")}
	}
	return output, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}
	return strings.TrimSpace(builder.String())
}

func classify(model string, err error) error {
	kind := ai.KindUnavailable

	var apiErr genai.APIError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = ai.KindTimeout
	case errors.As(err, &apiErr):
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			kind = ai.KindAuth
		case http.StatusTooManyRequests:
			kind = ai.KindRateLimited
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			kind = ai.KindTimeout
		case http.StatusBadRequest:
			if strings.Contains(strings.ToLower(apiErr.Message), "api key") {
				kind = ai.KindAuth
			}
		}
	}

	return &ai.Error{Kind: kind, Model: model, Err: err}
}
