// Package worker serves resume optimization requests from a RabbitMQ queue.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/jobfit/internal/logger"
	"github.com/spigell/jobfit/internal/model"
	"github.com/spigell/jobfit/internal/optimizer"
	"github.com/spigell/jobfit/internal/store"
)

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// OptimizeRequest asks for an optimized resume. Numeric ids may arrive as
// strings.
type OptimizeRequest struct {
	RequestID   string             `json:"request_id"`
	SeekerID    int64              `json:"seeker_id"`
	JobID       int64              `json:"job_id"`
	TemplateID  string             `json:"template_id"`
	TargetTitle string             `json:"target_title"`
	Sections    optimizer.Sections `json:"sections"`
}

type OptimizeResult struct {
	RequestID string                 `json:"request_id"`
	Status    string                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Resume    *model.OptimizedResume `json:"resume,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Profiles is the part of store.Store the processor reads.
type Profiles interface {
	GetSeekerProfile(ctx context.Context, id int64) (*model.SeekerProfile, error)
	GetJob(ctx context.Context, id int64) (*model.JobPosting, error)
}

type Processor struct {
	profiles Profiles
	builder  *optimizer.Builder
	logger   *zap.Logger
	now      func() time.Time
}

func NewProcessor(profiles Profiles, builder *optimizer.Builder, log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{profiles: profiles, builder: builder, logger: log, now: time.Now}
}

// Process handles one message body. Every outcome, including undecodable
// input, is reported as a result rather than an error.
func (p *Processor) Process(ctx context.Context, body []byte) OptimizeResult {
	req, err := DecodeRequest(body)
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	log := logger.WithRequest(p.logger, req.RequestID)

	if err != nil {
		log.Warn("malformed optimize request", logger.Body(body), zap.Error(err))
		return p.result(req.RequestID, StatusFailed, "malformed request", nil)
	}

	log = log.With(logger.Seeker(req.SeekerID))
	profile, err := p.profiles.GetSeekerProfile(ctx, req.SeekerID)
	if err != nil {
		return p.failure(log, req.RequestID, "seeker profile", err)
	}

	var job *model.JobPosting
	if req.JobID > 0 {
		if job, err = p.profiles.GetJob(ctx, req.JobID); err != nil {
			return p.failure(log, req.RequestID, "job", err)
		}
	}

	resume, err := p.builder.Build(ctx, optimizer.Request{
		Profile:     profile,
		Job:         job,
		TemplateID:  req.TemplateID,
		Sections:    req.Sections,
		TargetTitle: req.TargetTitle,
	})
	if err != nil {
		log.Error("resume build failed", zap.Error(err))
		return p.result(req.RequestID, StatusFailed, "optimization failed", nil)
	}

	log.Info("resume optimized", zap.Int("ats_score", resume.ATSScore))
	return p.result(req.RequestID, StatusCompleted, "optimization completed", &resume)
}

func (p *Processor) failure(log *zap.Logger, requestID, what string, err error) OptimizeResult {
	if errors.Is(err, store.ErrNotFound) {
		log.Warn(what+" not found", zap.Error(err))
		return p.result(requestID, StatusFailed, what+" not found", nil)
	}
	log.Error("failed to load "+what, zap.Error(err))
	return p.result(requestID, StatusFailed, "failed to load "+what, nil)
}

func (p *Processor) result(requestID, status, message string, resume *model.OptimizedResume) OptimizeResult {
	return OptimizeResult{
		RequestID: requestID,
		Status:    status,
		Message:   message,
		Resume:    resume,
		Timestamp: p.now().UTC(),
	}
}

// DecodeRequest parses a message body. The request id is filled in whenever
// it can be read, even when the rest of the message is invalid.
func DecodeRequest(body []byte) (OptimizeRequest, error) {
	var req OptimizeRequest

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return req, fmt.Errorf("parse body: %w", err)
	}
	if id, ok := raw["request_id"].(string); ok {
		req.RequestID = strings.TrimSpace(id)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           &req,
	})
	if err != nil {
		return req, fmt.Errorf("build decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return req, fmt.Errorf("decode request: %w", err)
	}

	req.RequestID = strings.TrimSpace(req.RequestID)
	if req.SeekerID <= 0 {
		return req, errors.New("seeker_id is required")
	}
	return req, nil
}
