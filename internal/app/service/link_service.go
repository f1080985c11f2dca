package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sifan077/shortlink/internal/app/codegen"
	"github.com/sifan077/shortlink/internal/app/model"
	"github.com/sifan077/shortlink/internal/app/repository"
	apperrors "github.com/sifan077/shortlink/internal/errors"
	infraPrometheus "github.com/sifan077/shortlink/internal/infra/prometheus"
	"go.uber.org/zap"
)

const (
	DefaultMaxAttempts = 5
	maxCodeLength      = codegen.MaxLength

	// maxFilterSkips bounds how many candidates the code filter may discard
	// per creation. Skips never count toward MaxAttempts.
	maxFilterSkips = 16
)

// LinkService defines behaviour-level operations on links.
type LinkService interface {
	CreateLink(ctx context.Context, ownerID, targetURL string) (*model.Link, error)
	Resolve(ctx context.Context, code string) (string, error)
	ListForOwner(ctx context.Context, ownerID string) ([]model.Link, error)
}

// EventPublisher announces links once they are persisted.
type EventPublisher interface {
	PublishLinkCreated(link *model.Link) error
}

// LinkServiceDeps groups the collaborators of the link service.
// Links is required; everything else has a usable default.
type LinkServiceDeps struct {
	Links       repository.LinkRepository
	Generator   codegen.Generator
	Filter      *CodeFilter
	Events      EventPublisher
	Metrics     *infraPrometheus.LinkMetrics
	Logger      *zap.Logger
	BaseURL     string
	MaxAttempts int
}

type linkService struct {
	links       repository.LinkRepository
	generator   codegen.Generator
	filter      *CodeFilter
	events      EventPublisher
	metrics     *infraPrometheus.LinkMetrics
	logger      *zap.Logger
	selfHost    string
	maxAttempts int
}

// NewLinkService returns a service implementation backed by the given repository.
func NewLinkService(deps LinkServiceDeps) LinkService {
	s := &linkService{
		links:       deps.Links,
		generator:   deps.Generator,
		filter:      deps.Filter,
		events:      deps.Events,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
		selfHost:    hostOf(deps.BaseURL),
		maxAttempts: deps.MaxAttempts,
	}
	if s.generator == nil {
		gen, err := codegen.NewRandomGenerator(codegen.DefaultLength)
		if err != nil {
			panic(err)
		}
		s.generator = gen
	}
	if s.metrics == nil {
		s.metrics = infraPrometheus.NewLinkMetrics(prometheus.NewRegistry())
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.maxAttempts <= 0 {
		s.maxAttempts = DefaultMaxAttempts
	}
	return s
}

// CreateLink allocates a code by inserting candidates until one is accepted
// by the store. Only store conflicts count toward MaxAttempts; the code filter
// can delay a candidate but never fail the allocation.
func (s *linkService) CreateLink(ctx context.Context, ownerID, targetURL string) (*model.Link, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		s.metrics.CreateFailures.WithLabelValues("validation").Inc()
		return nil, apperrors.NewValidationError("owner_id", "owner is required")
	}

	target := sanitizeInput(targetURL)
	if err := validateTargetURL(target, s.selfHost); err != nil {
		s.metrics.CreateFailures.WithLabelValues("validation").Inc()
		return nil, err
	}

	skips := 0
	for attempt := 1; attempt <= s.maxAttempts; {
		code, err := s.generator.Generate()
		if err != nil {
			s.metrics.CreateFailures.WithLabelValues("generator").Inc()
			return nil, fmt.Errorf("create link: generate code: %w", err)
		}

		// A filter hit only costs a fresh candidate. Once the skip budget is
		// spent the candidate goes to the store, which alone can refuse it.
		if s.filter != nil && skips < maxFilterSkips && s.filter.MayContain(code) {
			skips++
			s.metrics.Collisions.WithLabelValues(infraPrometheus.CollisionFilter).Inc()
			continue
		}

		link := &model.Link{
			OwnerID:   ownerID,
			TargetURL: target,
			ShortCode: code,
		}

		err = s.links.Insert(ctx, link)
		if err == nil {
			s.onCreated(link)
			return link, nil
		}

		if errors.Is(err, apperrors.ErrCodeConflict) {
			s.metrics.Collisions.WithLabelValues(infraPrometheus.CollisionConflict).Inc()
			if s.filter != nil {
				s.filter.Add(code)
			}
			s.logger.Debug("short code collision, retrying",
				zap.String("code", code),
				zap.Int("attempt", attempt),
			)
			attempt++
			continue
		}

		s.metrics.CreateFailures.WithLabelValues(failureReason(err)).Inc()
		return nil, fmt.Errorf("create link: %w", err)
	}

	s.metrics.CreateFailures.WithLabelValues("exhausted").Inc()
	s.logger.Error("short code allocation exhausted; widen the code length",
		zap.Int("attempts", s.maxAttempts),
	)
	return nil, &apperrors.ExhaustedRetriesError{Attempts: s.maxAttempts}
}

// Resolve is a public lookup; it never needs the caller's identity.
func (s *linkService) Resolve(ctx context.Context, code string) (string, error) {
	if code == "" || len(code) > maxCodeLength {
		s.metrics.Resolutions.WithLabelValues(infraPrometheus.ResolveMiss).Inc()
		return "", apperrors.ErrLinkNotFound
	}

	link, err := s.links.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrLinkNotFound) {
			s.metrics.Resolutions.WithLabelValues(infraPrometheus.ResolveMiss).Inc()
			return "", apperrors.ErrLinkNotFound
		}
		s.metrics.Resolutions.WithLabelValues(infraPrometheus.ResolveError).Inc()
		return "", fmt.Errorf("resolve link: %w", err)
	}

	s.metrics.Resolutions.WithLabelValues(infraPrometheus.ResolveHit).Inc()
	return link.TargetURL, nil
}

func (s *linkService) ListForOwner(ctx context.Context, ownerID string) ([]model.Link, error) {
	links, err := s.links.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}

func (s *linkService) onCreated(link *model.Link) {
	s.metrics.Created.Inc()
	if s.filter != nil {
		s.filter.Add(link.ShortCode)
	}
	if s.events == nil {
		return
	}
	if err := s.events.PublishLinkCreated(link); err != nil {
		s.logger.Warn("failed to publish link created event",
			zap.String("code", link.ShortCode),
			zap.Error(err),
		)
	}
}

func failureReason(err error) string {
	switch {
	case apperrors.IsValidationError(err):
		return "validation"
	case errors.Is(err, apperrors.ErrStorageTimeout):
		return "timeout"
	default:
		return "storage"
	}
}
