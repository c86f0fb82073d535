package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fleveque/location-service/internal/llm"
	"github.com/fleveque/location-service/internal/metrics"
	"github.com/fleveque/location-service/internal/model"
	"github.com/fleveque/location-service/internal/schema"
	"github.com/fleveque/location-service/internal/storage"
)

// DefaultFailureMessage is shown to end users when generation fails.
const DefaultFailureMessage = "API制限またはエラーによりデータの取得に失敗しました。しばらく時間を置いてから再試行してください。"

// GenerationError reports that no backend produced a usable document. It
// wraps the last backend error and carries the message safe to show users.
type GenerationError struct {
	Place   string
	Err     error
	message string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generating %q: %v", e.Place, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// UserMessage returns the localized retry-later message.
func (e *GenerationError) UserMessage() string {
	if e.message == "" {
		return DefaultFailureMessage
	}
	return e.message
}

var errNoBackends = errors.New("no generation backends configured")

// GeneratorOptions tunes a ContentGenerator.
type GeneratorOptions struct {
	RatePerMinute  int    // <= 0 disables the limiter
	Language       string // defaults to llm.DefaultLanguage
	FailureMessage string // defaults to DefaultFailureMessage
}

// ContentGenerator produces the structured description of a place with a
// generative backend. Backends are tried in configured order: first valid
// document wins, failures fall through to the next.
//
// The generator never fills HeaderImageURL; the header image is resolved
// separately and merged by the caller.
type ContentGenerator struct {
	clients []llm.Client
	limiter *rate.Limiter
	opts    GeneratorOptions
	calls   storage.GenerationCallRepository
	logger  *zap.Logger
}

// NewContentGenerator creates a generator over an ordered list of backends.
// calls may be nil, in which case attempts are not recorded.
func NewContentGenerator(
	clients []llm.Client,
	opts GeneratorOptions,
	calls storage.GenerationCallRepository,
	logger *zap.Logger,
) *ContentGenerator {
	limit := rate.Inf
	if opts.RatePerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(opts.RatePerMinute))
	}
	if opts.Language == "" {
		opts.Language = llm.DefaultLanguage
	}
	if opts.FailureMessage == "" {
		opts.FailureMessage = DefaultFailureMessage
	}

	return &ContentGenerator{
		clients: clients,
		limiter: rate.NewLimiter(limit, 1),
		opts:    opts,
		calls:   calls,
		logger:  logger,
	}
}

// Generate asks the backends for a record describing place. tags keep the
// caller's order: the first non-blank tag becomes the core theme of the prompt.
func (g *ContentGenerator) Generate(ctx context.Context, place string, tags []string) (*model.LocationRecord, error) {
	if len(g.clients) == 0 {
		return nil, g.failure(place, errNoBackends)
	}

	req := llm.Request{Place: place, Language: g.opts.Language}
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			req.Theme = model.Tag(t).Label()
			break
		}
	}
	tagKey := strings.Join(model.NormalizeTags(tags), ",")

	var lastErr error
	for i, client := range g.clients {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, g.failure(place, fmt.Errorf("rate limit wait: %w", err))
		}

		record, err := g.try(ctx, client, req, tagKey)
		if err == nil {
			return record, nil
		}
		lastErr = err

		if i < len(g.clients)-1 {
			g.logger.Warn("generation backend failed, trying next",
				zap.String("place", place),
				zap.String("provider", client.ProviderName()),
				zap.Error(err),
			)
		}
	}

	return nil, g.failure(place, lastErr)
}

func (g *ContentGenerator) failure(place string, err error) *GenerationError {
	return &GenerationError{Place: place, Err: err, message: g.opts.FailureMessage}
}

func (g *ContentGenerator) try(ctx context.Context, client llm.Client, req llm.Request, tagKey string) (*model.LocationRecord, error) {
	start := time.Now()
	record, err := g.generate(ctx, client, req)
	elapsed := time.Since(start)

	metrics.GenerationAttempts.WithLabelValues(client.ProviderName(), metrics.Outcome(err)).Inc()
	metrics.GenerationDuration.WithLabelValues(client.ProviderName()).Observe(elapsed.Seconds())
	g.recordCall(ctx, client, req.Place, tagKey, err, elapsed.Milliseconds())

	return record, err
}

func (g *ContentGenerator) generate(ctx context.Context, client llm.Client, req llm.Request) (*model.LocationRecord, error) {
	raw, err := client.GenerateLocation(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := schema.Validate(schema.Location, raw); err != nil {
		return nil, fmt.Errorf("%s returned an invalid document: %w", client.ProviderName(), err)
	}

	var record model.LocationRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decoding %s document: %w", client.ProviderName(), err)
	}
	record.HeaderImageURL = ""
	return &record, nil
}

func (g *ContentGenerator) recordCall(ctx context.Context, client llm.Client, place, tags string, callErr error, durationMs int64) {
	if g.calls == nil {
		return
	}

	call := &model.GenerationCall{
		Place:      place,
		Tags:       tags,
		Provider:   client.ProviderName(),
		Model:      client.ModelName(),
		Success:    callErr == nil,
		DurationMs: &durationMs,
	}
	if callErr != nil {
		msg := callErr.Error()
		call.ErrorMessage = &msg
	}

	// The request context may already be done when the backend timed out;
	// the record is still worth keeping.
	if err := g.calls.Create(context.WithoutCancel(ctx), call); err != nil {
		g.logger.Error("recording generation call", zap.Error(err))
	}
}
