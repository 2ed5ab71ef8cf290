// Package pipeline turns one image search into one rendered document.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/izalutski/catscii/internal/art"
	"github.com/izalutski/catscii/internal/catapi"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/izalutski/catscii/internal/pipeline"

// tracer is looked up per call so a provider installed after init is honoured.
func tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// Locator finds a single candidate image.
type Locator interface {
	Locate(ctx context.Context) (catapi.Descriptor, error)
}

// Fetcher downloads image bytes.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Pipeline holds the collaborators of a run. It carries no per-run state,
// so one Pipeline serves any number of concurrent runs.
type Pipeline struct {
	locator Locator
	fetcher Fetcher
	opts    art.RenderOptions
	logger  *slog.Logger
}

// New creates a pipeline. A *catapi.Client satisfies both Locator and Fetcher.
func New(locator Locator, fetcher Fetcher, opts art.RenderOptions, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		locator: locator,
		fetcher: fetcher,
		opts:    opts,
		logger:  logger,
	}
}

// Run produces one ASCII-art document. The first failing stage ends the run.
func (p *Pipeline) Run(ctx context.Context) (string, error) {
	ctx, span := tracer().Start(ctx, "catscii.pipeline")
	defer span.End()

	data, err := p.FetchImage(ctx)
	if err != nil {
		recordError(span, err)
		return "", err
	}

	img, err := traced(ctx, p.logger, "decode", func(context.Context) (image.Image, error) {
		return art.Decode(data)
	})
	if err != nil {
		err = fmt.Errorf("decode: %w", err)
		recordError(span, err)
		return "", err
	}

	_, renderSpan := tracer().Start(ctx, "catscii.render")
	doc := art.Render(img, p.opts)
	renderSpan.End()

	span.SetAttributes(attribute.Int("catscii.document_bytes", len(doc)))
	return doc, nil
}

// FetchImage locates a candidate and downloads its raw bytes.
func (p *Pipeline) FetchImage(ctx context.Context) ([]byte, error) {
	desc, err := traced(ctx, p.logger, "locate", p.locator.Locate)
	if err != nil {
		return nil, fmt.Errorf("locate: %w", err)
	}
	p.logger.Debug("located image", "id", desc.ID, "url", desc.URL)

	data, err := traced(ctx, p.logger, "fetch", func(ctx context.Context) ([]byte, error) {
		return p.fetcher.Fetch(ctx, desc.URL)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", desc.URL, err)
	}
	p.logger.Debug("fetched image", "url", desc.URL, "bytes", len(data))

	return data, nil
}

// traced runs fn inside a child span named after the stage and logs its duration.
func traced[T any](ctx context.Context, logger *slog.Logger, stage string, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := tracer().Start(ctx, "catscii."+stage)
	defer span.End()

	start := time.Now()
	v, err := fn(ctx)
	if err != nil {
		recordError(span, err)
	}
	logger.DebugContext(ctx, "stage finished", "stage", stage, "duration", time.Since(start), "ok", err == nil)
	return v, err
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
