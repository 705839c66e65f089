package booth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vincent-petithory/dataurl"

	"emojibooth/internal/emotion"
	"emojibooth/internal/providers/genai"
	imageprovider "emojibooth/internal/providers/image"
)

const defaultWorkers = 2

var (
	// ErrUnknownLabel is returned when a regenerate names a label outside
	// the emotion set.
	ErrUnknownLabel = errors.New("booth: unknown emotion label")
	// ErrNoSource is returned when a regenerate is requested before any
	// pipeline run has supplied a source photo.
	ErrNoSource = errors.New("booth: no source image, run the pipeline first")
)

// Options configures a Pipeline.
type Options struct {
	Generator imageprovider.Generator
	Specs     []emotion.Spec
	Workers   int
	Logger    zerolog.Logger
}

// Pipeline fans one source photo out to every emotion in the set through a
// fixed pool of workers, publishing per-label results as requests settle.
// A label's failure becomes its error state and never aborts siblings.
type Pipeline struct {
	generator imageprovider.Generator
	specs     []emotion.Spec
	workers   int
	logger    zerolog.Logger
	results   *Results

	mu     sync.Mutex
	source imageprovider.SourceImage
	seeded bool
}

// New constructs a Pipeline. The default spec set is the full emotion set
// and the default pool width is two workers.
func New(opts Options) *Pipeline {
	specs := opts.Specs
	if len(specs) == 0 {
		specs = emotion.All()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	labels := make([]string, len(specs))
	for i, s := range specs {
		labels[i] = s.Label
	}
	return &Pipeline{
		generator: opts.Generator,
		specs:     specs,
		workers:   workers,
		logger:    opts.Logger,
		results:   NewResults(labels),
	}
}

// Results exposes the pipeline's store for consumers.
func (p *Pipeline) Results() *Results {
	return p.results
}

// Run generates every emotion for the given source photo and blocks until
// all labels have settled. Every label is seeded to pending up front; the
// spec queue is drained by the worker pool in declaration order, though
// completion order is whatever the provider returns.
func (p *Pipeline) Run(ctx context.Context, source imageprovider.SourceImage) {
	p.mu.Lock()
	p.source = source
	p.seeded = true
	p.mu.Unlock()

	for _, spec := range p.specs {
		p.results.set(spec.Label, Result{Status: StatusPending})
	}

	queue := make(chan emotion.Spec, len(p.specs))
	for _, spec := range p.specs {
		queue <- spec
	}
	close(queue)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for spec := range queue {
				p.generate(ctx, spec, source)
			}
		}()
	}
	wg.Wait()
}

// Regenerate re-runs a single label and blocks until it settles. While that
// label is already pending the call is a no-op and reports issued=false; a
// regenerate is a single request outside the worker pool and is not bounded
// by it.
func (p *Pipeline) Regenerate(ctx context.Context, label string) (bool, error) {
	spec, source, err := p.beginRegenerate(label)
	if err != nil || spec == nil {
		return false, err
	}
	p.generate(ctx, *spec, source)
	return true, nil
}

// RegenerateAsync applies the pending guard synchronously and lets the
// request settle in the background.
func (p *Pipeline) RegenerateAsync(ctx context.Context, label string) (bool, error) {
	spec, source, err := p.beginRegenerate(label)
	if err != nil || spec == nil {
		return false, err
	}
	go p.generate(ctx, *spec, source)
	return true, nil
}

func (p *Pipeline) beginRegenerate(label string) (*emotion.Spec, imageprovider.SourceImage, error) {
	var match *emotion.Spec
	for i := range p.specs {
		if p.specs[i].Label == label {
			match = &p.specs[i]
			break
		}
	}
	if match == nil {
		return nil, imageprovider.SourceImage{}, ErrUnknownLabel
	}

	p.mu.Lock()
	source, seeded := p.source, p.seeded
	p.mu.Unlock()
	if !seeded {
		return nil, imageprovider.SourceImage{}, ErrNoSource
	}

	if !p.results.markPending(label) {
		return nil, imageprovider.SourceImage{}, nil
	}
	return match, source, nil
}

// generate issues one provider request and publishes the terminal state for
// its label.
func (p *Pipeline) generate(ctx context.Context, spec emotion.Spec, source imageprovider.SourceImage) {
	requestID := uuid.NewString()
	asset, err := p.generator.Generate(ctx, imageprovider.GenerateRequest{
		Prompt:    emotion.BuildInstruction(spec),
		RequestID: requestID,
		Source:    source,
	})
	if err != nil {
		msg := failureMessage(err)
		p.logger.Warn().
			Str("request_id", requestID).
			Str("label", spec.Label).
			Err(err).
			Msg("booth: generation failed")
		p.results.set(spec.Label, Result{Status: StatusError, Err: msg})
		return
	}

	url := dataURLFor(asset)
	p.logger.Info().
		Str("request_id", requestID).
		Str("label", spec.Label).
		Int("bytes", len(asset.Data)).
		Msg("booth: generation done")
	p.results.set(spec.Label, Result{Status: StatusDone, URL: url})
}

// dataURLFor encodes a generated asset as a data URL, the form every
// consumer (status API, downloads, compositor) works with.
func dataURLFor(asset imageprovider.Asset) string {
	format := asset.Format
	if format == "" {
		format = "image/png"
	}
	return dataurl.New(asset.Data, format).String()
}

// failureMessage extracts the provider's human-readable explanation when it
// carries one, with a generic fallback.
func failureMessage(err error) string {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return "image generation failed"
}
