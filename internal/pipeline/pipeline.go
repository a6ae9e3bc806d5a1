// Package pipeline drives one rendering run: resolve the input file, extract
// the fields, align the time steps, and render the frame sequence.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pantanalmet/meteogram/internal/config"
	"github.com/pantanalmet/meteogram/internal/domain"
	"github.com/pantanalmet/meteogram/internal/observability"
)

// Extractor produces a dataset from one model output file.
type Extractor interface {
	Extract(path string) (*domain.ModelDataset, error)
}

// FrameRenderer renders one time step to an image file and returns its path.
type FrameRenderer interface {
	RenderFrame(ds *domain.ModelDataset, step int, label domain.TimeLabel) (string, error)
}

// Summary reports the outcome of a completed run.
type Summary struct {
	InputPath string
	Frames    int
	OutputDir string
	Elapsed   time.Duration
}

// Pipeline orchestrates extract, align, and render for a single run. Runs are
// strictly sequential and all-or-nothing: the first failure aborts with no
// retry.
type Pipeline struct {
	cfg        *config.Config
	extractor  Extractor
	renderer   FrameRenderer
	logger     *slog.Logger
	metrics    *observability.Metrics
	clock      clockwork.Clock
	framesDone atomic.Int64
}

// New creates a Pipeline with the given stages and observability.
func New(cfg *config.Config, e Extractor, r FrameRenderer, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		extractor: e,
		renderer:  r,
		logger:    logger,
		metrics:   metrics,
		clock:     clock,
	}
}

// CheckReadiness returns nil once at least one frame has been rendered.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.framesDone.Load() == 0 {
		return errors.New("no frames rendered yet")
	}
	return nil
}

// ResolveInput locates the run's model output file inside the date/hour-keyed
// transfer directory. Zero matches is ErrNoInputFile. Multiple matches take
// the lexicographically first unless strict matching is configured, which
// fails with ErrAmbiguousInput instead.
func (p *Pipeline) ResolveInput(date string, hour int) (string, error) {
	dir := filepath.Join(p.cfg.InputRoot, date+strconv.Itoa(hour))
	matches, err := filepath.Glob(filepath.Join(dir, p.cfg.InputPattern))
	if err != nil {
		return "", fmt.Errorf("bad input pattern %q: %w", p.cfg.InputPattern, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w in %s", domain.ErrNoInputFile, dir)
	}
	sort.Strings(matches)
	if len(matches) > 1 {
		if p.cfg.StrictMatch {
			return "", fmt.Errorf("%w: %d files in %s", domain.ErrAmbiguousInput, len(matches), dir)
		}
		p.logger.Warn("multiple input files match, taking first",
			"dir", dir, "matches", len(matches), "chosen", matches[0])
	}
	return matches[0], nil
}

// Run executes one complete meteogram run for the given reference date and
// cycle hour. Frames are emitted in step order; the first error aborts the
// remainder.
func (p *Pipeline) Run(ctx context.Context, date string, hour int) (*Summary, error) {
	start := p.clock.Now()
	p.metrics.RunActive.Set(1)
	defer p.metrics.RunActive.Set(0)

	inputPath, err := p.ResolveInput(date, hour)
	if err != nil {
		return nil, err
	}
	p.logger.Info("input resolved", "path", inputPath)

	ds, err := p.extractor.Extract(inputPath)
	if err != nil {
		return nil, err
	}
	p.metrics.DatasetTimeSteps.Observe(float64(ds.Steps()))

	ref, err := domain.ParseReference(date, hour, p.cfg.SourceLoc)
	if err != nil {
		return nil, err
	}
	labels := domain.AlignTimes(ref, ds.Steps(), p.cfg.TargetLoc)

	for step, label := range labels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frameStart := p.clock.Now()
		path, err := p.renderer.RenderFrame(ds, step, label)
		if err != nil {
			p.metrics.RenderErrors.Inc()
			return nil, fmt.Errorf("frame %03d: %w", step, err)
		}
		p.metrics.FramesRendered.Inc()
		p.metrics.FrameRenderDuration.Observe(p.clock.Since(frameStart).Seconds())
		p.framesDone.Add(1)
		p.logger.Debug("frame rendered", "step", step, "label", label.Display, "path", path)
	}

	summary := &Summary{
		InputPath: inputPath,
		Frames:    len(labels),
		OutputDir: p.cfg.OutputDir,
		Elapsed:   p.clock.Since(start),
	}
	p.metrics.RunDuration.Observe(summary.Elapsed.Seconds())
	p.logger.Info("run complete",
		"frames", summary.Frames, "output_dir", summary.OutputDir, "elapsed", summary.Elapsed)
	return summary, nil
}
