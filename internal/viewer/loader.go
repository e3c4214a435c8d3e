package viewer

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync/atomic"

	"github.com/starford/raidho/internal/apperr"
	"github.com/starford/raidho/internal/assets"
	"github.com/starford/raidho/internal/camera"
	"github.com/starford/raidho/internal/index"
	"github.com/starford/raidho/internal/modelcache"
	"github.com/starford/raidho/internal/models"
	"github.com/starford/raidho/internal/normalize"
	"github.com/starford/raidho/internal/render"
	"github.com/starford/raidho/internal/schedule"
	"github.com/starford/raidho/internal/sse"
)

// Loader orchestrates a project load: manifest, sequential model loads
// with cache reuse, camera fit, then the supplementary schedule. Loads
// are guarded by a single in-flight flag; a concurrent request is
// rejected rather than raced.
type Loader struct {
	provider assets.Provider
	cache    *modelcache.Cache
	engine   render.Engine
	ctrl     *Controller
	broker   *sse.Broker
	db       index.EventIndex
	norm     normalize.Normalizer
	logger   *slog.Logger

	loading atomic.Bool
}

// NewLoader creates a Loader. db may be nil when no schedule search index
// is configured.
func NewLoader(provider assets.Provider, cache *modelcache.Cache, engine render.Engine, ctrl *Controller, broker *sse.Broker, db index.EventIndex, norm normalize.Normalizer, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		provider: provider,
		cache:    cache,
		engine:   engine,
		ctrl:     ctrl,
		broker:   broker,
		db:       db,
		norm:     norm,
		logger:   logger,
	}
}

// Start begins an asynchronous project load. It returns
// apperr.ErrLoadInFlight when another load is still running; the load
// outcome itself is reported through status and state events.
func (l *Loader) Start(project models.Project, overrides url.Values) error {
	if !l.loading.CompareAndSwap(false, true) {
		return apperr.ErrLoadInFlight
	}
	go func() {
		defer l.loading.Store(false)
		if err := l.load(context.Background(), project, overrides); err != nil {
			l.logger.Error("project load failed",
				slog.String("project", project.Code),
				slog.String("error", err.Error()))
		}
	}()
	return nil
}

// Load runs a project load synchronously, for callers that need the
// outcome. The same in-flight guard applies.
func (l *Loader) Load(ctx context.Context, project models.Project, overrides url.Values) error {
	if !l.loading.CompareAndSwap(false, true) {
		return apperr.ErrLoadInFlight
	}
	defer l.loading.Store(false)
	return l.load(ctx, project, overrides)
}

func (l *Loader) load(ctx context.Context, project models.Project, overrides url.Values) error {
	files, err := l.provider.Manifest(ctx, project.BasePath)
	if err != nil {
		// A previously displayed project stays visually intact: the
		// engine is not reset until the manifest is known to be good.
		l.broker.PublishStatus(fmt.Sprintf("failed to load %s: %v", project.DisplayName, err))
		return err
	}

	l.engine.Reset()

	entries := make([]models.ModelEntry, 0, len(files))
	for i, f := range files {
		data, err := l.cache.Load(ctx, project.BasePath, f)
		if err != nil {
			// Partial-success policy: a failing file never aborts the
			// remaining loads.
			l.logger.Warn("model load failed",
				slog.String("project", project.Code),
				slog.String("file", f),
				slog.String("error", err.Error()))
			l.broker.PublishProgress(i+1, len(files), f)
			continue
		}
		handle, err := l.engine.Load(project.BasePath, f, data)
		if err != nil {
			l.logger.Warn("model rejected by renderer",
				slog.String("project", project.Code),
				slog.String("file", f),
				slog.String("error", err.Error()))
			l.broker.PublishProgress(i+1, len(files), f)
			continue
		}
		entries = append(entries, models.ModelEntry{
			OriginalName: f,
			Key:          l.norm.Key(f),
			Handle:       handle,
		})
		l.broker.PublishProgress(i+1, len(files), f)
	}

	if len(entries) == 0 {
		l.broker.PublishStatus(fmt.Sprintf("no models found for %s", project.DisplayName))
		return fmt.Errorf("%w: no models loaded for %s", apperr.ErrAssetLoad, project.Code)
	}

	l.engine.SetCamera(camera.Resolve(project, overrides))

	events, scheduleStatus := l.loadSchedule(ctx, project)

	l.ctrl.SwapSession(NewSession(project, files, entries, events, scheduleStatus))
	l.broker.PublishStatus(fmt.Sprintf("loaded %d of %d models for %s", len(entries), len(files), project.DisplayName))
	return nil
}

// loadSchedule fetches and derives the timeline events. The schedule is
// supplementary: on any failure the models stay browsable and only the
// schedule area carries the error.
func (l *Loader) loadSchedule(ctx context.Context, project models.Project) ([]models.TimelineEvent, string) {
	data, err := l.provider.Schedule(ctx, project.BasePath)
	if err != nil {
		return nil, l.scheduleError(project, err)
	}
	members, err := schedule.Parse(data)
	if err != nil {
		return nil, l.scheduleError(project, err)
	}
	events := schedule.BuildEvents(members, l.norm)

	if l.db != nil {
		if err := l.db.ReplaceProject(project.Code, events); err != nil {
			l.logger.Warn("schedule index rebuild failed",
				slog.String("project", project.Code),
				slog.String("error", err.Error()))
		}
	}
	return events, ""
}

func (l *Loader) scheduleError(project models.Project, err error) string {
	l.logger.Warn("schedule load failed",
		slog.String("project", project.Code),
		slog.String("error", err.Error()))
	msg := fmt.Sprintf("schedule unavailable for %s", project.DisplayName)
	l.broker.PublishScheduleError(msg)
	return msg
}
