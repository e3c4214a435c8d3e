package viewer

import (
	"context"
	"time"

	"github.com/starford/raidho/internal/modelcache"
	"github.com/starford/raidho/internal/models"
	"github.com/starford/raidho/internal/normalize"
	"github.com/starford/raidho/internal/render"
	"github.com/starford/raidho/internal/schedule"
	"github.com/starford/raidho/internal/sse"
)

// Options tune the controller's timers.
type Options struct {
	// AutoplayInterval is the fixed delay between autoplay advances.
	AutoplayInterval time.Duration
	// RotateTick is how often the shared rotation angle is re-applied.
	RotateTick time.Duration
	// RotateSpeed is the rotation rate in radians per second.
	RotateSpeed float64
}

func (o Options) withDefaults() Options {
	if o.AutoplayInterval <= 0 {
		o.AutoplayInterval = 2 * time.Second
	}
	if o.RotateTick <= 0 {
		o.RotateTick = 50 * time.Millisecond
	}
	if o.RotateSpeed == 0 {
		o.RotateSpeed = 0.5
	}
	return o
}

type intentKind int

const (
	intentShowModel intentKind = iota
	intentCellClick
	intentTickClick
	intentAutoplay
	intentRotate
	intentSwapSession
	intentSnapshot
)

type intent struct {
	kind         intentKind
	index        int
	file         string
	fromAutoplay bool
	enabled      bool
	session      *Session
	resp         chan models.StateSnapshot
}

// Controller is the navigation state machine. A single internal goroutine
// owns NavigationState and the active Session; the five UI entry points
// (slider, autoplay, schedule cell, timeline tick, toggles) all dispatch
// intents into the same loop, so every path converges on the same two
// effects: exactly one visible model, and a highlight consistent with it.
type Controller struct {
	engine render.Engine
	cache  *modelcache.Cache
	broker *sse.Broker
	norm   normalize.Normalizer
	opts   Options

	intentCh chan intent
	stopCh   chan struct{}
	stopped  chan struct{}
}

// navState is the loop-private mutable state.
type navState struct {
	session       *Session
	modelIndex    int
	timelineIndex int // -1 when unset
	autoplay      bool
	rotate        bool
	rotAngle      float64
	marks         []models.CellMark
	popup         models.Popup
}

// NewController creates and starts a controller.
func NewController(engine render.Engine, cache *modelcache.Cache, broker *sse.Broker, norm normalize.Normalizer, opts Options) *Controller {
	c := &Controller{
		engine:   engine,
		cache:    cache,
		broker:   broker,
		norm:     norm,
		opts:     opts.withDefaults(),
		intentCh: make(chan intent, 64),
		stopCh:   make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go c.run()
	return c
}

// Close stops the controller loop.
func (c *Controller) Close() {
	close(c.stopCh)
	<-c.stopped
}

// ShowModelAt navigates directly to a model index (slider drag, prev/next
// buttons). The index is clamped; explicit navigation stops autoplay.
func (c *Controller) ShowModelAt(i int) {
	c.dispatch(intent{kind: intentShowModel, index: i})
}

// CellClick handles a schedule-cell click carrying an explicit timeline
// index and optional associated filename.
func (c *Controller) CellClick(timelineIndex int, file string) {
	c.dispatch(intent{kind: intentCellClick, index: timelineIndex, file: file})
}

// TickClick handles a timeline-tick click: same precedence as CellClick,
// but an unresolved file only moves the highlight, never the model.
func (c *Controller) TickClick(timelineIndex int, file string) {
	c.dispatch(intent{kind: intentTickClick, index: timelineIndex, file: file})
}

// SetAutoplay starts or stops timer-driven advancement.
func (c *Controller) SetAutoplay(enabled bool) {
	c.dispatch(intent{kind: intentAutoplay, enabled: enabled})
}

// SetRotate starts or stops the shared rotation loop.
func (c *Controller) SetRotate(enabled bool) {
	c.dispatch(intent{kind: intentRotate, enabled: enabled})
}

// SwapSession replaces the active session wholesale (project switch) and
// shows the last model of the new set. Autoplay and rotation stop.
func (c *Controller) SwapSession(s *Session) {
	c.dispatch(intent{kind: intentSwapSession, session: s})
}

// Snapshot returns the current navigation state.
func (c *Controller) Snapshot() models.StateSnapshot {
	resp := make(chan models.StateSnapshot, 1)
	select {
	case c.intentCh <- intent{kind: intentSnapshot, resp: resp}:
	case <-c.stopped:
		return models.StateSnapshot{TimelineIndex: -1}
	}
	select {
	case snap := <-resp:
		return snap
	case <-c.stopped:
		return models.StateSnapshot{TimelineIndex: -1}
	}
}

func (c *Controller) dispatch(in intent) {
	select {
	case c.intentCh <- in:
	case <-c.stopped:
	}
}

func (c *Controller) run() {
	defer close(c.stopped)

	st := &navState{timelineIndex: -1}

	var autoplayC <-chan time.Time
	var autoplayTicker *time.Ticker
	var rotateC <-chan time.Time
	var rotateTicker *time.Ticker
	var lastRotate time.Time

	stopAutoplay := func() {
		if autoplayTicker != nil {
			autoplayTicker.Stop()
			autoplayTicker = nil
			autoplayC = nil
		}
		st.autoplay = false
	}
	startAutoplay := func() {
		if autoplayTicker == nil {
			autoplayTicker = time.NewTicker(c.opts.AutoplayInterval)
			autoplayC = autoplayTicker.C
		}
		st.autoplay = true
	}
	stopRotate := func() {
		if rotateTicker != nil {
			rotateTicker.Stop()
			rotateTicker = nil
			rotateC = nil
		}
		st.rotate = false
	}
	startRotate := func() {
		if rotateTicker == nil {
			rotateTicker = time.NewTicker(c.opts.RotateTick)
			rotateC = rotateTicker.C
			lastRotate = time.Now()
		}
		st.rotate = true
	}

	defer stopAutoplay()
	defer stopRotate()

	for {
		select {
		case <-c.stopCh:
			return

		case <-autoplayC:
			if st.session == nil || len(st.session.Models) == 0 {
				continue
			}
			next := (st.modelIndex + 1) % len(st.session.Models)
			c.showModelAt(st, next, true, stopAutoplay)
			c.publishState(st)

		case now := <-rotateC:
			// Advance the shared angle by wall-clock delta and apply it
			// to every instantiated model, not just the visible one.
			st.rotAngle += c.opts.RotateSpeed * now.Sub(lastRotate).Seconds()
			lastRotate = now
			c.engine.SetRotation(st.rotAngle)

		case in := <-c.intentCh:
			switch in.kind {
			case intentShowModel:
				c.showModelAt(st, in.index, false, stopAutoplay)
				c.publishState(st)

			case intentCellClick:
				c.cellClick(st, in.index, in.file, stopAutoplay)
				c.publishState(st)

			case intentTickClick:
				c.tickClick(st, in.index, in.file, stopAutoplay)
				c.publishState(st)

			case intentAutoplay:
				if in.enabled && st.session != nil && len(st.session.Models) > 0 {
					startAutoplay()
				} else {
					stopAutoplay()
				}
				c.publishState(st)

			case intentRotate:
				if in.enabled {
					startRotate()
				} else {
					stopRotate()
				}
				c.publishState(st)

			case intentSwapSession:
				stopAutoplay()
				stopRotate()
				st.session = in.session
				st.timelineIndex = -1
				st.marks = nil
				st.popup = models.Popup{}
				if st.session != nil && len(st.session.Models) > 0 {
					c.showModelAt(st, len(st.session.Models)-1, false, stopAutoplay)
				} else {
					st.modelIndex = 0
				}
				c.publishState(st)

			case intentSnapshot:
				in.resp <- c.snapshot(st)
			}
		}
	}
}

// showModelAt is entry point 1: clamp, stop autoplay unless the call came
// from the autoplay tick, show exactly one model, preload the
// neighborhood, then derive the timeline index from the model's key. A
// model with no schedule mapping keeps the previous highlight rather than
// clearing it.
func (c *Controller) showModelAt(st *navState, i int, fromAutoplay bool, stopAutoplay func()) {
	if st.session == nil || len(st.session.Models) == 0 {
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= len(st.session.Models) {
		i = len(st.session.Models) - 1
	}
	if !fromAutoplay {
		stopAutoplay()
	}

	st.modelIndex = i
	m := st.session.Models[i]
	c.engine.ShowOnly(m.Handle)
	c.cache.PreloadAround(context.Background(), i, st.session.ModelNames(), st.session.Project.BasePath)

	if ti, ok := st.session.TimelineByKey(m.Key); ok {
		st.timelineIndex = ti
	}
	c.applyHighlight(st)
}

// cellClick is entry point 3: the explicit timeline index is
// authoritative over whatever showModelAt derives. An unresolved file
// falls back to treating the timeline index as a model index.
func (c *Controller) cellClick(st *navState, timelineIndex int, file string, stopAutoplay func()) {
	if st.session == nil {
		return
	}
	if mi, ok := st.session.ModelByKey(c.norm.Key(file)); ok {
		c.showModelAt(st, mi, false, stopAutoplay)
	} else {
		c.showModelAt(st, timelineIndex, false, stopAutoplay)
	}
	st.timelineIndex = timelineIndex
	c.applyHighlight(st)
}

// tickClick is entry point 4: like cellClick, but an unresolved file only
// moves the highlight, never the model.
func (c *Controller) tickClick(st *navState, timelineIndex int, file string, stopAutoplay func()) {
	if st.session == nil {
		return
	}
	if mi, ok := st.session.ModelByKey(c.norm.Key(file)); ok {
		c.showModelAt(st, mi, false, stopAutoplay)
	}
	st.timelineIndex = timelineIndex
	c.applyHighlight(st)
}

// applyHighlight recomputes marks and popup from the current timeline
// index. When projection reports a no-op (no event, unparseable date) the
// previous marks stay as they are.
func (c *Controller) applyHighlight(st *navState) {
	if st.session == nil {
		return
	}
	if marks, ok := schedule.Project(st.timelineIndex, st.session.Events); ok {
		st.marks = marks
	}
	st.popup = schedule.Neighbors(st.timelineIndex, st.session.Events)
}

func (c *Controller) snapshot(st *navState) models.StateSnapshot {
	snap := models.StateSnapshot{
		ModelIndex:    st.modelIndex,
		TimelineIndex: st.timelineIndex,
		Autoplay:      st.autoplay,
		Rotate:        st.rotate,
		Marks:         st.marks,
		Popup:         st.popup,
		UpdatedAt:     time.Now(),
	}
	if st.session != nil {
		snap.Project = st.session.Project.Code
		snap.DisplayName = st.session.Project.DisplayName
		snap.ModelCount = len(st.session.Models)
		snap.EventCount = len(st.session.Events)
		snap.ScheduleStatus = st.session.ScheduleStatus
		if st.modelIndex < len(st.session.Models) {
			snap.ModelName = st.session.Models[st.modelIndex].OriginalName
		}
	}
	return snap
}

func (c *Controller) publishState(st *navState) {
	c.broker.PublishState(c.snapshot(st))
}
