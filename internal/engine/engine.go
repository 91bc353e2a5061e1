package engine

import (
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/verte-zerg/nback/internal/model"
)

// BatchReport describes a finished batch.
type BatchReport struct {
	Number   int
	Level    int
	Planned  int
	Accuracy float64
	// Decision is set for daily batches.
	Decision *Decision
	// Unlocked is set when an adventure batch advanced the progression.
	Unlocked bool
}

// Snapshot is a read-only view of the engine after a mutation.
type Snapshot struct {
	Phase        Phase
	CurrentIndex int
	NLevel       int
	PendingInput string
	Combo        int
	Planned      int
	AnswersGiven int
	Shown        *model.Stimulus
	Remaining    time.Duration
	LastBatch    *BatchReport
	Session      model.Session
	Unlocked     int
	Aborted      bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithProgression sets the adventure progression state.
func WithProgression(p Progression) Option {
	return func(e *Engine) {
		e.progression = p
	}
}

// Engine is the round controller. Its methods are safe for concurrent use;
// calls are applied one at a time.
type Engine struct {
	mu sync.Mutex

	src         Source
	now         func() time.Time
	log         *slog.Logger
	progression Progression

	mode      Mode
	phase     Phase
	level     int
	nextLevel int
	planned   int
	queue     *Queue
	index     int
	pending   string
	offset    int
	batch     int
	acc       *Accumulator
	deadline  time.Time
	advanced  time.Time
	lastBatch *BatchReport
	session   model.Session
	aborted   bool
}

// New creates an idle engine drawing stimuli from src.
func New(src Source, opts ...Option) *Engine {
	e := &Engine{
		src:         src,
		now:         time.Now,
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		progression: NewProgression(1, DefaultMaxLevel),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Progression returns the current adventure progression.
func (e *Engine) Progression() Progression {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.progression
}

// Start begins a new session in mode at level.
func (e *Engine) Start(mode Mode, level int) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase.Active() {
		return e.snapshot(), ErrSessionActive
	}
	if level < 1 {
		return e.snapshot(), ErrInvalidLevel
	}
	if mode.Kind() == model.ModeAdventure && !e.progression.CanPlay(level) {
		return e.snapshot(), ErrLevelLocked
	}

	now := e.now()
	e.mode = mode
	e.acc = NewAccumulator(mode.Kind(), level, now)
	e.batch = 0
	e.lastBatch = nil
	e.aborted = false
	e.session = model.Session{}
	e.deadline = time.Time{}
	if b := mode.budget(); b > 0 {
		e.deadline = now.Add(b)
		e.acc.session.Duration = b
	}
	e.startBatch(level)
	e.log.Debug("session started",
		slog.String("mode", string(mode.Kind())),
		slog.Int("level", level),
		slog.Int("planned", e.planned))
	return e.snapshot(), nil
}

// SubmitDigit appends a digit to the pending answer and resolves it when
// complete. It is a no-op outside the answer and flush phases.
func (e *Engine) SubmitDigit(d int) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	if d < 0 || d > 9 || !e.phase.AcceptsDigits() {
		return e.snapshot()
	}
	target, ok := MatchTarget(e.queue, e.index, e.level)
	if !ok {
		// Target not buffered yet; wait rather than read past the queue.
		return e.snapshot()
	}
	e.pending += strconv.Itoa(d)
	switch CheckInput(e.pending, target) {
	case Correct:
		e.resolve(target, true)
	case Incorrect:
		e.resolve(target, false)
	}
	return e.snapshot()
}

// AcknowledgeMemorized advances past a memorize-only stimulus. Between daily
// batches it starts the next batch.
func (e *Engine) AcknowledgeMemorized() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.phase {
	case Memorize:
		e.index++
		e.advanced = e.now()
		e.refill()
		e.phase = e.cursorPhase()
	case BatchComplete:
		if e.timeUp() {
			e.finalize()
			break
		}
		e.startBatch(e.nextLevel)
	}
	return e.snapshot()
}

// Tick checks the time budget once and finalizes the session when it is
// spent, whatever the batch progress.
func (e *Engine) Tick() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase.Active() && e.timeUp() {
		e.log.Debug("time budget spent", slog.Int("answered", e.acc.Answered()))
		e.finalize()
	}
	return e.snapshot()
}

// Quit ends a running session early.
func (e *Engine) Quit() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase.Active() {
		e.aborted = true
		e.finalize()
	}
	return e.snapshot()
}

// Snapshot returns the current state without mutating it.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

func (e *Engine) startBatch(level int) {
	e.batch++
	e.level = level
	e.nextLevel = level
	e.planned = e.mode.plan(level)
	e.queue = &Queue{}
	e.index = 0
	e.pending = ""
	e.offset = e.acc.Answered()
	e.advanced = e.now()
	e.acc.SetLevel(level)
	e.refill()
	e.phase = e.cursorPhase()
}

func (e *Engine) refill() {
	ahead := e.mode.lookahead()
	if ahead <= 0 {
		ahead = e.planned
	}
	e.queue.Refill(e.index, ahead, e.planned, e.src)
}

func (e *Engine) cursorPhase() Phase {
	switch {
	case e.index < e.level:
		return Memorize
	case e.index < e.planned:
		return Answer
	default:
		return Flush
	}
}

func (e *Engine) answersGiven() int {
	return e.acc.Answered() - e.offset
}

func (e *Engine) resolve(target model.Stimulus, correct bool) {
	now := e.now()
	e.acc.Record(model.TrialResult{
		Question:      target.Expression,
		UserAnswer:    e.pending,
		CorrectAnswer: target.Answer,
		IsCorrect:     correct,
		StageLevel:    e.level,
		TimeTaken:     now.Sub(e.advanced),
	})
	e.pending = ""
	e.index++
	e.advanced = now
	if e.answersGiven() >= e.planned {
		e.completeBatch()
		return
	}
	e.refill()
	e.phase = e.cursorPhase()
}

func (e *Engine) completeBatch() {
	report := &BatchReport{
		Number:   e.batch,
		Level:    e.level,
		Planned:  e.planned,
		Accuracy: e.acc.BatchAccuracy(e.planned),
	}
	e.lastBatch = report

	switch m := e.mode.(type) {
	case Daily:
		d := m.Adaptive.Next(report.Accuracy, e.level)
		report.Decision = &d
		e.nextLevel = d.Level
		e.phase = BatchComplete
		e.log.Debug("batch complete",
			slog.Int("batch", report.Number),
			slog.Float64("accuracy", report.Accuracy),
			slog.String("direction", d.Direction.String()),
			slog.Int("next_level", d.Level))
		if e.timeUp() {
			e.finalize()
		}
	default:
		report.Unlocked = e.progression.Complete(e.level, report.Accuracy)
		e.log.Debug("batch complete",
			slog.Int("level", e.level),
			slog.Float64("accuracy", report.Accuracy),
			slog.Bool("unlocked", report.Unlocked))
		e.finalize()
	}
}

func (e *Engine) timeUp() bool {
	if e.deadline.IsZero() {
		return false
	}
	return !e.now().Before(e.deadline)
}

func (e *Engine) finalize() {
	e.session = e.acc.Finalize(e.planned, e.now())
	e.pending = ""
	e.phase = Finished
	e.log.Debug("session finalized",
		slog.Int("score", e.session.Score),
		slog.Int("total", e.session.TotalQuestions),
		slog.Bool("aborted", e.aborted))
}

func (e *Engine) snapshot() Snapshot {
	snap := Snapshot{
		Phase:        e.phase,
		CurrentIndex: e.index,
		NLevel:       e.level,
		PendingInput: e.pending,
		Planned:      e.planned,
		Unlocked:     e.progression.Unlocked,
		Aborted:      e.aborted,
	}
	if e.lastBatch != nil {
		report := *e.lastBatch
		if report.Decision != nil {
			d := *report.Decision
			report.Decision = &d
		}
		snap.LastBatch = &report
	}
	if e.acc == nil {
		return snap
	}
	snap.Combo = e.acc.Combo()
	if e.phase == Finished {
		snap.Session = e.session.Clone()
	} else {
		snap.Session = e.acc.Session()
	}
	snap.AnswersGiven = e.answersGiven()
	if e.phase == Memorize || e.phase == Answer {
		if s, ok := e.queue.At(e.index); ok {
			snap.Shown = &s
		}
	}
	if !e.deadline.IsZero() {
		if rem := e.deadline.Sub(e.now()); rem > 0 && e.phase != Finished {
			snap.Remaining = rem
		}
	}
	return snap
}
