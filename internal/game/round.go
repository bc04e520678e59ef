package game

import "time"

// State identifies the round controller's current phase.
type State int

const (
	StateIdle State = iota
	StatePresenting
	StateAwaitingInput
	StateRoundComplete
	StateGameOver
)

var stateName = map[State]string{
	StateIdle:          "idle",
	StatePresenting:    "presenting",
	StateAwaitingInput: "awaiting_input",
	StateRoundComplete: "round_complete",
	StateGameOver:      "game_over",
}

// String returns the lowercase state name.
func (s State) String() string {
	return stateName[s]
}

// Sequencer supplies the pad appended to the sequence at each round
// advance. *Generator is the production implementation.
type Sequencer interface {
	Next() Pad
}

// Audio is the cue output the controller fires into. Implementations must
// not block; failures degrade silently.
type Audio interface {
	PlayPad(Pad)
	PlayError()
}

// Scores persists the best level reached. Best-effort; an implementation
// that loses writes must still return a non-negative value from Best.
type Scores interface {
	Best() int
	SetBest(int)
}

// Options holds the controller's tuning constants. They shape pacing and
// input filtering, not correctness.
type Options struct {
	StepDelay    time.Duration // per-step delay at level 1
	MinStepDelay time.Duration // pacing floor
	DelayRamp    time.Duration // per-level speed-up
	RoundPause   time.Duration // gap between a completed replay and the next presentation
	Debounce     time.Duration // window for dropping duplicate inputs
}

// DefaultOptions returns the stock pacing and debounce constants.
func DefaultOptions() Options {
	return Options{
		StepDelay:    800 * time.Millisecond,
		MinStepDelay: 250 * time.Millisecond,
		DelayRamp:    40 * time.Millisecond,
		RoundPause:   800 * time.Millisecond,
		Debounce:     100 * time.Millisecond,
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.StepDelay <= 0 {
		o.StepDelay = def.StepDelay
	}
	if o.MinStepDelay <= 0 {
		o.MinStepDelay = def.MinStepDelay
	}
	if o.MinStepDelay > o.StepDelay {
		o.MinStepDelay = o.StepDelay
	}
	if o.DelayRamp < 0 {
		o.DelayRamp = def.DelayRamp
	}
	if o.RoundPause <= 0 {
		o.RoundPause = def.RoundPause
	}
	if o.Debounce < 0 {
		o.Debounce = def.Debounce
	}
	return o
}

// StepResult reports the effect of one presentation step.
type StepResult struct {
	Active bool          // a pad was flashed
	Lit    Pad           // the flashed pad, valid when Active
	Next   time.Duration // delay until the next Step call; zero when none is due
	Done   bool          // presentation finished, controller now awaits input
}

// Outcome classifies the effect of a pad press.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeMatch
	OutcomeRoundComplete
	OutcomeGameOver
)

// PressResult reports the effect of a pad press.
type PressResult struct {
	Outcome Outcome
	Level   int           // sequence length at the time of the press
	Next    time.Duration // delay before the next presentation, set on RoundComplete
}

// Controller owns the round state machine. It is single-threaded by
// contract: the caller serializes Start, Step, and Press, and drives the
// delays returned by them with its own timers. Steps carry the epoch they
// were scheduled under so a timer surviving a reset cannot corrupt the
// newer round.
type Controller struct {
	opts   Options
	gen    Sequencer
	audio  Audio
	scores Scores

	onGameOver func(level int)

	state      State
	seq        []Pad
	pos        int // presentation position within seq
	expected   int // player position within seq
	epoch      int
	lastInput  time.Time
	finalLevel int
}

// New constructs an idle controller.
func New(gen Sequencer, audio Audio, scores Scores, opts Options) *Controller {
	return &Controller{
		opts:   opts.normalized(),
		gen:    gen,
		audio:  audio,
		scores: scores,
		state:  StateIdle,
	}
}

// SetGameOverObserver registers a callback invoked with the final level
// whenever a round ends in a mismatch.
func (c *Controller) SetGameOverObserver(fn func(level int)) {
	c.onGameOver = fn
}

// State returns the current phase.
func (c *Controller) State() State {
	return c.state
}

// Level returns the current sequence length.
func (c *Controller) Level() int {
	return len(c.seq)
}

// Sequence returns a copy of the current target pattern.
func (c *Controller) Sequence() []Pad {
	out := make([]Pad, len(c.seq))
	copy(out, c.seq)
	return out
}

// Epoch returns the current presentation epoch. Timers scheduled under an
// older epoch are ignored by Step.
func (c *Controller) Epoch() int {
	return c.epoch
}

// FinalLevel returns the level reached by the last finished game.
func (c *Controller) FinalLevel() int {
	return c.finalLevel
}

// Start begins a new game from Idle or GameOver: the sequence is reset to a
// single random pad and presentation is scheduled. It reports the epoch and
// the delay before the first Step call; ok is false when the controller is
// mid-game and the command has no effect.
func (c *Controller) Start(now time.Time) (epoch int, delay time.Duration, ok bool) {
	if c.state != StateIdle && c.state != StateGameOver {
		return 0, 0, false
	}
	c.epoch++
	c.seq = []Pad{c.gen.Next()}
	c.pos = 0
	c.expected = 0
	c.lastInput = time.Time{}
	c.state = StatePresenting
	return c.epoch, c.stepDelay(), true
}

// Step advances the presentation by one pad. Calls carrying a stale epoch,
// or arriving outside Presenting/RoundComplete, are inert.
func (c *Controller) Step(epoch int, now time.Time) StepResult {
	if epoch != c.epoch {
		return StepResult{}
	}
	if c.state == StateRoundComplete {
		// Auto-transition: the satisfied sequence grows by one and is
		// presented again.
		c.seq = append(c.seq, c.gen.Next())
		c.pos = 0
		c.state = StatePresenting
	}
	if c.state != StatePresenting {
		return StepResult{}
	}
	if c.pos >= len(c.seq) {
		c.state = StateAwaitingInput
		c.expected = 0
		return StepResult{Done: true}
	}
	p := c.seq[c.pos]
	c.audio.PlayPad(p)
	c.pos++
	return StepResult{Active: true, Lit: p, Next: c.stepDelay()}
}

// Press applies a pad press. Presses outside AwaitingInput and presses
// within the debounce window of the previously accepted press are dropped
// without state effect. A mismatch is immediately fatal: the error cue
// fires, the high score is persisted, the observer is notified, and the
// round state resets.
func (c *Controller) Press(p Pad, now time.Time) PressResult {
	if c.state != StateAwaitingInput {
		return PressResult{Outcome: OutcomeIgnored}
	}
	if !c.lastInput.IsZero() && now.Sub(c.lastInput) < c.opts.Debounce {
		return PressResult{Outcome: OutcomeIgnored}
	}
	c.lastInput = now

	level := len(c.seq)
	if p != c.seq[c.expected] {
		c.audio.PlayError()
		c.persistBest(level)
		c.finalLevel = level
		c.seq = nil
		c.pos = 0
		c.expected = 0
		c.epoch++
		c.state = StateGameOver
		if c.onGameOver != nil {
			c.onGameOver(level)
		}
		return PressResult{Outcome: OutcomeGameOver, Level: level}
	}

	c.audio.PlayPad(p)
	c.expected++
	if c.expected == len(c.seq) {
		c.persistBest(level)
		c.state = StateRoundComplete
		return PressResult{Outcome: OutcomeRoundComplete, Level: level, Next: c.opts.RoundPause}
	}
	return PressResult{Outcome: OutcomeMatch, Level: level}
}

// StepDelay exposes the current per-step presentation delay.
func (c *Controller) StepDelay() time.Duration {
	return c.stepDelay()
}

func (c *Controller) stepDelay() time.Duration {
	level := len(c.seq)
	if level < 1 {
		level = 1
	}
	d := c.opts.StepDelay - time.Duration(level-1)*c.opts.DelayRamp
	if d < c.opts.MinStepDelay {
		d = c.opts.MinStepDelay
	}
	return d
}

func (c *Controller) persistBest(level int) {
	if level > c.scores.Best() {
		c.scores.SetBest(level)
	}
}
