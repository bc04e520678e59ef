package game

import (
	"testing"
	"time"
)

type scriptedSeq struct {
	pads []Pad
	i    int
}

func (s *scriptedSeq) Next() Pad {
	p := s.pads[s.i%len(s.pads)]
	s.i++
	return p
}

type recordedAudio struct {
	pads   []Pad
	errors int
}

func (a *recordedAudio) PlayPad(p Pad) { a.pads = append(a.pads, p) }
func (a *recordedAudio) PlayError()    { a.errors++ }

type memScores struct {
	best int
	sets int
}

func (s *memScores) Best() int     { return s.best }
func (s *memScores) SetBest(v int) { s.best = v; s.sets++ }

func newTestController(seq Sequencer, scores *memScores) (*Controller, *recordedAudio) {
	audio := &recordedAudio{}
	return New(seq, audio, scores, DefaultOptions()), audio
}

// present drives Step until the controller awaits input.
func present(t *testing.T, c *Controller, epoch int, now time.Time) time.Time {
	t.Helper()
	for i := 0; i < 100; i++ {
		res := c.Step(epoch, now)
		now = now.Add(time.Second)
		if res.Done {
			return now
		}
		if !res.Active {
			t.Fatalf("presentation stalled in state %s", c.State())
		}
	}
	t.Fatalf("presentation never finished")
	return now
}

// replay presses the full current sequence with well-spaced inputs.
func replay(t *testing.T, c *Controller, now time.Time) (PressResult, time.Time) {
	t.Helper()
	seq := c.Sequence()
	var last PressResult
	for _, p := range seq {
		last = c.Press(p, now)
		now = now.Add(time.Second)
		if last.Outcome == OutcomeIgnored {
			t.Fatalf("press %s ignored in state %s", p, c.State())
		}
	}
	return last, now
}

func TestSequenceLengthAfterNRounds(t *testing.T) {
	c, _ := newTestController(NewGeneratorSeeded(42), &memScores{})
	now := time.Unix(0, 0)

	epoch, _, ok := c.Start(now)
	if !ok {
		t.Fatalf("start rejected from idle")
	}
	const rounds = 5
	for i := 1; i <= rounds; i++ {
		now = present(t, c, epoch, now)
		if got := c.Level(); got != i {
			t.Fatalf("round %d: level = %d", i, got)
		}
		res, after := replay(t, c, now)
		now = after
		if res.Outcome != OutcomeRoundComplete {
			t.Fatalf("round %d: outcome = %v", i, res.Outcome)
		}
	}
	// RoundComplete auto-advances on the next scheduled step.
	res := c.Step(epoch, now)
	if !res.Active {
		t.Fatalf("expected first step of next round")
	}
	if got := c.Level(); got != rounds+1 {
		t.Fatalf("level after advance = %d, want %d", got, rounds+1)
	}
}

func TestRoundCompleteKeepsPrefix(t *testing.T) {
	c, _ := newTestController(&scriptedSeq{pads: []Pad{PadGreen, PadRed}}, &memScores{})
	now := time.Unix(0, 0)

	epoch, _, _ := c.Start(now)
	now = present(t, c, epoch, now)
	res := c.Press(PadGreen, now)
	if res.Outcome != OutcomeRoundComplete {
		t.Fatalf("outcome = %v, want round complete", res.Outcome)
	}
	now = now.Add(res.Next)
	c.Step(epoch, now)
	seq := c.Sequence()
	if len(seq) != 2 {
		t.Fatalf("sequence length = %d, want 2", len(seq))
	}
	if seq[0] != PadGreen {
		t.Fatalf("sequence[0] = %s, want green", seq[0])
	}
}

func TestMismatchIsImmediatelyFatal(t *testing.T) {
	scores := &memScores{}
	c, audio := newTestController(&scriptedSeq{pads: []Pad{PadGreen, PadRed}}, scores)
	now := time.Unix(0, 0)

	var observed int
	c.SetGameOverObserver(func(level int) { observed = level })

	epoch, _, _ := c.Start(now)
	now = present(t, c, epoch, now)
	c.Press(PadGreen, now)
	now = now.Add(time.Second)
	c.Step(epoch, now) // grow to [green, red]
	now = present(t, c, epoch, now)

	if res := c.Press(PadGreen, now); res.Outcome != OutcomeMatch {
		t.Fatalf("first press outcome = %v", res.Outcome)
	}
	now = now.Add(time.Second)
	res := c.Press(PadYellow, now)
	if res.Outcome != OutcomeGameOver {
		t.Fatalf("mismatch outcome = %v", res.Outcome)
	}
	if res.Level != 2 || c.FinalLevel() != 2 || observed != 2 {
		t.Fatalf("final level = %d/%d/%d, want 2", res.Level, c.FinalLevel(), observed)
	}
	if c.State() != StateGameOver {
		t.Fatalf("state = %s", c.State())
	}
	if c.Level() != 0 {
		t.Fatalf("sequence not cleared: level = %d", c.Level())
	}
	if audio.errors != 1 {
		t.Fatalf("error cues = %d, want 1", audio.errors)
	}
	if scores.best < 2 {
		t.Fatalf("best = %d, want >= 2", scores.best)
	}
}

func TestMismatchAtFirstIndex(t *testing.T) {
	c, _ := newTestController(&scriptedSeq{pads: []Pad{PadBlue}}, &memScores{})
	now := time.Unix(0, 0)
	epoch, _, _ := c.Start(now)
	now = present(t, c, epoch, now)
	if res := c.Press(PadRed, now); res.Outcome != OutcomeGameOver {
		t.Fatalf("outcome = %v, want game over", res.Outcome)
	}
}

func TestHighScoreIsMonotonic(t *testing.T) {
	scores := &memScores{best: 5}
	c, _ := newTestController(&scriptedSeq{pads: []Pad{PadGreen}}, scores)
	now := time.Unix(0, 0)

	// Reach level 3, then fail: the stored 5 must survive.
	epoch, _, _ := c.Start(now)
	for i := 0; i < 2; i++ {
		now = present(t, c, epoch, now)
		_, after := replay(t, c, now)
		now = after
		c.Step(epoch, now)
		now = now.Add(time.Second)
	}
	now = present(t, c, epoch, now)
	res := c.Press(PadRed, now)
	if res.Outcome != OutcomeGameOver || res.Level != 3 {
		t.Fatalf("outcome = %v level = %d", res.Outcome, res.Level)
	}
	if scores.best != 5 {
		t.Fatalf("best = %d, want 5 preserved", scores.best)
	}
	if scores.sets != 0 {
		t.Fatalf("unnecessary writes: %d", scores.sets)
	}
}

func TestDebounceDropsNearDuplicates(t *testing.T) {
	c, _ := newTestController(&scriptedSeq{pads: []Pad{PadGreen, PadRed}}, &memScores{})
	now := time.Unix(0, 0)
	epoch, _, _ := c.Start(now)
	now = present(t, c, epoch, now)
	c.Press(PadGreen, now)
	c.Step(epoch, now)
	now = present(t, c, epoch, now)

	if res := c.Press(PadGreen, now); res.Outcome != OutcomeMatch {
		t.Fatalf("first press outcome = %v", res.Outcome)
	}
	// A bounce 50ms later must not advance or kill the round, even though
	// the pad no longer matches the expected index.
	bounce := now.Add(50 * time.Millisecond)
	if res := c.Press(PadGreen, bounce); res.Outcome != OutcomeIgnored {
		t.Fatalf("bounce outcome = %v, want ignored", res.Outcome)
	}
	// The same press outside the window finishes the round.
	later := now.Add(150 * time.Millisecond)
	if res := c.Press(PadRed, later); res.Outcome != OutcomeRoundComplete {
		t.Fatalf("outcome = %v, want round complete", res.Outcome)
	}
}

func TestInputIgnoredWhilePresenting(t *testing.T) {
	c, audio := newTestController(&scriptedSeq{pads: []Pad{PadGreen}}, &memScores{})
	now := time.Unix(0, 0)
	epoch, _, _ := c.Start(now)

	if res := c.Press(PadGreen, now); res.Outcome != OutcomeIgnored {
		t.Fatalf("press during presenting: outcome = %v", res.Outcome)
	}
	cues := len(audio.pads)
	c.Step(epoch, now)
	if res := c.Press(PadGreen, now); res.Outcome != OutcomeIgnored {
		t.Fatalf("press mid-presentation: outcome = %v", res.Outcome)
	}
	if len(audio.pads) != cues+1 {
		t.Fatalf("player press produced a cue while presenting")
	}
}

func TestStartIgnoredMidGame(t *testing.T) {
	c, _ := newTestController(&scriptedSeq{pads: []Pad{PadGreen}}, &memScores{})
	now := time.Unix(0, 0)
	epoch, _, ok := c.Start(now)
	if !ok {
		t.Fatalf("start rejected from idle")
	}
	if _, _, ok := c.Start(now); ok {
		t.Fatalf("start accepted while presenting")
	}
	now = present(t, c, epoch, now)
	if _, _, ok := c.Start(now); ok {
		t.Fatalf("start accepted while awaiting input")
	}
}

func TestRetryAfterGameOverStartsFresh(t *testing.T) {
	c, _ := newTestController(&scriptedSeq{pads: []Pad{PadGreen}}, &memScores{})
	now := time.Unix(0, 0)
	epoch, _, _ := c.Start(now)
	now = present(t, c, epoch, now)
	c.Press(PadRed, now)

	epoch2, _, ok := c.Start(now)
	if !ok {
		t.Fatalf("retry rejected from game over")
	}
	if epoch2 == epoch {
		t.Fatalf("retry reused epoch %d", epoch)
	}
	if c.State() != StatePresenting || c.Level() != 1 {
		t.Fatalf("retry state = %s level = %d", c.State(), c.Level())
	}
}

func TestStaleEpochStepIsInert(t *testing.T) {
	c, audio := newTestController(&scriptedSeq{pads: []Pad{PadGreen}}, &memScores{})
	now := time.Unix(0, 0)
	oldEpoch, _, _ := c.Start(now)
	now = present(t, c, oldEpoch, now)
	c.Press(PadRed, now) // game over bumps the epoch

	epoch, _, _ := c.Start(now)
	cues := len(audio.pads)
	if res := c.Step(oldEpoch, now); res.Active || res.Done {
		t.Fatalf("stale step had effect: %+v", res)
	}
	if len(audio.pads) != cues {
		t.Fatalf("stale step produced a cue")
	}
	if res := c.Step(epoch, now); !res.Active {
		t.Fatalf("current-epoch step inert")
	}
}

func TestStepDelayNonIncreasingWithFloor(t *testing.T) {
	opts := DefaultOptions()
	c := New(NewGeneratorSeeded(7), &recordedAudio{}, &memScores{}, opts)
	now := time.Unix(0, 0)
	epoch, _, _ := c.Start(now)

	prev := c.StepDelay()
	for i := 0; i < 30; i++ {
		now = present(t, c, epoch, now)
		_, after := replay(t, c, now)
		now = after
		c.Step(epoch, now)
		now = now.Add(time.Second)
		d := c.StepDelay()
		if d > prev {
			t.Fatalf("delay increased at level %d: %v > %v", c.Level(), d, prev)
		}
		if d < opts.MinStepDelay {
			t.Fatalf("delay below floor at level %d: %v", c.Level(), d)
		}
		prev = d
	}
	if prev != opts.MinStepDelay {
		t.Fatalf("delay never reached floor: %v", prev)
	}
}

func TestOptionsNormalization(t *testing.T) {
	c := New(NewGeneratorSeeded(1), &recordedAudio{}, &memScores{}, Options{})
	if c.StepDelay() != DefaultOptions().StepDelay {
		t.Fatalf("zero options not normalized: %v", c.StepDelay())
	}
}
