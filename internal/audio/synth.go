package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"

	"github.com/verte-zerg/tuimon/internal/game"
)

const (
	padToneDuration = 300 * time.Millisecond
	errorDuration   = 400 * time.Millisecond
	envelopeAttack  = 8 * time.Millisecond
	envelopeRelease = 80 * time.Millisecond
	errorToneFreq   = 100.0
	synthGain       = 0.6
)

type waveShape int

const (
	waveSine waveShape = iota
	waveSquare
	waveSaw
)

// oscillator is a finite beep.Streamer producing a single waveform.
type oscillator struct {
	freq  float64
	rate  beep.SampleRate
	shape waveShape
	phase float64
	pos   int
	total int
}

func newOscillator(freq float64, d time.Duration, shape waveShape, rate beep.SampleRate) *oscillator {
	return &oscillator{
		freq:  freq,
		rate:  rate,
		shape: shape,
		total: rate.N(d),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (int, bool) {
	if o.pos >= o.total {
		return 0, false
	}
	n := len(samples)
	if remaining := o.total - o.pos; n > remaining {
		n = remaining
	}
	for i := 0; i < n; i++ {
		var val float64
		switch o.shape {
		case waveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case waveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case waveSaw:
			val = 2.0 * (o.phase - 0.5)
		}
		val *= synthGain
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.pos++
	}
	return n, true
}

func (o *oscillator) Err() error { return nil }

// envelope shapes an underlying streamer with linear attack and release,
// removing clicks at cue boundaries.
type envelope struct {
	inner   beep.Streamer
	pos     int
	attack  int
	release int
	total   int
}

func newEnvelope(s beep.Streamer, d time.Duration, rate beep.SampleRate) *envelope {
	total := rate.N(d)
	att := rate.N(envelopeAttack)
	rel := rate.N(envelopeRelease)
	if att+rel > total {
		att = total / 2
		rel = total - att
	}
	return &envelope{inner: s, attack: att, release: rel, total: total}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.inner.Stream(samples)
	releaseStart := e.total - e.release
	for i := 0; i < n; i++ {
		gain := 1.0
		switch {
		case e.pos < e.attack && e.attack > 0:
			gain = float64(e.pos) / float64(e.attack)
		case e.pos >= releaseStart && e.release > 0:
			gain = float64(e.total-e.pos) / float64(e.release)
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.inner.Err() }

// padTone synthesizes the fallback cue for a pad.
func padTone(p game.Pad, rate beep.SampleRate) beep.Streamer {
	osc := newOscillator(p.Tone(), padToneDuration, waveSine, rate)
	return newEnvelope(osc, padToneDuration, rate)
}

// errorTone synthesizes the game-over buzz.
func errorTone(rate beep.SampleRate) beep.Streamer {
	osc := newOscillator(errorToneFreq, errorDuration, waveSaw, rate)
	return newEnvelope(osc, errorDuration, rate)
}
