package audio

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"github.com/verte-zerg/tuimon/internal/game"
)

const engineRate = beep.SampleRate(44100)

const errorCueName = "error"

// Engine plays cues through the beep speaker. Pads with a wav sample in
// the samples directory use it; pads without one fall back to a
// synthesized tone, per cue rather than globally.
type Engine struct {
	mixer   *beep.Mixer
	samples map[string]*beep.Buffer
	muted   atomic.Bool
}

// NewEngine initializes the speaker and best-effort loads wav samples.
// samplesDir may be empty or missing; unreadable samples are skipped.
func NewEngine(samplesDir string) (*Engine, error) {
	if err := speaker.Init(engineRate, engineRate.N(100*time.Millisecond)); err != nil {
		return nil, err
	}
	e := &Engine{
		mixer:   &beep.Mixer{},
		samples: make(map[string]*beep.Buffer),
	}
	speaker.Play(e.mixer)
	e.loadSamples(samplesDir)
	return e, nil
}

func (e *Engine) loadSamples(dir string) {
	if dir == "" {
		return
	}
	names := make([]string, 0, len(game.Pads())+1)
	for _, p := range game.Pads() {
		names = append(names, p.String())
	}
	names = append(names, errorCueName)
	for _, name := range names {
		if buf := loadWav(filepath.Join(dir, name+".wav")); buf != nil {
			e.samples[name] = buf
		}
	}
}

func loadWav(path string) *beep.Buffer {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close of the sample file.
			_ = cerr
		}
	}()
	streamer, format, err := wav.Decode(f)
	if err != nil {
		return nil
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: engineRate, NumChannels: 2, Precision: 2})
	if format.SampleRate == engineRate {
		buf.Append(streamer)
	} else {
		buf.Append(beep.Resample(4, format.SampleRate, engineRate, streamer))
	}
	return buf
}

// PlayPad implements Output.
func (e *Engine) PlayPad(p game.Pad) {
	if e.muted.Load() {
		return
	}
	if buf, ok := e.samples[p.String()]; ok {
		e.play(buf.Streamer(0, buf.Len()))
		return
	}
	e.play(padTone(p, engineRate))
}

// PlayError implements Output.
func (e *Engine) PlayError() {
	if e.muted.Load() {
		return
	}
	if buf, ok := e.samples[errorCueName]; ok {
		e.play(buf.Streamer(0, buf.Len()))
		return
	}
	e.play(errorTone(engineRate))
}

func (e *Engine) play(s beep.Streamer) {
	speaker.Lock()
	e.mixer.Add(s)
	speaker.Unlock()
}

// SetMuted implements Output. Muting suppresses cue playback only; it
// never touches game state.
func (e *Engine) SetMuted(m bool) {
	e.muted.Store(m)
}

// Muted implements Output.
func (e *Engine) Muted() bool {
	return e.muted.Load()
}

// Close implements Output.
func (e *Engine) Close() {
	speaker.Clear()
}
