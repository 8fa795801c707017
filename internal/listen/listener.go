// Package listen captures one spoken phrase from the microphone and turns it
// into text.
package listen

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	// ErrUnintelligible is returned by a Recognizer that heard audio but
	// could not make out any words.
	ErrUnintelligible = errors.New("speech not understood")

	// ErrBusy is returned when a capture is already in progress.
	ErrBusy = errors.New("listener busy")
)

// State is a step of a single capture.
type State int

const (
	Idle State = iota
	Calibrating
	Listening
	Recognizing
	Success
	NoSpeech
	Unintelligible
	ServiceError
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Calibrating:
		return "calibrating"
	case Listening:
		return "listening"
	case Recognizing:
		return "recognizing"
	case Success:
		return "success"
	case NoSpeech:
		return "no_speech"
	case Unintelligible:
		return "unintelligible"
	case ServiceError:
		return "service_error"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends a capture.
func (s State) Terminal() bool {
	return s >= Success
}

// Microphone delivers mono int16 samples.
type Microphone interface {
	SampleRate() int
	Open() error
	// Read fills buf with the next samples.
	Read(buf []int16) error
	Close() error
}

// Recognizer transcribes a captured clip.
type Recognizer interface {
	Transcribe(ctx context.Context, clip Clip, language string) (string, error)
}

// Clip is a captured phrase.
type Clip struct {
	Samples    []int16
	SampleRate int
}

// Config tunes voice activity detection. Durations are in seconds of
// captured audio.
type Config struct {
	Language         string
	FrameSize        int
	CalibrationSecs  float64
	ThresholdFactor  float64
	MinThreshold     float64
	StartTimeoutSecs float64
	PauseSecs        float64
	PhraseLimitSecs  float64
}

// DefaultConfig returns the capture settings used by the application.
func DefaultConfig() Config {
	return Config{
		Language:         "en-US",
		FrameSize:        800,
		CalibrationSecs:  1,
		ThresholdFactor:  1.5,
		MinThreshold:     300,
		StartTimeoutSecs: 5,
		PauseSecs:        0.8,
		PhraseLimitSecs:  15,
	}
}

// Result is the outcome of a capture.
type Result struct {
	State State
	Text  string
	Err   error
}

// Listener runs captures one at a time.
type Listener struct {
	mic        Microphone
	recognizer Recognizer
	cfg        Config
	logger     zerolog.Logger

	mu sync.Mutex
}

// New creates a Listener.
func New(mic Microphone, recognizer Recognizer, cfg Config, logger zerolog.Logger) *Listener {
	def := DefaultConfig()
	if cfg.FrameSize <= 0 {
		cfg.FrameSize = def.FrameSize
	}
	if cfg.Language == "" {
		cfg.Language = def.Language
	}
	return &Listener{mic: mic, recognizer: recognizer, cfg: cfg, logger: logger}
}

// Listen captures one phrase. Every state change, including the final
// one, is passed to report when it is non-nil. A concurrent call returns
// ErrBusy without touching the microphone.
func (l *Listener) Listen(ctx context.Context, report func(State)) (Result, error) {
	if !l.mu.TryLock() {
		return Result{}, ErrBusy
	}
	defer l.mu.Unlock()

	if report == nil {
		report = func(State) {}
	}
	finish := func(r Result) (Result, error) {
		report(r.State)
		return r, nil
	}

	if l.mic == nil {
		return finish(Result{State: Failed, Err: fmt.Errorf("no microphone available")})
	}

	report(Calibrating)
	if err := l.mic.Open(); err != nil {
		return finish(Result{State: Failed, Err: fmt.Errorf("open microphone: %w", err)})
	}
	defer l.mic.Close()

	clip, heard, err := l.capture(ctx, report)
	if err != nil {
		l.logger.Error().Err(err).Msg("speech capture failed")
		return finish(Result{State: Failed, Err: err})
	}
	if !heard {
		return finish(Result{State: NoSpeech})
	}

	report(Recognizing)
	if l.recognizer == nil {
		return finish(Result{State: ServiceError, Err: fmt.Errorf("no recognizer configured")})
	}
	text, err := l.recognizer.Transcribe(ctx, clip, l.cfg.Language)
	switch {
	case errors.Is(err, ErrUnintelligible):
		return finish(Result{State: Unintelligible, Err: err})
	case err != nil:
		l.logger.Error().Err(err).Msg("speech recognition request failed")
		return finish(Result{State: ServiceError, Err: err})
	case strings.TrimSpace(text) == "":
		return finish(Result{State: Unintelligible})
	}

	return finish(Result{State: Success, Text: strings.TrimSpace(text)})
}

// capture calibrates, waits for speech and records until a pause or the
// phrase limit. heard is false when nothing crossed the threshold.
func (l *Listener) capture(ctx context.Context, report func(State)) (clip Clip, heard bool, err error) {
	rate := l.mic.SampleRate()
	if rate <= 0 {
		return Clip{}, false, fmt.Errorf("invalid microphone sample rate %d", rate)
	}
	frame := make([]int16, l.cfg.FrameSize)
	seconds := func(n int) float64 { return float64(n) / float64(rate) }

	read := func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.mic.Read(frame); err != nil {
			return fmt.Errorf("read microphone: %w", err)
		}
		return nil
	}

	// Ambient noise.
	var ambient float64
	var frames, n int
	for seconds(n) < l.cfg.CalibrationSecs {
		if err := read(); err != nil {
			return Clip{}, false, err
		}
		ambient += rms(frame)
		frames++
		n += len(frame)
	}
	threshold := l.cfg.MinThreshold
	if frames > 0 {
		threshold = math.Max(threshold, ambient/float64(frames)*l.cfg.ThresholdFactor)
	}
	l.logger.Debug().Float64("threshold", threshold).Msg("microphone calibrated")

	report(Listening)

	// Wait for the phrase to start.
	n = 0
	for {
		if seconds(n) >= l.cfg.StartTimeoutSecs {
			return Clip{}, false, nil
		}
		if err := read(); err != nil {
			return Clip{}, false, err
		}
		n += len(frame)
		if rms(frame) > threshold {
			break
		}
	}

	// Record until a pause or the phrase limit.
	samples := append([]int16(nil), frame...)
	silent := 0
	for seconds(len(samples)) < l.cfg.PhraseLimitSecs {
		if err := read(); err != nil {
			return Clip{}, false, err
		}
		samples = append(samples, frame...)
		if rms(frame) > threshold {
			silent = 0
			continue
		}
		silent += len(frame)
		if seconds(silent) >= l.cfg.PauseSecs {
			break
		}
	}

	return Clip{Samples: samples, SampleRate: rate}, true, nil
}

func rms(frame []int16) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, s := range frame {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(frame)))
}
