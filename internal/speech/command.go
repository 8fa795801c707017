package speech

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrNoSynthesizer is returned when no local speech binary can be found.
var ErrNoSynthesizer = errors.New("no speech synthesizer found")

// localSynthesizers are probed in order when no command is configured.
var localSynthesizers = []string{"espeak-ng", "espeak", "say", "spd-say"}

// CommandOptions configures a CommandEngine.
type CommandOptions struct {
	// Command is the synthesizer binary. Empty probes PATH.
	Command string

	// Rate is the speaking rate in words per minute.
	Rate int

	// VoiceIndex selects from the voices the binary reports, clamped to
	// the last one.
	VoiceIndex int
}

// CommandEngine speaks through a local synthesizer program.
type CommandEngine struct {
	bin   string
	kind  string
	rate  int
	voice string

	run func(ctx context.Context, name string, args ...string) error
}

// NewCommandEngine resolves the synthesizer and its voice.
func NewCommandEngine(ctx context.Context, opts CommandOptions) (*CommandEngine, error) {
	return newCommandEngine(ctx, opts, exec.LookPath, commandOutput, commandRun)
}

func newCommandEngine(
	ctx context.Context,
	opts CommandOptions,
	lookPath func(string) (string, error),
	output func(ctx context.Context, name string, args ...string) ([]byte, error),
	run func(ctx context.Context, name string, args ...string) error,
) (*CommandEngine, error) {
	candidates := localSynthesizers
	if opts.Command != "" {
		candidates = []string{opts.Command}
	}

	var bin string
	for _, c := range candidates {
		if p, err := lookPath(c); err == nil {
			bin = p
			break
		}
	}
	if bin == "" {
		return nil, fmt.Errorf("%w (tried %s)", ErrNoSynthesizer, strings.Join(candidates, ", "))
	}

	e := &CommandEngine{
		bin:  bin,
		kind: synthKind(bin),
		rate: opts.Rate,
		run:  run,
	}

	if args := e.listVoicesArgs(); args != nil {
		out, err := output(ctx, bin, args...)
		if err == nil {
			voices := parseVoices(e.kind, string(out))
			if len(voices) > 0 {
				e.voice = voices[clampIndex(opts.VoiceIndex, len(voices))]
			}
		}
	}

	return e, nil
}

// Name returns the resolved binary path.
func (e *CommandEngine) Name() string {
	return e.bin
}

// Voice returns the selected voice, or "" for the synthesizer default.
func (e *CommandEngine) Voice() string {
	return e.voice
}

func (e *CommandEngine) Speak(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if err := e.run(ctx, e.bin, e.speakArgs(text)...); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(e.bin), err)
	}
	return nil
}

func (e *CommandEngine) speakArgs(text string) []string {
	var args []string
	switch e.kind {
	case "espeak":
		if e.rate > 0 {
			args = append(args, "-s", strconv.Itoa(e.rate))
		}
		if e.voice != "" {
			args = append(args, "-v", e.voice)
		}
		args = append(args, "--", text)
	case "say":
		if e.rate > 0 {
			args = append(args, "-r", strconv.Itoa(e.rate))
		}
		if e.voice != "" {
			args = append(args, "-v", e.voice)
		}
		args = append(args, "--", text)
	case "spd-say":
		// spd-say takes a relative rate in [-100, 100]; 175 wpm is its default.
		if e.rate > 0 {
			args = append(args, "-r", strconv.Itoa(clamp((e.rate-175)/2, -100, 100)))
		}
		if e.voice != "" {
			args = append(args, "-y", e.voice)
		}
		args = append(args, "-w", "--", text)
	default:
		args = append(args, text)
	}
	return args
}

func (e *CommandEngine) listVoicesArgs() []string {
	switch e.kind {
	case "espeak":
		return []string{"--voices=en"}
	case "say":
		return []string{"-v", "?"}
	case "spd-say":
		return []string{"-L"}
	default:
		return nil
	}
}

func synthKind(bin string) string {
	switch base := filepath.Base(bin); base {
	case "espeak", "espeak-ng":
		return "espeak"
	case "say", "spd-say":
		return base
	default:
		return "custom"
	}
}

// parseVoices extracts voice identifiers from a synthesizer's voice listing.
func parseVoices(kind, listing string) []string {
	var voices []string
	sc := bufio.NewScanner(strings.NewReader(listing))
	first := true
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		switch kind {
		case "espeak":
			// Pty Language Age/Gender VoiceName File Other Languages
			if first {
				first = false
				continue
			}
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				voices = append(voices, fields[1])
			}
		case "say":
			// Alex                en_US    # Most people recognize me by my voice.
			name, _, _ := strings.Cut(line, "#")
			fields := strings.Fields(name)
			if len(fields) >= 2 {
				voices = append(voices, strings.Join(fields[:len(fields)-1], " "))
			}
		case "spd-say":
			// NAME LANGUAGE VARIANT
			if first {
				first = false
				continue
			}
			fields := strings.Fields(line)
			if len(fields) >= 1 {
				voices = append(voices, fields[0])
			}
		}
	}
	return voices
}

func clampIndex(i, n int) int {
	return clamp(i, 0, n-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func commandOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

func commandRun(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}
