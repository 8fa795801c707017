package speech

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const espeakVoices = `Pty Language       Age/Gender VoiceName          File                 Other Languages
 2  en-gb           M  english              gmw/en
 2  en-us           M  english-us           gmw/en-US
 5  en-029          M  english_(caribbean)  gmw/en-029
`

const sayVoices = `Alex                en_US    # Most people recognize me by my voice.
Bad News            en_US    # The light you see at the end of the tunnel is the headlamp of a fast approaching train.
Daniel              en_GB    # Hello, my name is Daniel. I am a British-English voice.
`

const spdVoices = `NAME                      LANGUAGE        VARIANT
english                   en              none
english-us                en-US           none
`

func TestParseVoices(t *testing.T) {
	tests := []struct {
		kind    string
		listing string
		want    []string
	}{
		{"espeak", espeakVoices, []string{"en-gb", "en-us", "en-029"}},
		{"say", sayVoices, []string{"Alex", "Bad News", "Daniel"}},
		{"spd-say", spdVoices, []string{"english", "english-us"}},
		{"espeak", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			assert.Equal(t, tt.want, parseVoices(tt.kind, tt.listing))
		})
	}
}

type execRecorder struct {
	name string
	args []string
}

func fakeLookPath(available ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, a := range available {
			if a == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
}

func fakeOutput(listing string) func(context.Context, string, ...string) ([]byte, error) {
	return func(context.Context, string, ...string) ([]byte, error) {
		return []byte(listing), nil
	}
}

func (r *execRecorder) run(_ context.Context, name string, args ...string) error {
	r.name = name
	r.args = args
	return nil
}

func TestCommandEngine_ProbesInOrder(t *testing.T) {
	rec := &execRecorder{}
	e, err := newCommandEngine(t.Context(), CommandOptions{Rate: 150}, fakeLookPath("espeak", "say"), fakeOutput(espeakVoices), rec.run)
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/espeak", e.Name())
	assert.Equal(t, "en-gb", e.Voice())

	require.NoError(t, e.Speak(t.Context(), "Hello there"))
	assert.Equal(t, "/usr/bin/espeak", rec.name)
	assert.Equal(t, []string{"-s", "150", "-v", "en-gb", "--", "Hello there"}, rec.args)
}

func TestCommandEngine_VoiceIndexClamped(t *testing.T) {
	e, err := newCommandEngine(t.Context(), CommandOptions{VoiceIndex: 42}, fakeLookPath("say"), fakeOutput(sayVoices), (&execRecorder{}).run)
	require.NoError(t, err)
	assert.Equal(t, "Daniel", e.Voice())
}

func TestCommandEngine_ConfiguredCommand(t *testing.T) {
	rec := &execRecorder{}
	e, err := newCommandEngine(t.Context(), CommandOptions{Command: "spd-say", Rate: 275}, fakeLookPath("espeak", "spd-say"), fakeOutput(spdVoices), rec.run)
	require.NoError(t, err)

	require.NoError(t, e.Speak(t.Context(), "Hi"))
	assert.Equal(t, "/usr/bin/spd-say", rec.name)
	assert.Equal(t, []string{"-r", "50", "-y", "english", "-w", "--", "Hi"}, rec.args)
}

func TestCommandEngine_NoSynthesizer(t *testing.T) {
	_, err := newCommandEngine(t.Context(), CommandOptions{}, fakeLookPath(), fakeOutput(""), (&execRecorder{}).run)
	require.ErrorIs(t, err, ErrNoSynthesizer)
}

func TestCommandEngine_BlankTextIsSilent(t *testing.T) {
	rec := &execRecorder{}
	e, err := newCommandEngine(t.Context(), CommandOptions{}, fakeLookPath("espeak-ng"), fakeOutput(""), rec.run)
	require.NoError(t, err)

	require.NoError(t, e.Speak(t.Context(), "   "))
	assert.Empty(t, rec.name)
}

func TestSpeedForRate(t *testing.T) {
	assert.Equal(t, 1.0, speedForRate(175))
	assert.Equal(t, 1.0, speedForRate(0))
	assert.Equal(t, 0.25, speedForRate(10))
	assert.Equal(t, 4.0, speedForRate(1000))
	assert.InDelta(t, 150.0/175.0, speedForRate(150), 1e-9)
}
