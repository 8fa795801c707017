package speech

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/sashabaranov/go-openai"
)

// openAIVoices is the fixed voice list of the speech endpoint.
var openAIVoices = []openai.SpeechVoice{
	openai.VoiceAlloy,
	openai.VoiceEcho,
	openai.VoiceFable,
	openai.VoiceOnyx,
	openai.VoiceNova,
	openai.VoiceShimmer,
}

// defaultWordsPerMinute is the rate that maps to speed 1.0.
const defaultWordsPerMinute = 175

// OpenAIEngine synthesizes speech with the OpenAI speech endpoint and plays
// the mp3 reply on the default output device.
type OpenAIEngine struct {
	client *openai.Client
	voice  openai.SpeechVoice
	speed  float64

	play func(ctx context.Context, audio io.ReadCloser) error
}

// NewOpenAIEngine creates an engine. rate is in words per minute.
func NewOpenAIEngine(client *openai.Client, rate, voiceIndex int) *OpenAIEngine {
	return &OpenAIEngine{
		client: client,
		voice:  openAIVoices[clampIndex(voiceIndex, len(openAIVoices))],
		speed:  speedForRate(rate),
		play:   playMP3,
	}
}

func (e *OpenAIEngine) Speak(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	audio, err := e.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          text,
		Voice:          e.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          e.speed,
	})
	if err != nil {
		return fmt.Errorf("synthesize speech: %w", err)
	}
	defer audio.Close()

	return e.play(ctx, audio)
}

func speedForRate(rate int) float64 {
	if rate <= 0 {
		return 1.0
	}
	speed := float64(rate) / defaultWordsPerMinute
	if speed < 0.25 {
		return 0.25
	}
	if speed > 4.0 {
		return 4.0
	}
	return speed
}

// playMP3 decodes audio and blocks until playback completes or ctx ends.
func playMP3(ctx context.Context, audio io.ReadCloser) error {
	streamer, format, err := mp3.Decode(audio)
	if err != nil {
		return fmt.Errorf("decode audio: %w", err)
	}
	defer streamer.Close()

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("initialize speaker: %w", err)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}
