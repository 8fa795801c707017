package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/abhisek/parley/internal/app"
	"github.com/abhisek/parley/internal/audio"
	"github.com/abhisek/parley/internal/command"
	"github.com/abhisek/parley/internal/config"
	"github.com/abhisek/parley/internal/conversation"
	"github.com/abhisek/parley/internal/listen"
	"github.com/abhisek/parley/internal/llm"
	"github.com/abhisek/parley/internal/logging"
	"github.com/abhisek/parley/internal/screen"
	"github.com/abhisek/parley/internal/screens/practice"
	"github.com/abhisek/parley/internal/screens/welcome"
	"github.com/abhisek/parley/internal/speech"
	"github.com/abhisek/parley/internal/store"
	"github.com/abhisek/parley/internal/tutor"
)

// speechDrainTimeout bounds how long shutdown waits for queued speech.
const speechDrainTimeout = 5 * time.Second

// runApp builds every dependency in order and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Configuration problems are reported on the console before the UI
	// takes over the terminal.
	cfg := loadConfig(cmd, cliLogger())

	logs, err := logging.New(logging.Options{File: cfg.Files.Log, Level: zerolog.InfoLevel})
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logs.Close()
	logger := logs.Logger

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	llmCfg, err := llm.Resolve()
	if err != nil {
		return fmt.Errorf("LLM provider not configured: %w", err)
	}
	provider, err := llm.NewProvider(ctx, llmCfg, st.EventRepo(), logger)
	if err != nil {
		return err
	}

	state, err := newState(cmd, cfg, logger)
	if err != nil {
		return err
	}

	audioClient := newAudioClient()
	engine, err := speech.NewEngine(ctx, cfg.Voice, audioClient)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize text-to-speech engine")
		engine = nil
	}
	queue := speech.NewQueue(engine, logger)
	queue.Start()

	var recognizer listen.Recognizer
	if audioClient != nil {
		recognizer = listen.NewWhisperRecognizer(audioClient)
	}
	listener := listen.New(
		audio.NewMicrophone(audio.DefaultSampleRate, 0),
		recognizer,
		listen.DefaultConfig(),
		logger,
	)

	sessionID := uuid.NewString()
	sessions := st.SessionRepo()
	if err := sessions.StartSession(ctx, sessionID, string(state.Difficulty), llmCfg.Provider); err != nil {
		logger.Warn().Err(err).Msg("could not record session start")
	}
	startLen := len(state.History)

	dispatcher := command.NewDispatcher(state, cfg.Files.History, logger)
	practiceScreen := practice.New(practice.Deps{
		State:      state,
		Generator:  tutor.New(provider, tutor.DefaultConfig(), logger),
		Dispatcher: dispatcher,
		Speech:     queue,
		Listener:   listener,
		UI:         cfg.UI,
		SessionID:  sessionID,
		Logger:     logger,
		Ctx:        ctx,
	})

	logger.Info().
		Str("session", sessionID).
		Str("provider", llmCfg.Provider).
		Str("model", provider.ModelID()).
		Bool("tts", queue.Enabled()).
		Msg("starting practice session")

	runErr := app.Run(app.Options{
		Initial:     welcome.New(func() screen.Screen { return practiceScreen }),
		Header:      practiceScreen.HeaderInfo,
		OnInterrupt: func() { _ = dispatcher.Save() },
	})

	queue.Close()
	if !queue.Wait(speechDrainTimeout) {
		queue.Abort()
	}

	turns := 0
	for _, m := range state.History[startLen:] {
		if m.Role == conversation.RoleUser {
			turns++
		}
	}
	if err := sessions.EndSession(context.Background(), sessionID, string(state.Difficulty), turns, len(state.History)); err != nil {
		logger.Warn().Err(err).Msg("could not record session end")
	}
	return runErr
}

// newState builds the conversation state from configuration, loading the
// saved history when --resume is set.
func newState(cmd *cobra.Command, cfg config.Config, logger zerolog.Logger) (*conversation.State, error) {
	topics := conversation.DefaultCatalog()
	if cfg.Practice.TopicsFile != "" {
		c, err := conversation.LoadCatalog(cfg.Practice.TopicsFile)
		if err != nil {
			logger.Error().Err(err).Msg("could not load topics file, using built-in topics")
		} else {
			topics = c
		}
	}

	state := conversation.New(conversation.Options{
		Difficulty: cfg.Difficulty(),
		FocusAreas: cfg.Practice.FocusAreas,
		Topics:     topics,
	})

	if resume, _ := cmd.Flags().GetBool("resume"); resume {
		msgs, err := conversation.LoadHistory(cfg.Files.History)
		if err != nil {
			return nil, fmt.Errorf("resume conversation: %w", err)
		}
		state.History = msgs
		logger.Info().Int("messages", len(msgs)).Msg("resumed saved conversation")
	}
	return state, nil
}

// newAudioClient returns a client for the hosted speech and transcription
// APIs, or nil when no key is available. PARLEY_AUDIO_API_KEY wins over
// OPENAI_API_KEY.
func newAudioClient() *openai.Client {
	key := os.Getenv("PARLEY_AUDIO_API_KEY")
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	client, err := llm.NewOpenAIClient(llm.OpenAIConfig{
		APIKey:  key,
		BaseURL: os.Getenv("PARLEY_AUDIO_BASE_URL"),
	})
	if err != nil {
		return nil
	}
	return client
}
