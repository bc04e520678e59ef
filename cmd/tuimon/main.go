// Package main provides the CLI entrypoint for tuimon.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuimon/internal/audio"
	"github.com/verte-zerg/tuimon/internal/config"
	"github.com/verte-zerg/tuimon/internal/game"
	"github.com/verte-zerg/tuimon/internal/history"
	"github.com/verte-zerg/tuimon/internal/model"
	"github.com/verte-zerg/tuimon/internal/scoresui"
	"github.com/verte-zerg/tuimon/internal/store"
	"github.com/verte-zerg/tuimon/internal/tui"
	"github.com/verte-zerg/tuimon/internal/web"
)

const (
	defaultStepMs     = 800
	defaultMinStepMs  = 250
	defaultRampMs     = 40
	defaultPauseMs    = 800
	defaultDebounceMs = 100
	defaultAddr       = ":8080"
	defaultServeDir   = "web"
	defaultCurveWin   = 5
)

var (
	playStepMs     int
	playMinStepMs  int
	playRampMs     int
	playPauseMs    int
	playDebounceMs int
	playMute       bool
	playNoAudio    bool
	playSamples    string
	playSeed       int64

	scoresLast  int
	scoresPlain bool

	serveAddr string
	serveDir  string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuimon",
		Short:         "TUI memory game",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().IntVar(&playStepMs, "step-ms", defaultStepMs, "per-step presentation delay in ms")
	rootCmd.Flags().IntVar(&playMinStepMs, "min-step-ms", defaultMinStepMs, "pacing floor in ms")
	rootCmd.Flags().IntVar(&playRampMs, "ramp-ms", defaultRampMs, "per-level speed-up in ms")
	rootCmd.Flags().IntVar(&playPauseMs, "pause-ms", defaultPauseMs, "pause before re-presenting in ms")
	rootCmd.Flags().IntVar(&playDebounceMs, "debounce-ms", defaultDebounceMs, "duplicate-input window in ms")
	rootCmd.Flags().BoolVar(&playMute, "mute", false, "start muted")
	rootCmd.Flags().BoolVar(&playNoAudio, "no-audio", false, "skip the audio device entirely")
	rootCmd.Flags().StringVar(&playSamples, "samples", "", "directory with wav cue samples")
	rootCmd.Flags().Int64Var(&playSeed, "seed", 0, "sequence seed (0 uses a time-based seed)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newScoresCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "step-ms", &playStepMs, fileCfg.Game.StepMs)
	applyIntConfig(cmd, "min-step-ms", &playMinStepMs, fileCfg.Game.MinStepMs)
	applyIntConfig(cmd, "ramp-ms", &playRampMs, fileCfg.Game.RampMs)
	applyIntConfig(cmd, "pause-ms", &playPauseMs, fileCfg.Game.PauseMs)
	applyIntConfig(cmd, "debounce-ms", &playDebounceMs, fileCfg.Game.DebounceMs)
	applyBoolConfig(cmd, "mute", &playMute, fileCfg.Game.Mute)
	applyBoolConfig(cmd, "no-audio", &playNoAudio, fileCfg.Game.NoAudio)
	applyStringConfig(cmd, "samples", &playSamples, fileCfg.Game.SamplesDir)

	cfg := model.Config{
		StepMs:     playStepMs,
		MinStepMs:  playMinStepMs,
		RampMs:     playRampMs,
		PauseMs:    playPauseMs,
		DebounceMs: playDebounceMs,
		Mute:       playMute,
		NoAudio:    playNoAudio,
		SamplesDir: playSamples,
		Seed:       playSeed,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if cfg.SamplesDir == "" {
		cfg.SamplesDir = config.DefaultSamplesDir()
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	out := openAudio(cfg)
	defer out.Close()
	if cfg.Mute {
		out.SetMuted(true)
	}

	var gen game.Sequencer
	if cfg.Seed != 0 {
		gen = game.NewGeneratorSeeded(cfg.Seed)
	} else {
		gen = game.NewGenerator()
	}

	scores := store.NewGameScores(st)
	ctrl := game.New(gen, out, scores, gameOptions(cfg))
	m := tui.NewModel(cfg, ctrl, out, scores, st)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func openAudio(cfg model.Config) audio.Output {
	if cfg.NoAudio {
		return audio.NewSilent()
	}
	out, err := audio.Open(cfg.SamplesDir)
	if err != nil {
		logErrf("audio unavailable, continuing silent: %v\n", err)
	}
	return out
}

func gameOptions(cfg model.Config) game.Options {
	return game.Options{
		StepDelay:    time.Duration(cfg.StepMs) * time.Millisecond,
		MinStepDelay: time.Duration(cfg.MinStepMs) * time.Millisecond,
		DelayRamp:    time.Duration(cfg.RampMs) * time.Millisecond,
		RoundPause:   time.Duration(cfg.PauseMs) * time.Millisecond,
		Debounce:     time.Duration(cfg.DebounceMs) * time.Millisecond,
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newScoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Show score history",
		Args:  cobra.NoArgs,
		RunE:  runScoresCmd,
	}
	cmd.Flags().IntVar(&scoresLast, "last", 0, "limit to last N games")
	cmd.Flags().BoolVar(&scoresPlain, "plain", false, "print text instead of the interactive UI")
	return cmd
}

func runScoresCmd(cmd *cobra.Command, _ []string) error {
	if scoresLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	cfg := model.ScoresConfig{
		Last:  scoresLast,
		Plain: scoresPlain,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if cfg.Plain {
		return printScores(cmd, st, cfg)
	}

	m := scoresui.NewModel(st, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run scores TUI: %w", err)
	}
	return nil
}

func printScores(cmd *cobra.Command, st *store.Store, cfg model.ScoresConfig) error {
	rep, err := history.BuildReport(cmd.Context(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := history.RenderSummary(out, rep); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	if err := history.RenderGameTable(out, rep.Games); err != nil {
		return fmt.Errorf("failed to render games: %w", err)
	}
	width, _, werr := term.GetSize(int(os.Stdout.Fd()))
	if werr != nil || width <= 0 {
		width = 0
	}
	if err := history.RenderLevelCurveWithSize(out, rep.Games, defaultCurveWin, width, 10, false); err != nil {
		return fmt.Errorf("failed to render curve: %w", err)
	}
	return nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser version",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&serveDir, "dir", defaultServeDir, "asset root directory")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Serve.Addr)
	applyStringConfig(cmd, "dir", &serveDir, fileCfg.Serve.Dir)

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	srv := web.New(serveDir, log)
	log.Info().Str("addr", serveAddr).Str("dir", serveDir).Msg("serving assets")
	if err := srv.Start(serveAddr); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuimon configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# step-ms = %d        # Per-step presentation delay in ms
# min-step-ms = %d    # Pacing floor in ms
# ramp-ms = %d         # Per-level speed-up in ms
# pause-ms = %d       # Pause before re-presenting in ms
# debounce-ms = %d    # Duplicate-input window in ms
# mute = false         # Start muted
# no-audio = false     # Skip the audio device entirely
# samples-dir = ""     # Directory with wav cue samples

[serve]
# addr = %q        # Listen address
# dir = %q          # Asset root directory
`,
		defaultStepMs,
		defaultMinStepMs,
		defaultRampMs,
		defaultPauseMs,
		defaultDebounceMs,
		defaultAddr,
		defaultServeDir,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.StepMs <= 0 {
		return fmt.Errorf("--step-ms must be > 0")
	}
	if cfg.MinStepMs <= 0 {
		return fmt.Errorf("--min-step-ms must be > 0")
	}
	if cfg.MinStepMs > cfg.StepMs {
		return fmt.Errorf("--min-step-ms must not exceed --step-ms")
	}
	if cfg.RampMs < 0 {
		return fmt.Errorf("--ramp-ms must be >= 0")
	}
	if cfg.PauseMs < 0 {
		return fmt.Errorf("--pause-ms must be >= 0")
	}
	if cfg.DebounceMs < 0 {
		return fmt.Errorf("--debounce-ms must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
