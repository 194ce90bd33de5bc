package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"talktimer/internal/audio"
	"talktimer/internal/core/frames"
	"talktimer/internal/core/model"
	"talktimer/internal/core/timekeeper"
	"talktimer/internal/i18n"
	"talktimer/internal/ui/display"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type runOptions struct {
	durations      []time.Duration
	interval       time.Duration
	exitOnComplete bool
	maxOverrun     time.Duration
	bell           bool
	audio          bool
}

func newRunCmd(config *viper.Viper) *cobra.Command {
	var options runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the timer in the terminal",
		Long: heredoc.Doc(`
			Run the timer without a window. The remaining time is printed once per
			second and every marker is announced. Overtime is tracked until the
			command is interrupted, unless --exit-on-complete or --max-overrun
			say otherwise.
		`),
		Example: heredoc.Doc(`
			# Use the saved schedule and ring the terminal bell
			$ talktimer run --bell

			# A lightning talk that stops two minutes into overtime
			$ talktimer run --durations 3m,1m,1m --max-overrun 2m
		`),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(config, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if options.maxOverrun < 0 {
				return fmt.Errorf("--max-overrun must not be negative")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runTerminal(ctx, env, options, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.DurationSliceVar(&options.durations, "durations", nil, "Section lengths, e.g. 10m,5m,5m (default is the saved schedule)")
	flags.DurationVar(&options.interval, "interval", 100*time.Millisecond, "Frame interval")
	flags.BoolVar(&options.exitOnComplete, "exit-on-complete", false, "Exit when the last marker is reached")
	flags.DurationVar(&options.maxOverrun, "max-overrun", 0, "Stop after this much overtime (0 tracks overtime until interrupted)")
	flags.BoolVar(&options.bell, "bell", false, "Ring the terminal bell on every marker")
	flags.BoolVar(&options.audio, "audio", false, "Play chimes through the audio device")

	return cmd
}

// runTerminal drives a TimeKeeper from a frames.Loop until ctx is done, the
// schedule completes with exitOnComplete, or maxOverrun is reached.
func runTerminal(ctx context.Context, env *environment, options runOptions, out io.Writer) error {
	logger := env.logger
	durations := options.durations
	if len(durations) == 0 {
		durations = env.settings.Durations
	}

	chimer, closeChimer := terminalChimer(env, options, out)
	defer closeChimer()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := frames.NewLoop(options.interval)
	keeper := timekeeper.New(model.TimerConfig{
		Durations:     durations,
		ChimeStrategy: model.DefaultChimeStrategy,
	}, timekeeper.Options{Frames: loop})

	reporter := &progressReporter{out: out, catalog: env.catalog, chimes: keeper.ChimeCount}
	var chimeEnds time.Time

	keeper.ConfigureCallbacks(timekeeper.Callbacks{
		OnTick: func(snapshot timekeeper.Snapshot) {
			reporter.report(snapshot)
			if options.maxOverrun > 0 && snapshot.Overrun >= options.maxOverrun {
				logger.Warn("overtime limit reached", "overrun", snapshot.Overrun)
				cancel()
			}
		},
		OnSectionEnd: func(index int, chimes int) {
			logger.Info("marker reached", "index", index, "chimes", chimes)
			if chimer == nil {
				return
			}
			if err := chimer.PlayChime(chimes); err != nil {
				logger.Error("play chime", "count", chimes, "error", err)
				return
			}
			chimeEnds = time.Now().Add(audio.ChimeLength(chimes))
		},
		OnComplete: func() {
			logger.Info(env.catalog.T("finished"))
			if options.exitOnComplete {
				cancel()
			}
		},
	})

	loop.Post(keeper.Start)
	err := loop.Run(ctx)

	// Let the last chime ring out before the device closes.
	if options.audio {
		if wait := time.Until(chimeEnds); wait > 0 {
			time.Sleep(wait)
		}
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func terminalChimer(env *environment, options runOptions, out io.Writer) (audio.Chimer, func()) {
	if options.audio {
		player := audio.NewPlayer(env.logger)
		player.SetVolume(env.settings.Volume)
		player.SetMuted(env.settings.Muted)
		if err := player.Init(); err != nil {
			env.logger.Error("init audio, falling back to the terminal bell", "error", err)
			return audio.Bell{Writer: out}, func() {}
		}
		return player, func() {
			if err := player.Close(); err != nil {
				env.logger.Warn("close audio", "error", err)
			}
		}
	}
	if options.bell {
		return audio.Bell{Writer: out}, func() {}
	}
	return nil, func() {}
}

// progressReporter prints one line whenever the displayed second changes.
type progressReporter struct {
	out     io.Writer
	catalog *i18n.Catalog
	chimes  func(int) int
	last    string
}

func (reporter *progressReporter) report(snapshot timekeeper.Snapshot) {
	text, _ := display.TimeText(snapshot)
	current, next := display.MarkerLines(reporter.catalog, snapshot, reporter.chimes)
	line := text + "  " + current
	if next != "" {
		line += "  (" + next + ")"
	}
	if snapshot.Status == timekeeper.StatusPaused {
		line += "  " + display.StatusText(reporter.catalog, snapshot.Status)
	}
	if line == reporter.last {
		return
	}
	reporter.last = line
	fmt.Fprintln(reporter.out, line)
}
