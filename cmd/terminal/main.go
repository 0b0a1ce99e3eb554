package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/kiliankoe/ringdrop/internal/audio"
	"github.com/kiliankoe/ringdrop/internal/config"
	"github.com/kiliankoe/ringdrop/internal/game"
	"github.com/kiliankoe/ringdrop/internal/logging"
	"github.com/kiliankoe/ringdrop/internal/timer"
	"github.com/kiliankoe/ringdrop/internal/tui"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		logPath = flag.String("log", "ringdrop.log", "File to write logs to")
		mute    = flag.Bool("mute", false, "Disable sound")
	)
	flag.Parse()

	// the terminal belongs to the game, so logs go to a file
	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	_ = logging.Setup("info", "json", logFile)
	cfg, err := config.Load()
	if err := logging.Setup(cfg.LogLevel, "json", logFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	if err := run(cfg, !*mute && cfg.AudioEnabled); err != nil {
		log.Error().Err(err).Msg("terminal game failed")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg config.Config, withSound bool) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	player := audio.NewPlayer(withSound, cfg.Timing())
	defer player.Close()

	view := tui.NewView(nil, player)
	sched := timer.NewScheduler(nil)
	defer sched.Stop()
	m, err := game.NewMachine(cfg.Timing(), nil, sched, game.Multi(game.LogNotifier{}, view))
	if err != nil {
		return err
	}
	defer m.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Bool("sound", withSound).Msg("terminal game started")
	err = tui.NewApp(screen, m, view, nil).Run(ctx)
	if ctx.Err() != nil {
		return nil
	}
	return err
}
