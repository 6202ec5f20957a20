package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/togatoga/codevs-reborn/engine"
	"github.com/togatoga/codevs-reborn/protocol"
	"github.com/togatoga/codevs-reborn/server"
)

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	listen := fs.String("listen", getenv("SUMCHAIN_LISTEN", ""), "also serve analytics on this address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	common.setupLogging()
	config, err := common.config()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return playGame(ctx, os.Stdin, os.Stdout, config, *listen)
}

// playGame speaks the match protocol: name first, then the pack feed, then
// one command per turn until the input ends.
func playGame(ctx context.Context, in io.Reader, out io.Writer, config engine.Config, listen string) error {
	w := bufio.NewWriter(out)
	fmt.Fprintln(w, aiName)
	if err := w.Flush(); err != nil {
		return err
	}

	sc := protocol.NewScanner(in)
	packs, err := sc.ReadPacks(engine.MaxTurn)
	if err != nil {
		return fmt.Errorf("read packs: %w", err)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	hub := server.NewAnalyticsHub()
	session := server.NewSession(engine.NewSolver(packs, config), engine.NewConfigStore(config), hub)

	var serverErr chan error
	if listen != "" {
		serverErr = make(chan error, 1)
		go hub.Run(ctx.Done())
		go func() {
			serverErr <- server.Run(ctx, listen, server.NewRouter(session, hub))
		}()
	}

	for {
		if ctx.Err() != nil {
			break
		}
		turn, err := sc.ReadTurn()
		if errors.Is(err, io.EOF) {
			log.Info().Str("component", "protocol").Msg("input closed")
			break
		}
		if err != nil {
			return fmt.Errorf("read turn: %w", err)
		}
		player, err := sc.ReadGameStatus()
		if err != nil {
			return fmt.Errorf("turn %d player: %w", turn, err)
		}
		enemy, err := sc.ReadGameStatus()
		if err != nil {
			return fmt.Errorf("turn %d enemy: %w", turn, err)
		}
		result := session.Think(turn, player, enemy)
		if err := protocol.WriteCommand(w, result.Command); err != nil {
			return err
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if serverErr != nil {
		cancel()
		return <-serverErr
	}
	return nil
}
