package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/togatoga/codevs-reborn/engine"
	"github.com/togatoga/codevs-reborn/server"
)

func serveCommand(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	addr := fs.String("addr", getenv("SUMCHAIN_ADDR", ":8080"), "listen address")
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
	hub := server.NewAnalyticsHub()
	go hub.Run(ctx.Done())
	session := server.NewSession(nil, engine.NewConfigStore(config), hub)
	return server.Run(ctx, *addr, server.NewRouter(session, hub))
}
