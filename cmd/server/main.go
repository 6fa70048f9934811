package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/tabletop/internal/injector"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file; TABLETOP_* variables override it")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "tabletop:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	srv, cleanup, err := injector.InitializeServer(configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = srv.Start(ctx); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		if err := srv.Stop(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("stop: %w", err)
		}
		return nil
	})
	return g.Wait()
}
