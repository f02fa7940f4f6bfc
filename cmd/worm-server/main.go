// worm-server hosts worm simulations for browser clients over websockets
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lixenwraith/algebra-worms/config"
	"github.com/lixenwraith/algebra-worms/core"
	"github.com/lixenwraith/algebra-worms/network"
)

const shutdownTimeout = 5 * time.Second

var (
	configFlag = flag.String("config", "", "YAML config file")
	debugFlag  = flag.Bool("debug", false, "Write logs to logs/worm-server.log")
	addrFlag   = flag.String("addr", "", "Listen address, overrides network.addr")
)

func main() {
	flag.Parse()
	logFile := setupLogging(*debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}

	cfg, err := loadConfig(*configFlag, *addrFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	core.SetCrashHandler(func(r any) {
		log.Printf("worm-server: goroutine crashed: %v", r)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg); err != nil {
		log.Printf("worm-server: %v", err)
		os.Exit(1)
	}
}

// loadConfig reads the file and applies the address override
func loadConfig(path, addr string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if addr != "" {
		cfg.Network.Addr = addr
	}
	return cfg, nil
}

// serve runs the server until ctx ends, then drains sessions
func serve(ctx context.Context, cfg config.Config) error {
	srv, err := network.NewServer(cfg, network.ServerConfig{Logger: log.Default()})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Printf("worm-server: listening on %s", cfg.Network.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("worm-server: shutting down with %d sessions", srv.SessionCount())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return <-errCh
}
