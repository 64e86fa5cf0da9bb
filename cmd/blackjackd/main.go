package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"blackjackd/internal/persistence"
	"blackjackd/internal/server"
	"blackjackd/pkg/types"
)

// CLI mirrors the process-wide tunables spec §9 groups into a single
// configuration record; flags only set the starting values an operator
// would otherwise reach with an admin SET connection after boot.
type CLI struct {
	Listen         string  `kong:"default=':9876',help='TCP listen address'"`
	StartCurrency  int64   `kong:"default='10000',help='Starting bankroll for newly registered players'"`
	MinimumDecks   int     `kong:"default='6',help='Minimum number of decks in the shoe'"`
	ShoeMinPercent int     `kong:"default='20',help='Reshuffle once the shoe drops below this percent full'"`
	CommandTimeout float64 `kong:"default='1.0',help='Seconds given to a client to respond to a prompt'"`
	GameWaitTime   float64 `kong:"default='0.01',help='Seconds paused between rounds'"`
	Comms          bool    `kong:"default='false',help='Dump every client/server protocol line to the log'"`
	Debug          bool    `kong:"default='false',help='Enable debug-level logging'"`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("blackjackd"),
		kong.Description("Multi-player blackjack table server"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	level := zerolog.InfoLevel
	if cli.Debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	cfg := types.NewDefaultConfig()
	applyFlag := func(param string, value string) {
		if err := cfg.Apply(param, value); err != nil {
			logger.Fatal().Err(err).Str("param", param).Msg("invalid startup configuration")
		}
	}
	applyFlag("START", fmt.Sprintf("%d", cli.StartCurrency))
	applyFlag("DECKS", fmt.Sprintf("%d", cli.MinimumDecks))
	applyFlag("SHOE", fmt.Sprintf("%d", cli.ShoeMinPercent))
	applyFlag("TIMEOUT", fmt.Sprintf("%g", cli.CommandTimeout))
	applyFlag("WAIT", fmt.Sprintf("%g", cli.GameWaitTime))
	if cli.Comms {
		applyFlag("COMMS", "1")
	}

	srv, err := server.New(cli.Listen, cfg, persistence.NoopStore{}, logger, time.Now().UnixNano())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
	logger.Info().Str("addr", cli.Listen).Msg("blackjackd listening")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv.Run(ctx)
	os.Exit(0)
}
