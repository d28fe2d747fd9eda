package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"safetrade/internal/brokerage"
	"safetrade/internal/common"
	"safetrade/internal/config"
	"safetrade/internal/engine"
	"safetrade/internal/notify"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "Path to the exchange YAML config (defaults built in)")
	scriptPath := flag.String("script", "", "Path to a YAML order script to replay")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	if err := run(ctx, cfg, *scriptPath); err != nil {
		log.Fatal().Err(err).Msg("safetrade failed")
	}
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || cfg.Log.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Log.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func run(ctx context.Context, cfg *config.Config, scriptPath string) error {
	// Setup the directory and the brokerage delivering into mailboxes.
	eng := engine.New(nil)
	broker := brokerage.New(eng)

	var reporter common.Reporter = broker
	var dispatcher *notify.Dispatcher
	if cfg.Dispatch.Async {
		dispatcher = notify.NewDispatcher(ctx, broker, cfg.Dispatch.QueueSize)
		reporter = dispatcher
	}
	eng.SetReporter(reporter)

	for _, s := range cfg.Stocks {
		if err := eng.List(s.Symbol, s.Name, s.Price); err != nil {
			return err
		}
	}

	traders := make(map[string]*brokerage.Trader)
	for _, t := range cfg.Traders {
		if err := broker.AddUser(t.Name, t.Password); err != nil {
			return err
		}
		trader, err := broker.Login(t.Name, t.Password)
		if err != nil {
			return err
		}
		traders[t.Name] = trader
	}

	if scriptPath != "" {
		script, err := loadScript(scriptPath)
		if err != nil {
			return err
		}
		if err := replay(ctx, script, traders); err != nil {
			return err
		}
	}

	if dispatcher != nil {
		if err := dispatcher.Close(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}

	for _, t := range cfg.Traders {
		for _, msg := range traders[t.Name].Messages() {
			fmt.Printf("[%s] %s\n", t.Name, msg)
		}
	}
	for _, symbol := range eng.Symbols() {
		fmt.Printf("\n%s\n", eng.Quote(symbol))
	}
	return nil
}

// replay runs the script steps in order, stopping early on shutdown.
func replay(ctx context.Context, script *Script, traders map[string]*brokerage.Trader) error {
	for i, step := range script.Steps {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		trader, ok := traders[step.Trader]
		if !ok {
			return fmt.Errorf("step %d: unknown trader %q", i, step.Trader)
		}

		if step.Quote != "" {
			trader.Quote(step.Quote)
			continue
		}

		o := step.Order
		err := trader.Place(o.Symbol, o.Side, o.Type, o.Qty, o.Price)
		if err != nil {
			// A rejected order does not end the session.
			log.Warn().Err(err).Int("step", i).Str("trader", step.Trader).Msg("order not placed")
		}
	}
	return nil
}
