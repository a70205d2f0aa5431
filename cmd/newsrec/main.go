package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/newsrec/pkg/cache"
	"github.com/umputun/newsrec/pkg/config"
	"github.com/umputun/newsrec/pkg/domain"
	"github.com/umputun/newsrec/pkg/enrich"
	"github.com/umputun/newsrec/pkg/llm"
	"github.com/umputun/newsrec/pkg/newsapi"
	"github.com/umputun/newsrec/pkg/pipeline"
	"github.com/umputun/newsrec/pkg/rank"
	"github.com/umputun/newsrec/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"f" long:"config" env:"CONFIG" default:"config.yml" description:"config file path"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

// cleanupInterval is how often cache backends purge expired entries
const cleanupInterval = 5 * time.Minute

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug)

	log.Printf("[INFO] starting newsrec version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		log.Printf("[ERROR] server failed: %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

// run loads configuration, wires the pipeline stages and serves until the
// context is canceled
func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("can't load config %s: %w", opts.Config, err)
	}

	// re-setup logging with secrets masked now that keys are known
	setupLog(opts.Debug, cfg.NewsAPI.APIKey, cfg.LLM.APIKey, cfg.Server.APIKey)

	backend, err := cache.New(cfg.GetCacheConfig())
	if err != nil {
		return fmt.Errorf("can't create cache backend: %w", err)
	}
	startJanitor(ctx, backend)

	fetchCache := cache.NewTyped[[]domain.Article](backend, "fetch:", cfg.Cache.TTLFetch)
	analysisCache := cache.NewTyped[llm.Analysis](backend, "enrich:", cfg.Cache.TTLEnrich)

	fetcher := newsapi.NewClient(cfg.GetNewsAPIConfig(), fetchCache)
	analyzer := llm.NewAnalyzer(cfg.GetLLMConfig())
	enricher := enrich.NewEnricher(analyzer, analysisCache, cfg.LLM.MaxInputChars)
	engine := rank.NewEngine(cfg.GetScoringConfig())

	p := pipeline.New(fetcher, enricher, engine, analyzer.Model(), cfg.GetPipelineConfig())

	srv := server.New(cfg, p, revision, opts.Debug)
	return srv.Run(ctx)
}

// startJanitor kicks off background expiry cleanup for backends that need it.
// Redis expires keys natively and gets nothing.
func startJanitor(ctx context.Context, backend cache.Cache) {
	switch b := backend.(type) {
	case *cache.Memory:
		b.StartCleanup(ctx, cleanupInterval)
	case *cache.SQLite:
		go func() {
			ticker := time.NewTicker(cleanupInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					if err := b.Close(); err != nil {
						log.Printf("[WARN] can't close sqlite cache: %v", err)
					}
					return
				case <-ticker.C:
					if err := b.PurgeExpired(ctx); err != nil {
						log.Printf("[WARN] cache cleanup failed: %v", err)
					}
				}
			}
		}()
	}
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Out(io.Discard), lgr.Err(io.Discard)}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
