package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/benjaminschreck/go-redline/pkg/redline"
)

func main() {
	// Optional .env next to the binary; absence is fine.
	_ = godotenv.Load()

	source := flag.String("source", "", "Path to the source document carrying tracked changes")
	target := flag.String("target", "", "Path to the target document to project the changes onto")
	output := flag.String("out", "", "Path to write the output document")
	configPath := flag.String("config", "", "Path to a YAML config file (optional)")
	flag.Parse()

	if *source == "" || *target == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "Usage: redline -source <edited.docx> -target <baseline.docx> -out <output.docx> [-config <config.yaml>]")
		os.Exit(1)
	}

	cfg, err := redline.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "redline: %v\n", err)
		os.Exit(1)
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.LogLevel))
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	matcher, err := redline.NewOllamaMatcher(cfg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize matcher")
	}

	m := redline.Matcher(matcher)
	if cfg.AlignCacheSize > 0 {
		m, err = redline.NewCachedMatcher(matcher, cfg.AlignCacheSize)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize matcher cache")
		}
	}

	pj := redline.NewProjector(m,
		redline.WithLogger(log.Logger),
		redline.WithMatchTimeout(cfg.MatchTimeout),
		redline.WithReporter(func(msg string) {
			log.Info().Msg(msg)
		}),
	)

	summary, err := pj.ProjectFile(context.Background(), *source, *target, *output)
	if err != nil {
		log.Fatal().Err(err).Msg("projection failed")
	}

	fmt.Printf("Revisions found: %d, applied: %d, failed: %d\n", summary.Found, summary.Applied, summary.Failed)
	fmt.Printf("Output saved to: %s\n", *output)
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
