// Command meteogram renders the frame sequence for one WRF forecast run.
//
// The run is selected by its initialization date and cycle hour, given either
// as flags or interactively:
//
//	meteogram -date 2024-06-01 -hour 0
//
// Configuration comes from the environment (see internal/config); fixtures
// for local runs can be produced with cmd/gengrid.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pantanalmet/meteogram/internal/adapter/httpadapter"
	"github.com/pantanalmet/meteogram/internal/adapter/naturalearth"
	"github.com/pantanalmet/meteogram/internal/adapter/wrf"
	"github.com/pantanalmet/meteogram/internal/config"
	"github.com/pantanalmet/meteogram/internal/observability"
	"github.com/pantanalmet/meteogram/internal/pipeline"
	"github.com/pantanalmet/meteogram/internal/render"
)

func main() {
	dateFlag := flag.String("date", "", "forecast initialization date (YYYY-MM-DD); prompts when omitted")
	hourFlag := flag.String("hour", "", "forecast cycle hour (0-23); prompts when omitted")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	date, hour, err := resolveRun(*dateFlag, *hourFlag)
	if err != nil {
		logger.Error("invalid run selection", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		logger.Error("failed to create output directory", "dir", cfg.OutputDir, "error", err)
		os.Exit(1)
	}

	borders, err := naturalearth.Load(cfg.BorderDataDir)
	if err != nil {
		logger.Error("failed to load border layers", "dir", cfg.BorderDataDir, "error", err)
		os.Exit(1)
	}

	renderer, err := render.New(render.Options{
		OutputDir: cfg.OutputDir,
		DPI:       cfg.DPI,
		MinLevel:  cfg.ContourMin,
		MaxLevel:  cfg.ContourMax,
		Cities:    cfg.Cities,
	}, borders, logger)
	if err != nil {
		logger.Error("failed to build renderer", "error", err)
		os.Exit(1)
	}

	reader := wrf.NewReader(logger)
	p := pipeline.New(cfg, reader, renderer, logger, metrics, clockwork.NewRealClock())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		srv := httpadapter.NewServer(cfg.MetricsAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("metrics server shutdown error", "error", err)
			}
		}()
	}

	summary, err := p.Run(ctx, date, hour)
	if err != nil {
		logger.Error("run failed", "date", date, "hour", hour, "error", err)
		os.Exit(1)
	}

	logger.Info("meteogram generated",
		"input", summary.InputPath,
		"frames", summary.Frames,
		"output_dir", summary.OutputDir,
		"elapsed", summary.Elapsed,
	)
}

// resolveRun returns a validated (date, hour) pair, prompting interactively
// when either flag is missing.
func resolveRun(date, hour string) (string, int, error) {
	if date != "" && hour != "" {
		return validateRun(date, hour)
	}
	return promptRun(os.Stdin, os.Stdout)
}

// promptRun asks for date and hour until both validate, as the operational
// workflow expects.
func promptRun(in io.Reader, out io.Writer) (string, int, error) {
	fmt.Fprintln(out, "Bem-vindo ao sistema de previsões meteorológicas!")
	scanner := bufio.NewScanner(in)
	for {
		date, ok := ask(scanner, out, "Digite a data para previsão (formato: YYYY-MM-DD): ")
		if !ok {
			return "", 0, errors.New("input closed before a valid run was selected")
		}
		hour, ok := ask(scanner, out, "Digite a hora para previsão (0-23): ")
		if !ok {
			return "", 0, errors.New("input closed before a valid run was selected")
		}

		d, h, err := validateRun(date, hour)
		if err == nil {
			return d, h, nil
		}
		fmt.Fprintf(out, "Entrada inválida (%v). Por favor, tente novamente.\n", err)
	}
}

func ask(scanner *bufio.Scanner, out io.Writer, prompt string) (string, bool) {
	fmt.Fprint(out, prompt)
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}

func validateRun(date, hour string) (string, int, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", 0, fmt.Errorf("invalid date %q: %w", date, err)
	}
	h, err := strconv.Atoi(hour)
	if err != nil {
		return "", 0, fmt.Errorf("invalid hour %q: %w", hour, err)
	}
	if h < 0 || h > 23 {
		return "", 0, fmt.Errorf("hour %d outside 0-23", h)
	}
	return date, h, nil
}
