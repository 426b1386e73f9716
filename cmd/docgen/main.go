package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"docgen-service-go/internal/app"
	"docgen-service-go/internal/domain/document"
	"docgen-service-go/internal/pkg/config"
	"docgen-service-go/internal/pkg/logger"

	"go.uber.org/zap"
)

const usage = `usage:
  docgen generate -request request.json
  docgen overlay -plan plan.json
  docgen templates

Configuration is read from DOCGEN_CONFIG, .env and the environment.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Log.Level, "console"); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		logger.Error("command failed", zap.String("command", os.Args[1]), zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, cmd string, args []string, out io.Writer) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	requestFile := fs.String("request", "", "JSON file with {company, documentType, data}")
	planFile := fs.String("plan", "", "JSON overlay plan")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := app.New(ctx, cfg, logger.Log)
	if err != nil {
		return err
	}
	defer a.Close()

	switch cmd {
	case "generate":
		if *requestFile == "" {
			return errors.New("-request is required")
		}
		req, err := readRequest(*requestFile)
		if err != nil {
			return err
		}
		res, err := a.Documents.Generate(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, res.Path)
		return nil

	case "overlay":
		if *planFile == "" {
			return errors.New("-plan is required")
		}
		plan, err := readPlan(*planFile)
		if err != nil {
			return err
		}
		report, err := applyPlan(ctx, a.Overlay, plan)
		if report != nil {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if eerr := enc.Encode(report); eerr != nil {
				return eerr
			}
		}
		return err

	case "templates":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(a.Documents.Templates())

	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func readRequest(path string) (*document.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request: %w", err)
	}
	var req document.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}
