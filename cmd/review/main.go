package main

// Review one CV from the command line:
//   go run ./cmd/review -file cv.pdf -format text

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"cv-review/internal/bootstrap"
	"cv-review/internal/extract"
	"cv-review/internal/render"
	"cv-review/internal/reviews"
	"cv-review/internal/shared/config"
	"cv-review/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()

	filePath := flag.String("file", "", "Path to the CV (pdf)")
	format := flag.String("format", "text", "Output format: text, html or json")
	provider := flag.String("provider", cfg.LLMProvider, "LLM provider (gemini, openai, none)")
	model := flag.String("model", cfg.LLMModel, "LLM model")
	timeout := flag.Duration("timeout", cfg.LLMTimeout, "Analysis timeout (0 waits indefinitely)")
	flag.Parse()

	// Keep stdout for the review itself.
	telemetry.SetOutput(os.Stderr)
	telemetry.SetLevel(cfg.LogLevel)

	if strings.TrimSpace(*filePath) == "" {
		exitErr("file path is required")
	}
	if !reviews.AcceptsUpload(*filePath, "") {
		exitErr(reviews.KindNotPDF.Message())
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		exitErr(fmt.Sprintf("read file: %v", err))
	}

	cfg.LLMProvider = *provider
	cfg.LLMModel = *model
	cfg.LLMTimeout = *timeout

	ctx := context.Background()
	client, err := bootstrap.BuildLLM(ctx, cfg)
	if err != nil {
		exitErr(err.Error())
	}

	pipeline := &reviews.Pipeline{Extractor: extract.PDFExtractor{}, LLM: client}
	started := time.Now()
	out := pipeline.Run(ctx, uuid.NewString(), data)
	telemetry.Debug("review.cli_done", map[string]any{
		"state":       string(out.State),
		"duration_ms": time.Since(started).Milliseconds(),
	})

	if err := write(*format, out); err != nil {
		exitErr(err.Error())
	}
	if out.State == reviews.StateError {
		os.Exit(2)
	}
}

func write(format string, out reviews.Outcome) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		fmt.Print(render.Text(out.View))
	case "html":
		html, err := render.HTML(out.View)
		if err != nil {
			return fmt.Errorf("render html: %w", err)
		}
		fmt.Println(html)
	case "json":
		payload := map[string]any{
			"state": out.State,
			"view":  out.View,
		}
		if out.Sections != nil {
			payload["sections"] = out.Sections
		}
		if out.Kind != reviews.KindNone {
			payload["error"] = map[string]any{"kind": out.Kind, "message": out.Kind.Message()}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
