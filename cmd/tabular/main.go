// Command tabular parses one release file and writes the outcome as JSON.
//
// The download orchestrator normally drives the library directly; this
// binary exists for operators re-running a single file by hand and for
// inspecting rejects during release triage.
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/tabular"
	"github.com/JonMunkholm/tabular/internal/config"
	"github.com/JonMunkholm/tabular/internal/logging"
	"github.com/JonMunkholm/tabular/pkg/tab"
)

func main() {
	var (
		file      = flag.String("file", "", "path to the release file (required)")
		releaseID = flag.String("release-id", "", "release identifier (required)")
		schemaID  = flag.String("schema", "", "schema id, e.g. refrate.v1 (required)")
		year      = flag.Int("year", 0, "product year (required)")
		vintage   = flag.String("vintage", "", "quarter vintage, e.g. 2024Q1 (required)")
		sourceURI = flag.String("source-uri", "", "where the file was downloaded from (required)")
		mime      = flag.String("mime", "", "declared content type (optional)")
		showRows  = flag.Bool("rows", false, "include parsed rows in output")
	)
	flag.Parse()

	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	if *file == "" || *releaseID == "" || *schemaID == "" || *year == 0 || *vintage == "" || *sourceURI == "" {
		flag.Usage()
		os.Exit(2)
	}

	content, err := os.ReadFile(*file)
	if err != nil {
		slog.Error("failed to read input", "error", err)
		os.Exit(1)
	}
	sum := sha256.Sum256(content)

	svc, err := tabular.New(cfg)
	if err != nil {
		slog.Error("failed to build service", "error", err)
		os.Exit(1)
	}

	result, err := svc.Parse(context.Background(), tabular.Input{
		Filename:     filepath.Base(*file),
		Content:      content,
		DeclaredMIME: *mime,
		Meta: tab.Metadata{
			ReleaseID:       *releaseID,
			SchemaID:        *schemaID,
			ProductYear:     *year,
			QuarterVintage:  *vintage,
			VintageDate:     time.Now().UTC(),
			FileContentHash: hex.EncodeToString(sum[:]),
			SourceURI:       *sourceURI,
		},
	})
	if err != nil {
		slog.Error("parse failed", "error", err)
		os.Exit(1)
	}

	out := map[string]any{
		"metrics": result.Metrics,
		"rejects": result.Rejects,
	}
	if *showRows {
		out["rows"] = result.Data.Rows
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		slog.Error("failed to encode output", "error", err)
		os.Exit(1)
	}
}
