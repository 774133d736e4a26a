// Package tabular parses government tabular data releases into typed,
// validated, deterministically ordered and hashed tables.
//
// One call does the whole job:
//
//	svc, err := tabular.New(cfg)
//	result, err := svc.Parse(ctx, tabular.Input{
//	    Filename: "refrate_2024q1.txt",
//	    Content:  content,
//	    Meta:     meta,
//	})
//
// The result is all-or-nothing: either a complete ParseResult whose valid
// rows and rejects together account for every row considered, or a typed
// fatal error (see pkg/tab) and no output at all.
package tabular

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JonMunkholm/tabular/internal/config"
	"github.com/JonMunkholm/tabular/internal/dataset"
	"github.com/JonMunkholm/tabular/internal/decode"
	"github.com/JonMunkholm/tabular/internal/logging"
	"github.com/JonMunkholm/tabular/internal/router"
	"github.com/JonMunkholm/tabular/pkg/tab"
)

// Input is one file handed over by the download orchestrator.
type Input struct {
	// Filename is the name the release was published under; it drives
	// dataset routing.
	Filename string

	// Content is the complete file content.
	Content []byte

	// DeclaredMIME is the content type reported upstream. Advisory only.
	DeclaredMIME string

	// Meta is the required provenance record. Parse fails fast when any
	// field is missing.
	Meta tab.Metadata
}

// Service is the parsing entry point. It is safe for concurrent use.
type Service struct {
	cfg *config.Config
}

// New builds a Service from loaded configuration.
func New(cfg *config.Config) (*Service, error) {
	if cfg == nil {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return nil, err
		}
	} else if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Service{cfg: cfg}, nil
}

// Parse routes and parses one input file.
func (s *Service) Parse(ctx context.Context, in Input) (*tab.ParseResult, error) {
	if err := in.Meta.Validate(); err != nil {
		return nil, err
	}
	if int64(len(in.Content)) > s.cfg.Parse.MaxFileSize {
		return nil, fmt.Errorf("input %q is %d bytes, exceeding the %d byte limit",
			in.Filename, len(in.Content), s.cfg.Parse.MaxFileSize)
	}
	if len(in.Content) == 0 {
		return nil, &tab.UnroutableInputError{Filename: in.Filename, Detail: "empty content"}
	}

	head := in.Content
	if len(head) > decode.SniffLimit {
		head = head[:decode.SniffLimit]
	}
	route, err := router.Route(in.Filename, head, in.DeclaredMIME)
	if err != nil {
		return nil, err
	}

	def, ok := dataset.Get(route.ParserKey)
	if !ok {
		return nil, &tab.UnroutableInputError{
			Filename: in.Filename,
			Detail:   "routed to unregistered dataset " + route.ParserKey,
		}
	}

	if in.Meta.SchemaID != def.SchemaID {
		return nil, fmt.Errorf("metadata declares schema %s but dataset %s parses against %s",
			in.Meta.SchemaID, def.Key, def.SchemaID)
	}

	invocationID := uuid.NewString()
	ctx = logging.WithInvocationID(ctx, invocationID)
	logger := logging.WithFields(ctx,
		"dataset", route.DatasetID,
		"release_id", in.Meta.ReleaseID,
	)
	logger.Info("parse started",
		slog.String("filename", in.Filename),
		slog.String("format", string(route.Format)),
	)

	result, err := dataset.Run(def, route, in.Content, in.Meta, dataset.Options{
		Logger:         logger,
		InvocationID:   invocationID,
		DatePivotYears: s.cfg.Parse.DatePivotYears,
	})
	if err != nil {
		logger.Error("parse failed", slog.String("error", err.Error()))
		return nil, err
	}
	return result, nil
}

// Datasets lists the registered dataset keys, sorted.
func Datasets() []string {
	defs := dataset.All()
	keys := make([]string, len(defs))
	for i, def := range defs {
		keys[i] = def.Key
	}
	return keys
}
