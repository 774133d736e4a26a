package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

// ----------------------------------------------------------------------------
// Invocation ID Correlation Tests
// ----------------------------------------------------------------------------

func TestFromContextCarriesInvocationID(t *testing.T) {
	var buf bytes.Buffer
	orig := slog.Default()
	defer slog.SetDefault(orig)
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))

	ctx := WithInvocationID(context.Background(), "inv-42")
	FromContext(ctx).Info("parse started")

	if !strings.Contains(buf.String(), `"invocation_id":"inv-42"`) {
		t.Errorf("log entry = %q, want invocation_id field", buf.String())
	}

	buf.Reset()
	FromContext(context.Background()).Info("no id in context")
	if strings.Contains(buf.String(), "invocation_id") {
		t.Errorf("log entry = %q, want no invocation_id field", buf.String())
	}
}

func TestWithFieldsKeepsInvocationID(t *testing.T) {
	var buf bytes.Buffer
	orig := slog.Default()
	defer slog.SetDefault(orig)
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))

	ctx := WithInvocationID(context.Background(), "inv-43")
	WithFields(ctx, "dataset", "refrate").Info("stage done")

	out := buf.String()
	if !strings.Contains(out, `"invocation_id":"inv-43"`) || !strings.Contains(out, `"dataset":"refrate"`) {
		t.Errorf("log entry = %q, want both invocation_id and dataset fields", out)
	}
}
