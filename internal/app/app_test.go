package app

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/dshills/rewind/internal/config"
	"github.com/dshills/rewind/internal/document"
	"github.com/dshills/rewind/internal/engine/history"
)

type failingCommand struct {
	document.BaseCommand
	failUndo bool
}

func (c *failingCommand) Execute(*document.Document) error {
	if c.failUndo {
		return nil
	}
	return errors.New("execute refused")
}

func (c *failingCommand) Undo(*document.Document) error {
	return errors.New("undo refused")
}

func (c *failingCommand) Description() string { return "failing" }

func newTestSession(t *testing.T, mutate func(*config.Config)) *Session {
	t.Helper()
	cfg := config.Default()
	cfg.Metrics.Enabled = true
	if mutate != nil {
		mutate(cfg)
	}
	s, err := NewSession(Options{Config: cfg, Logger: zap.NewNop()})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewSessionRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.History.Capacity = 0
	if _, err := NewSession(Options{Config: cfg}); !errors.Is(err, config.ErrValidationFailed) {
		t.Errorf("NewSession error = %v, want ErrValidationFailed", err)
	}
}

func TestSessionExecuteUndoRedo(t *testing.T) {
	s := newTestSession(t, nil)

	add := document.NewAddItem("a", nil)
	if err := s.Execute(add); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if s.Document().Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Document().Len())
	}
	if err := s.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if s.Document().Len() != 0 {
		t.Errorf("Len after undo = %d, want 0", s.Document().Len())
	}
	if err := s.Redo(); err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	if !s.Document().Contains(add.Item()) {
		t.Error("redo did not restore the item")
	}

	m := s.Metrics()
	if got := testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("executed")); got != 1 {
		t.Errorf("executed notifications = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("replayed")); got != 2 {
		t.Errorf("replayed notifications = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.PastCommands); got != 1 {
		t.Errorf("past gauge = %v, want 1", got)
	}
}

func TestSessionJumps(t *testing.T) {
	s := newTestSession(t, nil)
	for _, title := range []string{"a", "b", "c"} {
		if err := s.Execute(document.NewAddItem(title, nil)); err != nil {
			t.Fatalf("Execute %s failed: %v", title, err)
		}
	}

	base, _ := s.Entry(0)
	if err := s.JumpTo(base); err != nil {
		t.Fatalf("JumpTo base failed: %v", err)
	}
	if s.Document().Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Document().Len())
	}

	second, ok := s.Entry(2)
	if !ok {
		t.Fatal("Entry(2) missing")
	}
	if err := s.RedoUntil(second); err != nil {
		t.Fatalf("RedoUntil failed: %v", err)
	}
	if s.Document().Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Document().Len())
	}

	first, _ := s.Entry(1)
	if err := s.UndoUntil(first); err != nil {
		t.Fatalf("UndoUntil failed: %v", err)
	}
	if s.Document().Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Document().Len())
	}

	if _, ok := s.Entry(4); ok {
		t.Error("Entry(4) should not exist")
	}
	if _, ok := s.Entry(-1); ok {
		t.Error("Entry(-1) should not exist")
	}
}

func TestSessionCountsFailures(t *testing.T) {
	s := newTestSession(t, nil)

	err := s.Execute(&failingCommand{})
	if !errors.Is(err, history.ErrExecutionFailed) {
		t.Fatalf("Execute error = %v, want ErrExecutionFailed", err)
	}

	if err := s.Execute(&failingCommand{failUndo: true}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if err := s.Undo(); !errors.Is(err, history.ErrReplayFailed) {
		t.Fatalf("Undo error = %v, want ErrReplayFailed", err)
	}

	m := s.Metrics()
	if got := testutil.ToFloat64(m.FailuresTotal.WithLabelValues("execution")); got != 1 {
		t.Errorf("execution failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.FailuresTotal.WithLabelValues("replay")); got != 1 {
		t.Errorf("replay failures = %v, want 1", got)
	}
	if s.History().HasPast() {
		t.Error("history should be wiped after a replay failure")
	}
}

func TestSessionApplyConfig(t *testing.T) {
	s := newTestSession(t, nil)
	for _, title := range []string{"a", "b", "c", "d"} {
		if err := s.Execute(document.NewAddItem(title, nil)); err != nil {
			t.Fatal(err)
		}
	}

	cfg := s.Config().Clone()
	cfg.History.Capacity = 2
	cfg.Logging.Level = "debug"
	if err := s.ApplyConfig(cfg); err != nil {
		t.Fatalf("ApplyConfig failed: %v", err)
	}
	if got := s.History().PastCount(); got != 2 {
		t.Errorf("PastCount = %d, want 2", got)
	}
	if got := s.Config().History.Capacity; got != 2 {
		t.Errorf("Config capacity = %d, want 2", got)
	}
	if got := testutil.ToFloat64(s.Metrics().Capacity); got != 2 {
		t.Errorf("capacity gauge = %v, want 2", got)
	}

	bad := cfg.Clone()
	bad.History.Capacity = -1
	if err := s.ApplyConfig(bad); err == nil {
		t.Error("ApplyConfig accepted an invalid configuration")
	}
	if got := s.History().Capacity(); got != 2 {
		t.Errorf("Capacity = %d after rejected config, want 2", got)
	}
}

func TestSessionWithoutMetrics(t *testing.T) {
	s := newTestSession(t, func(c *config.Config) { c.Metrics.Enabled = false })
	if s.Metrics() != nil {
		t.Fatal("metrics should be disabled")
	}
	if err := s.Execute(&failingCommand{}); err == nil {
		t.Error("Execute should fail")
	}
}

func TestMetricsWriteText(t *testing.T) {
	s := newTestSession(t, func(c *config.Config) { c.Metrics.Namespace = "test" })
	if err := s.Execute(document.NewAddItem("a", nil)); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := s.Metrics().WriteText(&buf); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`test_history_notifications_total{kind="executed"} 1`,
		"test_history_past_commands 1",
		"test_history_capacity 1000",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMetricsDetach(t *testing.T) {
	s := newTestSession(t, nil)
	s.Metrics().Detach(s.Bus())
	if err := s.Execute(document.NewAddItem("a", nil)); err != nil {
		t.Fatal(err)
	}
	if got := testutil.ToFloat64(s.Metrics().NotificationsTotal.WithLabelValues("executed")); got != 0 {
		t.Errorf("executed notifications = %v after Detach, want 0", got)
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggingConfig
		want    string
		wantErr bool
	}{
		{name: "json", cfg: config.LoggingConfig{Level: "info", Format: "json"}, want: `"msg":"hello"`},
		{name: "console", cfg: config.LoggingConfig{Level: "info", Format: "console"}, want: "hello"},
		{name: "bad level", cfg: config.LoggingConfig{Level: "loud", Format: "json"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, level, err := NewLogger(tt.cfg, &buf)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewLogger failed: %v", err)
			}
			logger.Debug("hidden")
			logger.Info("hello")
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output %q missing %q", buf.String(), tt.want)
			}
			if strings.Contains(buf.String(), "hidden") {
				t.Error("debug entry written at info level")
			}

			if err := SetLevel(level, "debug"); err != nil {
				t.Fatalf("SetLevel failed: %v", err)
			}
			logger.Debug("shown")
			if !strings.Contains(buf.String(), "shown") {
				t.Error("debug entry missing after SetLevel")
			}
			if err := SetLevel(level, "nope"); err == nil {
				t.Error("SetLevel accepted an invalid level")
			}
		})
	}
}

func TestRenderHistory(t *testing.T) {
	s := newTestSession(t, nil)
	for _, title := range []string{"alpha", "beta"} {
		if err := s.Execute(document.NewAddItem(title, nil)); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Undo(); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	RenderHistory(&buf, s.History(), TableOptions{ShowIDs: true})
	out := buf.String()

	for _, want := range []string{"Initial state", "base", "done", "undone", `"alpha"`, `"beta"`} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	current := s.History().Current()
	if !strings.Contains(out, current.ID()) {
		t.Errorf("table missing id column:\n%s", out)
	}

	var marked []string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, ">") {
			marked = append(marked, line)
		}
	}
	if len(marked) != 1 || !strings.Contains(marked[0], "alpha") {
		t.Errorf("current marker on %q, want the alpha row", marked)
	}
}

func TestRenderDocument(t *testing.T) {
	s := newTestSession(t, nil)
	root := document.NewAddItem("root", nil)
	if err := s.Execute(root); err != nil {
		t.Fatal(err)
	}
	if err := s.Execute(document.NewAddItem("child", root.Item())); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	RenderDocument(&buf, s.Document())
	out := buf.String()
	if !strings.Contains(out, "  child") {
		t.Errorf("child not indented:\n%s", out)
	}
	if !strings.Contains(out, "new") {
		t.Errorf("pending change missing:\n%s", out)
	}
}

func TestExportJSON(t *testing.T) {
	s := newTestSession(t, nil)
	root := document.NewAddItem("root", nil)
	if err := s.Execute(root); err != nil {
		t.Fatal(err)
	}
	if err := s.Execute(document.NewAddItem("leaf", root.Item())); err != nil {
		t.Fatal(err)
	}
	if err := s.Execute(document.NewRenameItem(root.Item(), "top")); err != nil {
		t.Fatal(err)
	}
	if err := s.Undo(); err != nil {
		t.Fatal(err)
	}

	data, err := ExportJSON(s.History(), s.Document())
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	if !gjson.ValidBytes(data) {
		t.Fatalf("invalid JSON:\n%s", data)
	}

	tests := []struct {
		path string
		want string
	}{
		{"past", "2"},
		{"future", "1"},
		{"capacity", "1000"},
		{"entries.#", "4"},
		{"entries.0.state", "base"},
		{"entries.0.name", "Initial state"},
		{"entries.2.current", "true"},
		{"entries.3.state", "undone"},
		{`entries.#(current==true).index`, "2"},
		{"items.#", "2"},
		{"items.0.title", "root"},
		{"items.1.parent", "1"},
		{"items.1.depth", "1"},
		{"items.0.parent", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := gjson.GetBytes(data, tt.path).String(); got != tt.want {
				t.Errorf("%s = %q, want %q", tt.path, got, tt.want)
			}
		})
	}

	id := gjson.GetBytes(data, "entries.1.id").String()
	if d, _ := s.Entry(1); d.ID() != id {
		t.Errorf("entries.1.id = %q, want %q", id, d.ID())
	}
}
