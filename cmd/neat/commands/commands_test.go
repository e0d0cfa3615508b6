package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, driver string) string {
	t.Helper()
	dir := t.TempDir()
	content := fmt.Sprintf(`
storage:
  local:
    driver: %s
    path: %s
  cookies:
    jar: file
    path: %s
logging:
  level: error
`, driver, filepath.Join(dir, "neat.db"), filepath.Join(dir, "cookies.yaml"))

	path := filepath.Join(dir, "neat.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	return runContext(t, context.Background(), cfgPath, args...)
}

func runContext(t *testing.T, ctx context.Context, cfgPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.ExecuteContext(ctx)
	return strings.TrimSpace(out.String()), err
}

func mustRun(t *testing.T, cfgPath string, args ...string) string {
	t.Helper()
	out, err := run(t, cfgPath, args...)
	if err != nil {
		t.Fatalf("neat %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestStorageSQLite(t *testing.T) {
	cfg := writeConfig(t, "sqlite")

	mustRun(t, cfg, "storage", "set", "theme", "dark")
	if got := mustRun(t, cfg, "storage", "get", "theme"); got != "dark" {
		t.Errorf("storage get = %q, want dark", got)
	}
	if got := mustRun(t, cfg, "storage", "keys"); got != "theme" {
		t.Errorf("storage keys = %q, want theme", got)
	}

	var probe map[string]interface{}
	if err := json.Unmarshal([]byte(mustRun(t, cfg, "--json", "storage", "probe")), &probe); err != nil {
		t.Fatalf("probe output is not JSON: %v", err)
	}
	if probe["local_available"] != true || probe["backend"] != "sqlite" {
		t.Errorf("probe = %v", probe)
	}

	mustRun(t, cfg, "storage", "remove", "theme")
	if _, err := run(t, cfg, "storage", "get", "theme"); err == nil {
		t.Error("expected error for removed key")
	}
}

func TestStorageCookieFallback(t *testing.T) {
	cfg := writeConfig(t, "none")

	mustRun(t, cfg, "storage", "set", "lang", "en gb")
	if got := mustRun(t, cfg, "storage", "get", "lang"); got != "en gb" {
		t.Errorf("storage get = %q", got)
	}
	if got := mustRun(t, cfg, "cookie", "get", "custom_lang"); got != "en gb" {
		t.Errorf("cookie get = %q", got)
	}
	if got := mustRun(t, cfg, "storage", "probe"); !strings.Contains(got, "using cookie") {
		t.Errorf("probe = %q", got)
	}
	if _, err := run(t, cfg, "storage", "keys"); err == nil {
		t.Error("keys without a local store should fail")
	}
}

func TestCookieCommands(t *testing.T) {
	cfg := writeConfig(t, "none")

	mustRun(t, cfg, "cookie", "set", "a", "1", "--days", "1")
	mustRun(t, cfg, "cookie", "set", "b", "2")

	list := mustRun(t, cfg, "cookie", "list")
	lines := strings.Split(list, "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "a=1\t(expires ") || lines[1] != "b=2" {
		t.Errorf("cookie list = %q", list)
	}

	mustRun(t, cfg, "cookie", "delete", "a")
	if _, err := run(t, cfg, "cookie", "get", "a"); err == nil {
		t.Error("deleted cookie still readable")
	}

	mustRun(t, cfg, "cookie", "clear")
	if got := mustRun(t, cfg, "cookie", "list"); got != "" {
		t.Errorf("cookie list after clear = %q", got)
	}
}

func TestHelperCommands(t *testing.T) {
	cfg := writeConfig(t, "memory")

	guids := strings.Split(mustRun(t, cfg, "guid", "-n", "3"), "\n")
	if len(guids) != 3 {
		t.Fatalf("expected 3 GUIDs, got %v", guids)
	}
	pattern := regexp.MustCompile(`^[0-9A-F]{8}-[0-9A-F]{4}-4[0-9A-F]{3}-[89AB][0-9A-F]{3}-[0-9A-F]{12}$`)
	for _, g := range guids {
		if !pattern.MatchString(g) {
			t.Errorf("malformed GUID %q", g)
		}
	}

	if got := mustRun(t, cfg, "rgb", "#FF0000"); got != "rgb(255,0,0)" {
		t.Errorf("rgb = %q", got)
	}
	if _, err := run(t, cfg, "rgb", "nothex"); err == nil {
		t.Error("expected error for malformed hex")
	}
	if got := mustRun(t, cfg, "urlparam", "q", "http://x?q=hello+world"); got != "hello world" {
		t.Errorf("urlparam = %q", got)
	}
	if _, err := run(t, cfg, "guid", "-n", "0"); err == nil {
		t.Error("expected error for zero count")
	}
}

func TestScriptCommand(t *testing.T) {
	cfg := writeConfig(t, "sqlite")
	mustRun(t, cfg, "storage", "set", "theme", "dark")

	path := filepath.Join(t.TempDir(), "copy.star")
	src := "storage.set(dst, storage.get(src, \"\"))\ncopied = storage.get(dst)\n"
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	out := mustRun(t, cfg, "script", path, "--var", "src=theme", "--var", "dst=backup")
	if out != "copied = dark" {
		t.Errorf("script output = %q", out)
	}
	if got := mustRun(t, cfg, "storage", "get", "backup"); got != "dark" {
		t.Errorf("storage get backup = %q", got)
	}

	if _, err := run(t, cfg, "script", path, "--var", "novalue"); err == nil {
		t.Error("expected error for malformed --var")
	}
}

func TestMetricsCommand(t *testing.T) {
	cfg := writeConfig(t, "memory")

	for _, interval := range []string{"0", "-1s"} {
		_, err := run(t, cfg, "metrics", "--interval", interval, "--listen", "127.0.0.1:0")
		if err == nil || !strings.Contains(err.Error(), "--interval") {
			t.Errorf("metrics --interval %s error = %v, want interval error", interval, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if _, err := runContext(t, ctx, cfg, "metrics", "--interval", "10ms", "--listen", "127.0.0.1:0"); err != nil {
		t.Errorf("metrics until cancelled: %v", err)
	}
}

func TestBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  local:\n    driver: redis\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, path, "storage", "probe"); err == nil {
		t.Fatal("expected config validation error")
	}
}
