package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sundayezeilo/toolbench/internal/palette"
)

// writeConfig writes a config with no generation delay and a temp link store.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "toolgen.yaml")
	content := "format: text\n" +
		"min_delay: 1ms\n" +
		"max_delay: 1ms\n" +
		"seed: 7\n" +
		"store: " + filepath.Join(dir, "links.db") + "\n" +
		"base_url: https://sho.rt\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.Execute()
	return out.String(), err
}

/***************
 * Config
 ***************/

func TestLoadConfig(t *testing.T) {
	t.Run("file values", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t))
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Format != "text" || cfg.MinDelay != time.Millisecond || cfg.Seed != 7 {
			t.Errorf("cfg = %+v", cfg)
		}
		if cfg.CodeStyle != "dracula" {
			t.Errorf("CodeStyle = %q, want default dracula", cfg.CodeStyle)
		}
	})

	t.Run("env override", func(t *testing.T) {
		t.Setenv("TOOLGEN_FORMAT", "html")
		cfg, err := LoadConfig(writeConfig(t))
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Format != "html" {
			t.Errorf("Format = %q, want html", cfg.Format)
		}
	})

	t.Run("missing explicit file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("LoadConfig() should fail for a missing explicit file")
		}
	})

	t.Run("inverted delays", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		os.WriteFile(path, []byte("min_delay: 5s\nmax_delay: 1s\n"), 0o644)
		if _, err := LoadConfig(path); err == nil {
			t.Error("LoadConfig() should reject max_delay < min_delay")
		}
	})
}

/***************
 * Tools
 ***************/

func TestList(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, cfg, "list")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	for _, want := range []string{"MARKETING", "marketing/email-marketing", "hr/job-description"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q", want)
		}
	}

	out, err = run(t, cfg, "list", "--search", "email")
	if err != nil {
		t.Fatalf("list --search error = %v", err)
	}
	if !strings.Contains(out, "marketing/email-marketing") {
		t.Errorf("search output = %q", out)
	}

	if _, err := run(t, cfg, "list", "--search", "zzzzqqq"); err == nil {
		t.Error("search without matches should fail")
	}
}

func TestShow(t *testing.T) {
	out, err := run(t, writeConfig(t), "show", "email-marketing")
	if err != nil {
		t.Fatalf("show error = %v", err)
	}
	for _, want := range []string{"Email Marketing AI", "brandName", "includeABTesting", "A/B Testing Framework", "newsletter", "Optional sections:"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q", want)
		}
	}

	_, err = run(t, writeConfig(t), "show", "nope")
	if err == nil || strings.Contains(err.Error(), "tool.LookupID") {
		t.Errorf("show unknown tool error = %v, want a plain message", err)
	}
}

func TestRender(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, cfg, "render", "marketing/email-marketing",
		"--set", "brandName=Acme",
		"--set", "emailTypes=newsletter",
		"--set", "includeABTesting=true",
	)
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	if !strings.Contains(out, "Acme") || !strings.Contains(out, "A/B Testing Framework") {
		t.Errorf("render output missing brand or A/B section:\n%s", out)
	}

	out, err = run(t, cfg, "render", "email-marketing", "--set", "includeABTesting=false")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	if strings.Contains(out, "A/B Testing Framework") {
		t.Error("A/B section should be absent when the flag is off")
	}
}

func TestRender_Input(t *testing.T) {
	cfg := writeConfig(t)
	input := filepath.Join(t.TempDir(), "values.yaml")
	os.WriteFile(input, []byte("brandName: Globex\nemailTypes:\n  - welcome\n  - promotional\nincludeAnalytics: false\n"), 0o644)

	out, err := run(t, cfg, "render", "email-marketing", "--input", input, "--set", "tone=friendly")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	if !strings.Contains(out, "Globex") || !strings.Contains(out, "'promotional'") {
		t.Errorf("render output missing input values:\n%s", out)
	}
	if strings.Contains(out, "Campaign Analytics Dashboard") {
		t.Error("analytics section should be absent")
	}
}

func TestRender_Errors(t *testing.T) {
	cfg := writeConfig(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown tool", []string{"render", "nope"}},
		{"malformed set", []string{"render", "email-marketing", "--set", "brandName"}},
		{"unknown field", []string{"render", "email-marketing", "--set", "color=red"}},
		{"enum outside catalog", []string{"render", "email-marketing", "--set", "industry=piracy"}},
		{"bad format", []string{"render", "email-marketing", "--format", "pdf"}},
		{"missing input", []string{"render", "email-marketing", "--input", "/nonexistent/values.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, cfg, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestGenerate_Quiet(t *testing.T) {
	out, err := run(t, writeConfig(t), "generate", "hr/job-description", "--quiet", "--format", "html")
	if err != nil {
		t.Fatalf("generate error = %v", err)
	}
	if !strings.Contains(out, "<") {
		t.Errorf("html output expected, got:\n%s", out)
	}
}

/***************
 * Palette
 ***************/

func TestPalette(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, cfg, "palette", "--base", "#3366ff", "--scheme", "triadic", "--json")
	if err != nil {
		t.Fatalf("palette error = %v", err)
	}
	var p palette.Palette
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Scheme != palette.Triadic || len(p.Swatches) != 3 {
		t.Errorf("palette = %+v", p)
	}

	out, err = run(t, cfg, "palette", "--scheme", "warm", "--count", "4")
	if err != nil {
		t.Fatalf("palette error = %v", err)
	}
	if strings.Count(out, "#") < 4 {
		t.Errorf("expected 4 swatches:\n%s", out)
	}

	out, err = run(t, cfg, "palette", "--base", "#ff0000", "--scheme", "complementary", "--hex")
	if err != nil {
		t.Fatalf("palette --hex error = %v", err)
	}
	lines := strings.Fields(out)
	if len(lines) != 2 || lines[0] != "#ff0000" {
		t.Errorf("hex output = %q", out)
	}

	if _, err := run(t, cfg, "palette", "--scheme", "neon"); err == nil {
		t.Error("unknown scheme should fail")
	}
}

/***************
 * Links
 ***************/

func TestShortenAndLinks(t *testing.T) {
	cfg := writeConfig(t)
	qr := filepath.Join(t.TempDir(), "qr.png")

	out, err := run(t, cfg, "shorten", "https://example.com/docs", "--code", "docs", "--qr", qr)
	if err != nil {
		t.Fatalf("shorten error = %v", err)
	}
	if !strings.Contains(out, "https://sho.rt/s/docs") {
		t.Errorf("shorten output = %q", out)
	}
	png, err := os.ReadFile(qr)
	if err != nil || !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("QR file not a PNG (err=%v)", err)
	}

	if _, err := run(t, cfg, "shorten", "https://example.com/other", "--code", "docs"); err == nil {
		t.Error("duplicate code should fail")
	}
	if _, err := run(t, cfg, "shorten", "ftp://example.com"); err == nil {
		t.Error("non-http url should fail")
	}

	out, err = run(t, cfg, "links")
	if err != nil {
		t.Fatalf("links error = %v", err)
	}
	if !strings.Contains(out, "docs") || strings.Contains(out, "example.com/other") {
		t.Errorf("links output = %q", out)
	}
}
