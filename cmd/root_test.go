package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JSH-Team/unpack/internal/unpacker"

	"github.com/spf13/viper"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configFile, []byte("workers: 2\nno_progress: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", configFile}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRoot_MissingArgumentsPrintsUsage(t *testing.T) {
	out, err := execute(t, "only-project")
	if err != nil {
		t.Fatalf("missing arguments should not fail, got %v", err)
	}
	if !strings.Contains(out, "<project-directory> <path-to-map-file>") {
		t.Fatalf("usage not printed: %q", out)
	}
}

func TestRoot_UsageWithoutConfigDir(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	for name, xdg := range map[string]string{"no config dir": "", "fresh config dir": t.TempDir()} {
		t.Run(name, func(t *testing.T) {
			t.Setenv("HOME", "")
			t.Setenv("XDG_CONFIG_HOME", xdg)

			var out bytes.Buffer
			root := NewRootCmd()
			root.SetOut(&out)
			root.SetErr(&out)
			root.SetArgs([]string{})
			if err := root.ExecuteContext(context.Background()); err != nil {
				t.Fatalf("usage should not fail, got %v", err)
			}
			if !strings.Contains(out.String(), "<project-directory> <path-to-map-file>") {
				t.Fatalf("usage not printed: %q", out.String())
			}
			if xdg != "" {
				if _, err := os.Stat(filepath.Join(xdg, "unpack")); !os.IsNotExist(err) {
					t.Fatalf("config dir should not be created for usage, stat err = %v", err)
				}
			}
		})
	}
}

func TestRoot_ExtractsSources(t *testing.T) {
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "main.js.map")
	raw := `{"version":3,"sources":["webpack:///./src/a.js","webpack:///./src/b.js"],"sourcesContent":["a();\n","b();\n"],"mappings":""}`
	if err := os.WriteFile(mapPath, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}
	project := filepath.Join(dir, "out")

	out, err := execute(t, project, mapPath)
	if err != nil {
		t.Fatalf("execute: %v\n%s", err, out)
	}
	if !strings.Contains(out, "All done!") || !strings.Contains(out, "Processing with 2 workers") {
		t.Fatalf("unexpected output: %q", out)
	}
	got, err := os.ReadFile(filepath.Join(project, "src", "b.js"))
	if err != nil || string(got) != "b();\n" {
		t.Fatalf("b.js = %q, %v", got, err)
	}
}

func TestRoot_ProjectExists(t *testing.T) {
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "main.js.map")
	if err := os.WriteFile(mapPath, []byte(`{"version":3,"sources":[]}`), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, dir, mapPath)
	if !errors.Is(err, unpacker.ErrProjectExists) {
		t.Fatalf("err = %v, want ErrProjectExists", err)
	}
	if !IsReported(err) {
		t.Fatal("error should be marked as reported")
	}
	if !strings.Contains(out, "already exists") || strings.Contains(out, "Unpacking") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestRoot_UnsupportedMap(t *testing.T) {
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "main.js.map")
	if err := os.WriteFile(mapPath, []byte(`{"version":3,"sources":["../src/a.ts"]}`), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, filepath.Join(dir, "out"), mapPath)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(out, "Not a webpack generated sourcemap!") {
		t.Fatalf("unexpected output: %q", out)
	}
}
