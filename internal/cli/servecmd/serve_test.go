package servecmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesFlagsOverFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "shell.yaml")
	body := "Name: lindo\nHost: 127.0.0.1\nPort: 3000\nShell:\n  AppName: lindo\nprofiles:\n  dev:\n    Port: 3100\n"
	if err := os.WriteFile(file, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cmd := New()
	if err := cmd.Flags().Parse([]string{"--port", "4000", "--grpc", "--no-window"}); err != nil {
		t.Fatal(err)
	}
	f := flags{cfgFile: file, profile: "dev", port: 4000, grpc: true, noWindow: true}
	v, err := Load(cmd, f)
	if err != nil {
		t.Fatal(err)
	}
	c, err := Decode(v)
	if err != nil {
		t.Fatal(err)
	}
	if c.Port != 4000 || !c.Grpc.Enabled || c.Shell.OpenWindowOnStart {
		t.Fatalf("flags not applied: port=%d grpc=%v window=%v", c.Port, c.Grpc.Enabled, c.Shell.OpenWindowOnStart)
	}
	if c.Sync.Buffer != 256 || c.PatchLog.Type != "noop" || c.Settings.Driver != "auto" {
		t.Fatalf("defaults not applied: %+v %+v %+v", c.Sync, c.PatchLog, c.Settings)
	}
}

func TestLoadProfile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "shell.yaml")
	_ = os.WriteFile(file, []byte("Name: lindo\nPort: 3000\nprofiles:\n  dev:\n    Port: 3100\n"), 0o644)
	v, err := Load(New(), flags{cfgFile: file, profile: "dev"})
	if err != nil {
		t.Fatal(err)
	}
	c, err := Decode(v)
	if err != nil {
		t.Fatal(err)
	}
	if c.Port != 3100 {
		t.Fatalf("port %d", c.Port)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	file := filepath.Join(t.TempDir(), "shell.yaml")
	_ = os.WriteFile(file, []byte("Name: lindo\nPort: 3000\n"), 0o644)
	t.Setenv("LINDO_PORT", "3500")
	t.Setenv("LINDO_GRPC_ENABLED", "true")
	v, err := Load(New(), flags{cfgFile: file})
	if err != nil {
		t.Fatal(err)
	}
	c, err := Decode(v)
	if err != nil {
		t.Fatal(err)
	}
	if c.Port != 3500 || !c.Grpc.Enabled {
		t.Fatalf("env not applied: port=%d grpc=%v", c.Port, c.Grpc.Enabled)
	}
}
