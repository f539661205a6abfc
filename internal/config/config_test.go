package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

func flags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return fs
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_ENV", "missing")

	cfg, err := Load(flags(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := &Config{
		Mode:             "release",
		Port:             8080,
		StaticPath:       "./web",
		ReadLimit:        32768,
		PingPeriod:       54 * time.Second,
		LogLevel:         "info",
		LobbyDomain:      "lobby.voice",
		ConferenceDomain: "conference.voice",
		KnockLimit:       3,
		KnockInterval:    30 * time.Second,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestLoadFileAndFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voice.yaml")
	body := "mode: debug\nport: 9000\nlog_level: debug\nlobby_domain: wait.example\nknock_interval: 5s\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(flags(t, "--config", path, "--port", "9100"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != "debug" || cfg.LobbyDomain != "wait.example" || cfg.KnockInterval != 5*time.Second {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Port != 9100 {
		t.Errorf("Port = %d, want flag value 9100", cfg.Port)
	}
	if cfg.Level() != zerolog.DebugLevel {
		t.Errorf("Level = %s", cfg.Level())
	}
}

func TestLoadEnvSelectsFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.Mkdir("config", 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("config/config.staging.yaml", []byte("port: 7000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_ENV", "staging")

	cfg, err := Load(flags(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 7000 {
		t.Errorf("Port = %d, want 7000", cfg.Port)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"same domains":  "lobby_domain: a.voice\nconference_domain: a.voice\n",
		"zero limit":    "knock_limit: 0\n",
		"bad port":      "port: 70000\n",
		"empty domain":  "lobby_domain: \"\"\n",
		"zero interval": "knock_interval: 0s\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(flags(t, "--config", path)); err == nil {
				t.Error("Load succeeded, want validation error")
			}
		})
	}
}

func TestLevelFallback(t *testing.T) {
	for in, want := range map[string]zerolog.Level{
		"":      zerolog.InfoLevel,
		"bogus": zerolog.InfoLevel,
		"warn":  zerolog.WarnLevel,
		"trace": zerolog.TraceLevel,
	} {
		c := &Config{LogLevel: in}
		if got := c.Level(); got != want {
			t.Errorf("Level(%q) = %s, want %s", in, got, want)
		}
	}
}
