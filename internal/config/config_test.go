package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yaml := `
server:
  port: 9090
  host: "0.0.0.0"
room:
  capacity: 4
  palette: ["#111111", "#222222"]
ws:
  send_buffer: 128
  allowed_origins:
    - "https://board.example.com"
`
	if err := os.WriteFile(cfgPath, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Room.Capacity != 4 {
		t.Errorf("Room.Capacity = %d, want 4", cfg.Room.Capacity)
	}
	if len(cfg.Room.Palette) != 2 || cfg.Room.Palette[0] != "#111111" {
		t.Errorf("Room.Palette = %v, want the two configured colors", cfg.Room.Palette)
	}
	if cfg.WS.SendBuffer != 128 {
		t.Errorf("WS.SendBuffer = %d, want 128", cfg.WS.SendBuffer)
	}
	if len(cfg.WS.AllowedOrigins) != 1 || cfg.WS.AllowedOrigins[0] != "https://board.example.com" {
		t.Errorf("WS.AllowedOrigins = %v", cfg.WS.AllowedOrigins)
	}
}

func TestLoadAppliesDefaultsForUnspecifiedFields(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("server:\n  port: 3000\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Room.Capacity != 8 {
		t.Errorf("Room.Capacity = %d, want default 8", cfg.Room.Capacity)
	}
	if len(cfg.Room.Palette) != 8 {
		t.Errorf("len(Room.Palette) = %d, want default 8", len(cfg.Room.Palette))
	}
	if cfg.WS.SendBuffer != 64 {
		t.Errorf("WS.SendBuffer = %d, want default 64", cfg.WS.SendBuffer)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("Load() on missing file should return error")
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want default 8080", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want default %q", cfg.Server.Host, "127.0.0.1")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(cfgPath, []byte(":::not valid yaml"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(cfgPath); err == nil {
		t.Fatal("Load() with invalid YAML should return error")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero capacity", "room:\n  capacity: 0\n"},
		{"empty palette", "room:\n  palette: []\n"},
		{"zero send buffer", "ws:\n  send_buffer: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			cfgPath := filepath.Join(dir, "config.yaml")
			if err := os.WriteFile(cfgPath, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(cfgPath); err == nil {
				t.Error("Load() should reject the config")
			}
		})
	}
}
