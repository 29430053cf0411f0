package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Room   RoomConfig   `yaml:"room"`
	WS     WSConfig     `yaml:"ws"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type RoomConfig struct {
	// Capacity bounds concurrent participants. It is independent of the
	// palette size: past len(Palette) joins, colors repeat.
	Capacity int      `yaml:"capacity"`
	Palette  []string `yaml:"palette"`
}

type WSConfig struct {
	// SendBuffer is the per-connection outbound queue length. A client
	// that falls this far behind is disconnected.
	SendBuffer     int      `yaml:"send_buffer"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
			Host: "127.0.0.1",
		},
		Room: RoomConfig{
			Capacity: 8,
			Palette: []string{
				"#E74C3C", // red
				"#3498DB", // blue
				"#2ECC71", // green
				"#F1C40F", // yellow
				"#9B59B6", // purple
				"#1ABC9C", // teal
				"#E67E22", // orange
				"#34495E", // dark blue
			},
		},
		WS: WSConfig{
			SendBuffer: 64,
		},
	}
}

// Load reads and parses the config file at path, applying defaults for
// unspecified fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but returns the defaults when the file
// does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if os.IsNotExist(err) {
		return defaultConfig(), nil
	}
	return cfg, err
}

func (c *Config) validate() error {
	if c.Room.Capacity < 1 {
		return fmt.Errorf("room.capacity must be at least 1, got %d", c.Room.Capacity)
	}
	if len(c.Room.Palette) == 0 {
		return fmt.Errorf("room.palette must not be empty")
	}
	if c.WS.SendBuffer < 1 {
		return fmt.Errorf("ws.send_buffer must be at least 1, got %d", c.WS.SendBuffer)
	}
	return nil
}
