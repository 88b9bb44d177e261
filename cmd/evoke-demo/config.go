package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Config holds the demo's tunables.
type Config struct {
	// Workers is the number of background goroutines raising progress.
	Workers int

	// TickMillis is the delay between progress raises per worker.
	TickMillis int

	// GradientFrom and GradientTo are hex colors for the progress bars.
	GradientFrom string
	GradientTo   string
}

func defaultConfig() Config {
	return Config{
		Workers:      4,
		TickMillis:   40,
		GradientFrom: "#2b6cb0",
		GradientTo:   "#48bb78",
	}
}

// loadConfig reads the JSON config at path, falling back to defaults for
// missing keys. A missing file is materialized with the defaults so the
// user has something to edit.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, writeConfig(path, cfg)
	}
	if err != nil {
		return cfg, err
	}

	if v := gjson.GetBytes(data, "workers"); v.Exists() && v.Int() > 0 {
		cfg.Workers = int(v.Int())
	}
	if v := gjson.GetBytes(data, "tick_millis"); v.Exists() && v.Int() > 0 {
		cfg.TickMillis = int(v.Int())
	}
	if v := gjson.GetBytes(data, "gradient.from"); v.Exists() {
		cfg.GradientFrom = v.String()
	}
	if v := gjson.GetBytes(data, "gradient.to"); v.Exists() {
		cfg.GradientTo = v.String()
	}
	return cfg, nil
}

// writeConfig serializes cfg to path.
func writeConfig(path string, cfg Config) error {
	out := "{}"
	var err error
	if out, err = sjson.Set(out, "workers", cfg.Workers); err != nil {
		return err
	}
	if out, err = sjson.Set(out, "tick_millis", cfg.TickMillis); err != nil {
		return err
	}
	if out, err = sjson.Set(out, "gradient.from", cfg.GradientFrom); err != nil {
		return err
	}
	if out, err = sjson.Set(out, "gradient.to", cfg.GradientTo); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(out+"\n"), 0o644)
}
