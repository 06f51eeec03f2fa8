package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Plot   PlotConfig   `yaml:"plot"`
	Record RecordConfig `yaml:"record"`
	Sim    SimConfig    `yaml:"sim"`
}

type PlotConfig struct {
	Input        string `yaml:"input"`
	Output       string `yaml:"output"`
	PadTimes     bool   `yaml:"pad_times"`
	ZeroInterval string `yaml:"zero_interval"`
}

type RecordConfig struct {
	// Device is the serial device; empty means auto-detect.
	Device   string `yaml:"device"`
	Baud     int    `yaml:"baud"`
	GPSDAddr string `yaml:"gpsd_addr"`
	Output   string `yaml:"output"`
	// DatePrefix writes "YYYY-MM-DD HH:MM:SS" timestamps when the source
	// carries a date.
	DatePrefix *bool `yaml:"date_prefix"`
}

type SimConfig struct {
	CenterLatDeg float64       `yaml:"center_lat_deg"`
	CenterLonDeg float64       `yaml:"center_lon_deg"`
	AltM         int           `yaml:"alt_m"`
	RadiusNm     float64       `yaml:"radius_nm"`
	Period       time.Duration `yaml:"period"`
	Interval     time.Duration `yaml:"interval"`
	Count        int           `yaml:"count"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var cfg Config
	applyDefaults(&cfg)
	return cfg
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		if strings.Contains(err.Error(), "not found in type") {
			return Config{}, fmt.Errorf("config contains unknown fields: %s", trimYAMLErr(err))
		}
		return Config{}, err
	}

	applyDefaults(&cfg)
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Plot.Input == "" {
		cfg.Plot.Input = "data.track"
	}
	if cfg.Plot.Output == "" {
		cfg.Plot.Output = "gpsplot.gp"
	}
	if cfg.Plot.ZeroInterval == "" {
		cfg.Plot.ZeroInterval = "fail"
	}

	if cfg.Record.Baud == 0 {
		cfg.Record.Baud = 9600
	}
	if cfg.Record.Output == "" {
		cfg.Record.Output = "data.track"
	}
	if cfg.Record.DatePrefix == nil {
		v := true
		cfg.Record.DatePrefix = &v
	}

	// Simulator defaults: a small loop over Chemnitz.
	if cfg.Sim.CenterLatDeg == 0 && cfg.Sim.CenterLonDeg == 0 {
		cfg.Sim.CenterLatDeg = 50.8357
		cfg.Sim.CenterLonDeg = 12.9292
	}
	if cfg.Sim.AltM == 0 {
		cfg.Sim.AltM = 300
	}
	if cfg.Sim.RadiusNm <= 0 {
		cfg.Sim.RadiusNm = 0.5
	}
	if cfg.Sim.Period <= 0 {
		cfg.Sim.Period = 120 * time.Second
	}
	if cfg.Sim.Interval <= 0 {
		cfg.Sim.Interval = 1 * time.Second
	}
	if cfg.Sim.Count <= 0 {
		cfg.Sim.Count = 120
	}
}

func validate(cfg Config) error {
	switch cfg.Plot.ZeroInterval {
	case "fail", "zero":
	default:
		return fmt.Errorf("plot.zero_interval must be 'fail' or 'zero'")
	}
	if cfg.Plot.Input == cfg.Plot.Output {
		return fmt.Errorf("plot.input and plot.output must differ")
	}
	if cfg.Record.Baud <= 0 {
		return fmt.Errorf("record.baud must be > 0")
	}
	if strings.TrimSpace(cfg.Record.GPSDAddr) != "" && strings.TrimSpace(cfg.Record.Device) != "" {
		return fmt.Errorf("record.device and record.gpsd_addr cannot both be set")
	}
	if cfg.Sim.Interval%time.Second != 0 {
		return fmt.Errorf("sim.interval must be a whole number of seconds")
	}
	if cfg.Sim.CenterLatDeg < -90 || cfg.Sim.CenterLatDeg > 90 {
		return fmt.Errorf("sim.center_lat_deg must be within [-90, 90]")
	}
	if cfg.Sim.CenterLonDeg < -180 || cfg.Sim.CenterLonDeg > 180 {
		return fmt.Errorf("sim.center_lon_deg must be within [-180, 180]")
	}
	return nil
}

// trimYAMLErr drops the "yaml: unmarshal errors:\n  line N: " framing.
func trimYAMLErr(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": field "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
