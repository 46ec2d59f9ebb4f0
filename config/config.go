package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
)

// MIDIConfig selects the MIDI output used as the sound sink and an
// optional keyboard input routed to the bank keys
type MIDIConfig struct {
	PortName string `json:"portName,omitempty"`
	Input    string `json:"input,omitempty"` // substring of the input port name
	Channel  int    `json:"channel,omitempty"` // 1-16
	Octave   int    `json:"octave,omitempty"`  // octave of the bank's root note
	Velocity int    `json:"velocity,omitempty"`
}

// MusicConfig holds recorder and arrangement defaults
type MusicConfig struct {
	Key            string `json:"key"`
	RecordBPM      int    `json:"recordBpm"`
	ArrangementBPM int    `json:"arrangementBpm"`
	TimelineSteps  int    `json:"timelineSteps"`
	Lanes          int    `json:"lanes"`
}

// Config is the main configuration structure
type Config struct {
	// Instrument the player has equipped; empty means nothing equipped
	Equipped    string      `json:"equipped,omitempty"`
	AudioFolder string      `json:"audioFolder,omitempty"`
	DataDir     string      `json:"dataDir,omitempty"`
	Debug       bool        `json:"debug,omitempty"`
	Palette     string      `json:"palette,omitempty"` // .gpl file for the TUI colours
	Music       MusicConfig `json:"music"`
	MIDI        MIDIConfig  `json:"midi,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Equipped:    "guitar",
		AudioFolder: "audio/shittyguitar/",
		Music: MusicConfig{
			Key:            "C",
			RecordBPM:      120,
			ArrangementBPM: 120,
			TimelineSteps:  128,
			Lanes:          4,
		},
		MIDI: MIDIConfig{
			Channel:  1,
			Octave:   4,
			Velocity: 100,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tracklab"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found.
// Environment overrides are applied on top either way.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := DefaultConfig()
		cfg.ApplyEnv()
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.ApplyEnv()
	cfg.normalize()
	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ResolveDataDir returns DataDir, defaulting to the config directory
func (c *Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	return ConfigDir()
}

// ApplyEnv overrides fields from TRACKLAB_* environment variables
func (c *Config) ApplyEnv() {
	c.Equipped = getEnv("TRACKLAB_EQUIPPED", c.Equipped)
	c.AudioFolder = getEnv("TRACKLAB_AUDIO_FOLDER", c.AudioFolder)
	c.DataDir = getEnv("TRACKLAB_DATA_DIR", c.DataDir)
	c.Palette = getEnv("TRACKLAB_PALETTE", c.Palette)
	c.Music.Key = getEnv("TRACKLAB_KEY", c.Music.Key)
	c.Music.RecordBPM = getEnvInt("TRACKLAB_RECORD_BPM", c.Music.RecordBPM)
	c.Music.ArrangementBPM = getEnvInt("TRACKLAB_BPM", c.Music.ArrangementBPM)
	c.MIDI.PortName = getEnv("TRACKLAB_MIDI_PORT", c.MIDI.PortName)
	c.MIDI.Channel = getEnvInt("TRACKLAB_MIDI_CHANNEL", c.MIDI.Channel)
	c.MIDI.Input = getEnv("TRACKLAB_MIDI_INPUT", c.MIDI.Input)
	c.Debug = getEnv("TRACKLAB_DEBUG", strconv.FormatBool(c.Debug)) == "true"
}

func (c *Config) normalize() {
	d := DefaultConfig()
	if c.Music.Key == "" {
		c.Music.Key = d.Music.Key
	}
	if c.Music.RecordBPM <= 0 {
		c.Music.RecordBPM = d.Music.RecordBPM
	}
	if c.Music.ArrangementBPM <= 0 {
		c.Music.ArrangementBPM = d.Music.ArrangementBPM
	}
	if c.Music.TimelineSteps <= 0 {
		c.Music.TimelineSteps = d.Music.TimelineSteps
	}
	if c.Music.Lanes < 1 {
		c.Music.Lanes = d.Music.Lanes
	}
	if c.MIDI.Channel < 1 || c.MIDI.Channel > 16 {
		c.MIDI.Channel = d.MIDI.Channel
	}
	if c.MIDI.Velocity <= 0 || c.MIDI.Velocity > 127 {
		c.MIDI.Velocity = d.MIDI.Velocity
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
