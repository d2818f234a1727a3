package logger

import "time"

const defaultTimestampFormat = time.RFC3339

// Config describes logging configuration.
type Config struct {
	Level      string
	Formatter  string
	OutputFile string
	TextFormat TextFormatConfig
	JSONFormat JSONFormatConfig
}

// TextFormatConfig describes the configuration of the text formatter.
type TextFormatConfig struct {
	ForceColors      bool
	DisableColors    bool
	DisableTimestamp bool
	FullTimestamp    bool
	TimestampFormat  string
	Indent           string
}

// JSONFormatConfig describes the configuration of the JSON formatter.
type JSONFormatConfig struct {
	DisableTimestamp bool
	TimestampFormat  string
}

// DefaultConfig returns a Config instance with default values.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Formatter: "text",
		TextFormat: TextFormatConfig{
			FullTimestamp:   true,
			TimestampFormat: defaultTimestampFormat,
		},
	}
}

// DebugConfig returns a Config instance with debug-level logging.
func DebugConfig() Config {
	c := DefaultConfig()
	c.Level = "debug"
	return c
}
