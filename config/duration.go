package config

import "time"

// Duration wraps time.Duration so config values like "5m" work in
// YAML and on the command line. time.Duration itself has no text
// unmarshaling (golang/go#16039).
type Duration time.Duration

func (d *Duration) String() string {
	return time.Duration(*d).String()
}

// UnmarshalText parses a duration string. Empty text leaves the
// current value in place so defaults survive a partial config.
func (d *Duration) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		return nil
	}
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText renders the duration in time.Duration notation.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Set implements pflag.Value.
func (d *Duration) Set(raw string) error {
	return d.UnmarshalText([]byte(raw))
}

// Type implements pflag.Value.
func (d *Duration) Type() string {
	return "duration"
}
