package logger

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

type jsonFormatter struct {
	conf JSONFormatConfig
}

func (f *jsonFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	data := make(map[string]interface{}, len(entry.Data)+3)
	for k, v := range entry.Data {
		switch v := v.(type) {
		case error:
			// errors don't marshal to anything useful by default
			data[k] = v.Error()
		default:
			data[k] = v
		}
	}

	if !f.conf.DisableTimestamp {
		format := f.conf.TimestampFormat
		if format == "" {
			format = defaultTimestampFormat
		}
		data["time"] = entry.Time.Format(format)
	}
	data["msg"] = entry.Message
	data["level"] = entry.Level.String()

	serialized, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal fields to JSON: %v", err)
	}
	return append(serialized, '\n'), nil
}
