package logger

import (
	"encoding/json"
	"io"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *Entry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry Entry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// Report holds statistics about the logged command lines.
type Report struct {
	LogEntries int `json:"log_entries"`
	Failures   int `json:"failures"`

	// CommandNames counts how often each first command was run.
	CommandNames StrCounter `json:"command_names"`
	// Statuses counts the final status of each line.
	Statuses StrCounter `json:"statuses"`
	// FailedCommands counts failing commands by name and status.
	FailedCommands *PathCounter `json:"failed_commands"`
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{
		FailedCommands: NewPathCounter("command", "status"),
	}
}

func (r *Report) Update(le *Entry) {
	r.LogEntries++

	r.CommandNames.Increment(le.Command())
	r.Statuses.Increment(le.Status)
	if !le.Success {
		r.Failures++
		r.FailedCommands.Increment(le.Command(), le.Status)
	}
}
