package logger

import "time"

// Entry is a single command log record.
type Entry struct {
	Time time.Time `json:"ts"`
	// Line is the command line as typed.
	Line string `json:"line"`
	// Commands holds the name of each pipeline stage.
	Commands []string `json:"commands,omitempty"`
	Cwd      string   `json:"cwd"`
	Status   string   `json:"status"`
	Success  bool     `json:"success"`
	// ExitCode is the exit code of the last external stage, 0 if there was none.
	ExitCode int `json:"exit_code"`
	// Duration is the execution time in milliseconds.
	Duration float64 `json:"duration_ms"`
}

// Command returns the first command name, or the empty string.
func (e *Entry) Command() string {
	if len(e.Commands) == 0 {
		return ""
	}
	return e.Commands[0]
}
