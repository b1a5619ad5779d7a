package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLinesLog_roundTrip(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLinesLogRecorder(&buf)

	ts := time.Date(2021, 8, 1, 12, 0, 0, 0, time.UTC)
	want := []*Entry{
		{Time: ts, Line: "DIR | FIND x", Commands: []string{"DIR", "FIND"}, Cwd: "/home", Status: "Success", Success: true},
		{Time: ts, Line: "CD nope", Commands: []string{"CD"}, Cwd: "/home", Status: "Path not found", ExitCode: 0, Duration: 1.5},
	}
	for _, e := range want {
		require.NoError(t, log.Log(e))
	}
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"), "one entry per line")

	var got []*Entry
	require.NoError(t, ReadJSONLinesLog(&buf, func(le *Entry) {
		got = append(got, le)
	}))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entries (-want +got):\n%s", diff)
	}
}

func TestLogger_Log_fillsTime(t *testing.T) {
	var got *Entry
	log := &Logger{Record: func(le *Entry) error {
		got = le
		return nil
	}}

	require.NoError(t, log.Log(&Entry{Line: "VER"}))
	assert.False(t, got.Time.IsZero())
}

func TestReadJSONLinesLog_malformed(t *testing.T) {
	err := ReadJSONLinesLog(strings.NewReader("{\"line\": \"ok\"}\n{bad"), func(*Entry) {})
	assert.Error(t, err)
}

func TestReport(t *testing.T) {
	report := NewReport()
	for _, e := range []*Entry{
		{Commands: []string{"DIR"}, Status: "Success", Success: true},
		{Commands: []string{"CD"}, Status: "Path not found"},
		{Commands: []string{"CD"}, Status: "Path not found"},
		{Commands: []string{"git", "SHOW"}, Status: "Failure"},
	} {
		report.Update(e)
	}

	assert.Equal(t, 4, report.LogEntries)
	assert.Equal(t, 3, report.Failures)
	assert.Equal(t, 2, report.CommandNames.Get("CD"))
	assert.Equal(t, 1, report.CommandNames.Get("git"))
	assert.Equal(t, 2, report.Statuses.Get("Path not found"))
	assert.Equal(t, 2, report.FailedCommands.Get("CD", "Path not found"))
	assert.Equal(t, 0, report.FailedCommands.Get("DIR", "Success"))

	out, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"log_entries": 4,
		"failures": 3,
		"command_names": {"CD": 2, "DIR": 1, "git": 1},
		"statuses": {"Failure": 1, "Path not found": 2, "Success": 1},
		"failed_commands": [
			{"count": 2, "event": {"command": "CD", "status": "Path not found"}},
			{"count": 1, "event": {"command": "git", "status": "Failure"}}
		]
	}`, string(out))
}

func TestPathCounter_wrongColumns(t *testing.T) {
	ctr := NewPathCounter("a", "b")
	assert.Panics(t, func() { ctr.Increment("only one") })
}
