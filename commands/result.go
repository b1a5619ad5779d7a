package commands

import (
	"errors"
	"fmt"
	"io/fs"
)

// Status is the outcome of a built-in.
type Status int

const (
	Success Status = iota
	Failure
	InvalidSyntax
	AlreadyExists
	AccessDenied
	PathNotFound
	UnknownOption
	UnknownError
	// Exit asks the shell to terminate. It isn't a failure.
	Exit
)

var statusText = map[Status]string{
	Success:       "Success",
	Failure:       "Failure",
	InvalidSyntax: "Invalid syntax",
	AlreadyExists: "Already exists",
	AccessDenied:  "Access is denied",
	PathNotFound:  "Path not found",
	UnknownOption: "Unknown option",
	UnknownError:  "Unknown error",
	Exit:          "Exit",
}

func (s Status) String() string {
	if text, ok := statusText[s]; ok {
		return text
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result is what a built-in hands back to the runner. Built-ins never write
// to the terminal directly.
type Result struct {
	Status Status
	Stdout string
	// Stderr is shown to the user when Status isn't Success.
	Stderr string
}

// OK is true for results that let a pipeline continue.
func (r Result) OK() bool {
	return r.Status == Success
}

// Ok is a successful result carrying stdout.
func Ok(stdout string) Result {
	return Result{Status: Success, Stdout: stdout}
}

// Fail creates a non-success result with a formatted message.
func Fail(status Status, format string, a ...interface{}) Result {
	return Result{Status: status, Stderr: fmt.Sprintf(format, a...)}
}

// FromError maps filesystem errors onto the matching status.
func FromError(err error) Result {
	switch {
	case err == nil:
		return Ok("")
	case errors.Is(err, fs.ErrNotExist):
		return Fail(PathNotFound, "The system cannot find the path specified: %s", errorPath(err))
	case errors.Is(err, fs.ErrExist):
		return Fail(AlreadyExists, "A subdirectory or file already exists.")
	case errors.Is(err, fs.ErrPermission):
		return Fail(AccessDenied, "Access is denied.")
	default:
		return Fail(Failure, "Error: %s", err)
	}
}

func errorPath(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Path
	}
	return err.Error()
}
