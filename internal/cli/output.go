package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rl1809/stockroom/internal/core/domain"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // the operation was refused, e.g. not found or out of stock
	ExitCommandError = 2 // bad flags, unreachable store
)

// ExitError carries the exit code a command should terminate with.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode returns ExitFailure for errors that are not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter writes command results as text or JSON.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the JSON shape of every command result.
type CLIResponse struct {
	Status  string `json:"status"` // "ok" or "error"
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Success prints message and data. In text mode render draws data; a nil
// render prints only the message.
func (f *OutputFormatter) Success(message string, data any, render func(io.Writer)) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Message: message, Data: data})
	}
	if render != nil {
		render(f.Writer)
	}
	if message != "" {
		fmt.Fprintln(f.Writer, message)
	}
	return nil
}

// Fail reports a refused operation and returns the ExitError for it.
func (f *OutputFormatter) Fail(err error) error {
	msg := domain.Message(err)
	if f.Format == "json" {
		json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "error", Message: msg})
	} else {
		fmt.Fprintf(f.Writer, "Error: %s\n", msg)
	}
	return WrapExitError(ExitFailure, msg, err)
}
