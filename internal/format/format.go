// Package format shells out to elm-format to pretty-print Elm source.
package format

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// ansiEscapes matches terminal color and control sequences, which
// elm-format writes into its error output.
var ansiEscapes = regexp.MustCompile(`(\x9B|\x1B\[)[0-?]*[ -/]*[@-~]`)

// SourceError reports that the submitted source could not be formatted.
// Message is elm-format's own diagnostic with its banner line and terminal
// escapes stripped.
type SourceError struct {
	Message string
}

func (e *SourceError) Error() string {
	return e.Message
}

// Formatter runs an elm-format binary over submitted source.
type Formatter struct {
	binary  string
	timeout time.Duration
	logger  hclog.Logger
}

// NewFormatter creates a formatter invoking the given binary. The binary is
// resolved on PATH when not absolute; resolution failures surface on first
// use rather than at startup.
func NewFormatter(binary string, timeout time.Duration, logger hclog.Logger) *Formatter {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Formatter{
		binary:  binary,
		timeout: timeout,
		logger:  logger.Named("format"),
	}
}

// Format pretty-prints source. A *SourceError means the input itself was
// rejected; any other error means the formatter could not run.
func (f *Formatter) Format(ctx context.Context, source string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.binary, "--stdin")
	cmd.Stdin = strings.NewReader(source)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	if ctx.Err() != nil {
		return "", fmt.Errorf("formatter timed out after %s", f.timeout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		f.logger.Debug("formatter rejected source",
			"exit_code", exitErr.ExitCode())
		return "", &SourceError{Message: cleanDiagnostic(stderr.String())}
	}

	return "", fmt.Errorf("running %s: %w", f.binary, err)
}

// cleanDiagnostic drops elm-format's first stderr line, which names the
// binary and input mode rather than the problem, and strips terminal
// escapes from the rest.
func cleanDiagnostic(stderr string) string {
	lines := strings.Split(stderr, "\n")
	if len(lines) > 1 {
		lines = lines[1:]
	}
	return ansiEscapes.ReplaceAllString(strings.Join(lines, "\n"), "")
}
