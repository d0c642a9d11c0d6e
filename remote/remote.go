// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package remote

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// ExecutionError reports a failed (remote) command, together with what the
// command had to say on stderr.
type ExecutionError struct {
	Argv   []string
	Stderr string
	Err    error
}

func (e *ExecutionError) Error() string {
	msg := "command " + strings.Join(e.Argv, " ") + " failed: " + e.Err.Error()
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Runner runs a local process to completion and returns its stdout.
type Runner interface {
	Output(ctx context.Context, argv []string) ([]byte, error)
}

// ExecRunner runs local processes using os/exec.
type ExecRunner struct{}

var _ Runner = (*ExecRunner)(nil)

// Output runs the command line argv and returns what it wrote to stdout. A
// command that cannot be started or exits with a non-zero status is reported
// as an *ExecutionError.
func (ExecRunner) Output(ctx context.Context, argv []string) ([]byte, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty command line")
	}
	log.Debugf("running %q", argv)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, &ExecutionError{Argv: argv, Stderr: stderr.String(), Err: err}
	}
	return out, nil
}

// Remote runs commands on remote hosts using a specific transport.
type Remote struct {
	Transport Transport
	Runner    Runner
	// Limits the time a non-streaming command may take; zero means no limit.
	Timeout time.Duration
}

// New returns a Remote for the specified transport, running the transport's
// local processes via os/exec.
func New(transport Transport) *Remote {
	return &Remote{
		Transport: transport,
		Runner:    ExecRunner{},
	}
}

// On returns a command baked for the specified host and initial args.
func (r *Remote) On(host string, args ...string) Command {
	return Command{remote: r, host: host}.With(args...)
}

// Reachable returns true if the transport can reach the specified host. For
// transports able to list their reachable hosts, the host must appear
// somewhere in a line of this listing; hosts are often embedded in longer
// lines, so this is a substring check. All other transports consider any
// host to be reachable.
func (r *Remote) Reachable(ctx context.Context, host string) (bool, error) {
	lister, ok := r.Transport.(HostLister)
	if !ok {
		log.Debugf("transport %s cannot list hosts, assuming %q to be reachable",
			r.Transport.Name(), host)
		return true, nil
	}
	out, err := r.output(ctx, lister.ListArgv())
	if err != nil {
		return false, err
	}
	return ContainsHost(lines(out), host), nil
}

// ContainsHost returns true if host appears in any of the listing lines.
func ContainsHost(listing []string, host string) bool {
	for _, line := range listing {
		if strings.Contains(line, host) {
			return true
		}
	}
	return false
}

func (r *Remote) output(ctx context.Context, argv []string) ([]byte, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	runner := r.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	return runner.Output(ctx, argv)
}

// lines splits command output into its lines, without line terminators and
// without a final empty line.
func lines(out []byte) []string {
	text := strings.TrimRight(strings.ReplaceAll(string(out), "\r\n", "\n"), "\n")
	if text == "" {
		return []string{}
	}
	return strings.Split(text, "\n")
}
