// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package remote

import (
	"context"
	"errors"
	"os/exec"

	log "github.com/sirupsen/logrus"
)

// Command is a command to be run on a particular remote host, baked with some
// arguments. Command values are immutable: With returns a new Command.
type Command struct {
	remote *Remote
	host   string
	args   []string
}

// With returns a new command with the specified args appended.
func (c Command) With(args ...string) Command {
	merged := make([]string, 0, len(c.args)+len(args))
	merged = append(merged, c.args...)
	c.args = append(merged, args...)
	return c
}

// Host returns the remote host this command runs on.
func (c Command) Host() string { return c.host }

// Args returns a copy of the remote args.
func (c Command) Args() []string { return append([]string{}, c.args...) }

// Argv returns the local command line carrying out this remote command.
func (c Command) Argv() []string {
	return c.remote.Transport.Argv(c.host, c.args...)
}

// Output runs the command to completion and returns its stdout.
func (c Command) Output(ctx context.Context) ([]byte, error) {
	return c.remote.output(ctx, c.Argv())
}

// Lines runs the command to completion and returns its output lines.
func (c Command) Lines(ctx context.Context) ([]string, error) {
	out, err := c.Output(ctx)
	if err != nil {
		return nil, err
	}
	return lines(out), nil
}

// Cmd returns an unstarted streaming handle for this command, for connecting
// its stdio to other processes. Cancelling the context kills the local
// transport process. Streaming commands are never subject to the timeout.
func (c Command) Cmd(ctx context.Context) (*exec.Cmd, error) {
	argv := c.Argv()
	if len(argv) == 0 {
		return nil, errors.New("empty command line")
	}
	log.Debugf("preparing streaming command %q", argv)
	return exec.CommandContext(ctx, argv[0], argv[1:]...), nil
}
