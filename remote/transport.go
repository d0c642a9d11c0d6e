// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package remote

import (
	"regexp"
	"strings"
)

// Transport describes how to run a command on a remote host, by building the
// command line of a local process, such as ssh, that carries out the remote
// execution.
type Transport interface {
	// Name of this transport, such as "ssh".
	Name() string
	// Argv returns the local command line running args on host.
	Argv(host string, args ...string) []string
}

// HostLister is implemented by transports that are able to tell which hosts
// are reachable. Transports without this ability consider all hosts to be
// reachable.
type HostLister interface {
	// ListArgv returns the local command line listing the reachable hosts, one
	// per output line.
	ListArgv() []string
}

// SSH runs remote commands using the ssh client binary.
type SSH struct {
	// Optional login name; leave empty to go with whatever the ssh
	// configuration says.
	User string
	// Path or name of the ssh binary; defaults to "ssh".
	Binary string
}

var _ Transport = (*SSH)(nil)

func (s *SSH) Name() string { return "ssh" }

func (s *SSH) Argv(host string, args ...string) []string {
	argv := []string{binary(s.Binary, "ssh")}
	if s.User != "" {
		argv = append(argv, "-l", s.User)
	}
	argv = append(argv, host)
	return append(argv, quoteAll(args)...)
}

// Teleport runs remote commands using Teleport's tsh client binary, logging
// in as a fixed user. It additionally lists the nodes the proxy knows of.
type Teleport struct {
	// Login name on the nodes; defaults to "root".
	User string
	// Path or name of the tsh binary; defaults to "tsh".
	Binary string
}

var (
	_ Transport  = (*Teleport)(nil)
	_ HostLister = (*Teleport)(nil)
)

func (t *Teleport) Name() string { return "tsh" }

func (t *Teleport) Argv(host string, args ...string) []string {
	user := t.User
	if user == "" {
		user = "root"
	}
	argv := []string{binary(t.Binary, "tsh"), "ssh", "-l", user, host}
	return append(argv, quoteAll(args)...)
}

func (t *Teleport) ListArgv() []string {
	return []string{binary(t.Binary, "tsh"), "ls"}
}

// Local runs commands directly on this host, ignoring the host name. This
// serves single-node clusters where the node is the operator's machine.
type Local struct{}

var _ Transport = (*Local)(nil)

func (l *Local) Name() string { return "local" }

func (l *Local) Argv(host string, args ...string) []string {
	return append([]string{}, args...)
}

func binary(name, def string) string {
	if name == "" {
		return def
	}
	return name
}

// unsafeChars matches everything a remote shell might interpret.
var unsafeChars = regexp.MustCompile(`[^\w@%+=:,./-]`)

// quoteAll quotes those args that a remote shell would otherwise interpret,
// as ssh joins all args into a single command string.
func quoteAll(args []string) []string {
	quoted := make([]string, len(args))
	for idx, arg := range args {
		switch {
		case arg == "":
			quoted[idx] = "''"
		case unsafeChars.MatchString(arg):
			quoted[idx] = "'" + strings.ReplaceAll(arg, "'", `'"'"'`) + "'"
		default:
			quoted[idx] = arg
		}
	}
	return quoted
}
