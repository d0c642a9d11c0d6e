// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

// Package transport provides the georgej CLI flags for choosing how to reach
// the cluster nodes: either via plain ssh or via Teleport's tsh.
package transport

import (
	"errors"

	"github.com/jukrut/georgeJ/cli"
	"github.com/jukrut/georgeJ/cli/command"
	"github.com/jukrut/georgeJ/remote"
	"github.com/spf13/cobra"
	"github.com/thediveo/go-plugger/v3"
)

// Names of the transport CLI flags.
const (
	TshArg     = "tsh"
	TshUserArg = "tsh-user"
	SSHUserArg = "ssh-user"
)

// Tsh selects Teleport's tsh instead of plain ssh.
var Tsh bool

// TshUser is the login name on the nodes when using tsh.
var TshUser string

// SSHUser is the optional login name on the nodes when using plain ssh.
var SSHUser string

func init() {
	plugger.Group[cli.SetupCLI]().Register(
		TransportSetupCLI, plugger.WithPlugin("tsh"))
	plugger.Group[cli.BeforeCommand]().Register(
		TransportBeforeCommand, plugger.WithPlugin("tsh"))
	plugger.Group[cli.NewTransport]().Register(
		NewTransport, plugger.WithPlugin("tsh"))
	plugger.Group[cli.CommandExamples]().Register(
		func() map[string]string {
			return map[string]string{
				"georgej": `# Capture via plain ssh, logging into the nodes as "core".
georgej --ssh-user core --pod web-

# Capture via Teleport, logging into the nodes as "admin".
georgej --tsh --tsh-user admin --pod web-`,
			}
		},
		plugger.WithPlugin("tsh"))
}

// TransportSetupCLI adds the transport flags; --tsh and --ssh-user are
// mutually exclusive.
func TransportSetupCLI(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.BoolVar(&Tsh, TshArg, false,
		"Reach the nodes via Teleport's tsh instead of ssh")
	command.Annotate(pf, TshArg, command.MutualFlagGroupAnnotation, command.TransportGroup)
	pf.StringVar(&TshUser, TshUserArg, "root",
		"Login name on the nodes when using tsh")
	pf.StringVar(&SSHUser, SSHUserArg, "",
		"Login name on the nodes when using ssh (default from the ssh configuration)")
	command.Annotate(pf, SSHUserArg, command.MutualFlagGroupAnnotation, command.TransportGroup)
}

// TransportBeforeCommand rejects a tsh login without tsh.
func TransportBeforeCommand(cmd *cobra.Command) error {
	if !Tsh && cmd.Flags().Changed(TshUserArg) {
		return errors.New("--tsh-user requires --tsh")
	}
	return nil
}

// NewTransport returns the tsh transport when asked for, or an ssh transport
// with a specific login name. Otherwise, it leaves the choice to others.
func NewTransport() (remote.Transport, error) {
	switch {
	case Tsh:
		return &remote.Teleport{User: TshUser}, nil
	case SSHUser != "":
		return &remote.SSH{User: SSHUser}, nil
	}
	return nil, nil
}
