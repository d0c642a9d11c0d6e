// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package command

import (
	"github.com/jukrut/georgeJ"
	"github.com/jukrut/georgeJ/cli"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/thediveo/go-plugger/v3"
)

// Debug enables debug logging, including the command lines run locally and
// on the nodes.
var Debug bool

func init() {
	plugger.Group[cli.SetupCLI]().Register(DebugSetupCLI, plugger.WithPlugin("debug"))
	plugger.Group[cli.BeforeCommand]().Register(DebugBeforeCommand, plugger.WithPlugin("debug"))
}

// DebugSetupCLI adds the global “--debug” flag.
func DebugSetupCLI(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&Debug, "debug", "d", false,
		"Enable debug output, including the commands run on the nodes")
}

// DebugBeforeCommand switches logging into debug level when asked for.
func DebugBeforeCommand(cmd *cobra.Command) error {
	if !Debug {
		return nil
	}
	log.SetLevel(log.DebugLevel)
	log.Debugf("%s version %s, running %q", cmd.Root().Name(), georgej.SemVersion, cmd.CommandPath())
	return nil
}
