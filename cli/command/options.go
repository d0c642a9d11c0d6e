// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package command

import (
	"github.com/jukrut/georgeJ/cli"
	"github.com/spf13/cobra"
	"github.com/thediveo/go-plugger/v3"
)

// globalFlagsTemplate renders only the flags that all commands inherit from
// the root command.
const globalFlagsTemplate = `{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}
`

func init() {
	plugger.Group[cli.SetupCLI]().Register(OptionsSetupCLI, plugger.WithPlugin("options"))
}

// OptionsSetupCLI adds the kubectl-like “options” command listing the global
// flags, such as the cluster and transport flags.
func OptionsSetupCLI(cmd *cobra.Command) {
	optionsCmd := &cobra.Command{
		Use:   "options",
		Short: "List the global command-line options which apply to all commands.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Usage()
		},
	}
	optionsCmd.SetUsageTemplate(globalFlagsTemplate)
	cmd.AddCommand(optionsCmd)
}
