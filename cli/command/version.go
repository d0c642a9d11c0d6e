// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package command

import (
	"fmt"
	"strings"

	"github.com/jukrut/georgeJ"
	"github.com/jukrut/georgeJ/cli"
	"github.com/spf13/cobra"
	"github.com/thediveo/go-plugger/v3"
)

// Provides the “georgej version” command, showing the semantic version of the
// georgej package together with the transports and inventories built in.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version (with integrated transports and inventories).",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), versionInfo(cmd.Root().Name()))
	},
}

func init() {
	plugger.Group[cli.SetupCLI]().Register(
		VersionSetupCLI, plugger.WithPlugin("version"))
}

// VersionSetupCLI adds the “version” command.
func VersionSetupCLI(cmd *cobra.Command) {
	cmd.AddCommand(versionCmd)
}

func versionInfo(name string) string {
	semver := georgej.SemVersion
	for _, pluginsemver := range plugger.Group[cli.SemVer]().Symbols() {
		semver = pluginsemver()
		break
	}
	transports := append([]string{"ssh"}, plugger.Group[cli.NewTransport]().Plugins()...)
	return fmt.Sprintf("%s version %s (transports: %s; inventories: %s)",
		name, semver,
		strings.Join(transports, ", "),
		strings.Join(plugger.Group[cli.NewInventory]().Plugins(), ", "))
}
