// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package cli

import (
	"github.com/jukrut/georgeJ/inventory"
	"github.com/jukrut/georgeJ/remote"
	"github.com/spf13/cobra"
)

// SetupCLI defines an exposed plugin symbol type for adding “things” to a
// cobra root command (the georgej root command in particular).
type SetupCLI func(*cobra.Command)

// CommandExamples defines an exposed symbol with CLI examples, indexed by a
// particular command name: “georgej” for the root command that captures, and
// “list”.
type CommandExamples func() map[string]string

// BeforeCommand defines an exposed plugin symbol type for running checks after
// the command line args have been processed and before running the (chosen)
// command.
type BeforeCommand func(*cobra.Command) error

// NewTransport defines an exposed plugin symbol type for returning the
// remote-access transport to reach the cluster nodes with, based on the CLI
// args. If a registered factory isn't responsible, it must return a nil
// transport as well as a nil error. A non-nil error aborts the search for a
// transport and gets reported to the CLI user.
type NewTransport func() (remote.Transport, error)

// NewInventory defines an exposed plugin symbol type for returning the pod
// inventory of the cluster to capture from, following the same rules as
// NewTransport.
type NewInventory func() (inventory.Inventory, error)

// SemVer defines an exposed plugin symbol type for returning (overriding) the
// CLI binary's semantic version. The first plugin will win.
type SemVer func() string
