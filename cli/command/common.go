// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

// Implements the georgej "root" command with its global CLI flags. The root
// command itself captures; it gets its RunE from the capture plugin.

package command

import (
	"time"

	"github.com/jukrut/georgeJ/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thediveo/go-plugger/v3"
	"golang.org/x/exp/slices"
)

// Flag annotation for grouping mutually exclusive flags. Due to the open-ended
// plugin architecture we cannot directly use cobra's MarkFlagsMutuallyExclusive
// in plugins, but instead plugins need to annotate their flags and we then
// gather the groups with their flag members in order to issue
// MarkFlagsMutuallyExclusive as necessary.
const MutualFlagGroupAnnotation = "mutually-exclusive-group"

// TransportGroup is the name of an annotation value for flags that select
// mutually exclusive ways of reaching the cluster nodes.
const TransportGroup = "transport"

// ReqTimeout specifies the length of time to wait before giving up on a single
// API server request or remote command.
var ReqTimeout time.Duration

// NewRootCmd returns a new georgej "root" command without any flags and
// subcommands.
func NewRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "georgej",
		Short: "Sniff network traffic of Kubernetes pods with Wireshark",
		Long: `georgej captures the live network traffic of a container in a Kubernetes
pod and streams it into a local Wireshark. It asks which pod, container, and
network interface to capture from whenever the filters leave a choice.`,
		Args: cobra.NoArgs,
		// See: https://github.com/spf13/cobra/issues/340
		SilenceUsage: true,
		// Errors get reported by the caller, which also picks the exit code.
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			for _, beforeCmd := range plugger.Group[cli.BeforeCommand]().Symbols() {
				if err := beforeCmd(cmd); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// SetupCLI returns a new root command with the global ("persistent") CLI
// flags, as well as the commands and flags registered by plugins.
func SetupCLI() *cobra.Command {
	rootCmd := NewRootCmd()
	pf := rootCmd.PersistentFlags()
	pf.DurationVar(&ReqTimeout, "request-timeout", 0,
		`The length of time to wait before giving up on a single server request
or remote command. Non-zero values should contain a corresponding time unit
(e.g. 1s, 2m, 3h). A value of zero means don't timeout requests.`)

	for _, setupCLI := range plugger.Group[cli.SetupCLI]().Symbols() {
		setupCLI(rootCmd)
	}
	mutuallyExclusives(rootCmd)
	// Fill in command example sections, where examples are available.
	addExamples(rootCmd)
	for _, cmd := range rootCmd.Commands() {
		addExamples(cmd)
	}
	return rootCmd
}

func addExamples(cmd *cobra.Command) {
	if examples := cli.Examples(cmd.Name()); examples != "" {
		cmd.Example = examples
	}
}

// Annotate annotates the flag identified by name with the key=ann.
func Annotate(fs *pflag.FlagSet, flagname, key, ann string) {
	_ = fs.SetAnnotation(flagname, key, []string{ann})
}

// exclusivesMap maps an "exclusive" group (name) to its mutually exclusive
// flags (names).
type exclusivesMap map[string][]string

// mutuallyExclusives starts with the specified command and collects mutually
// exclusive flags as identified by their annotations. It then configures them
// into their groups. This process then recursively repeats with each child
// command.
func mutuallyExclusives(cmd *cobra.Command) {
	exclusives := exclusivesMap{}
	cmd.MarkFlagsMutuallyExclusive() // hack: trigger merging if not already happened
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		group := flag.Annotations[MutualFlagGroupAnnotation]
		if len(group) != 1 {
			return
		}
		members := exclusives[group[0]]
		if slices.Contains(members, flag.Name) {
			return
		}
		exclusives[group[0]] = append(members, flag.Name)
	})
	for _, members := range exclusives {
		if len(members) > 1 {
			cmd.MarkFlagsMutuallyExclusive(members...)
		}
	}
	for _, subcmd := range cmd.Commands() {
		mutuallyExclusives(subcmd)
	}
}
