// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

// Provides the "georgej list" command for listing the pods and their
// containers that network traffic can be captured from.

package command

import (
	"context"

	"github.com/jukrut/georgeJ/cli"
	"github.com/jukrut/georgeJ/inventory"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/thediveo/go-plugger/v3"
	"github.com/thediveo/klo"
)

// Builtin custom-columns templates
const (
	// PodListTemplate defines the custom columns when listing pods.
	PodListTemplate = "POD:{.Name},NODE:{.Node}"
	// PodWideListTemplate defines the custom columns when listing pods in
	// --wide mode.
	PodWideListTemplate = "POD:{.Name},NAMESPACE:{.Namespace},NODE:{.Node},CONTAINERS:{.Containers[*].Name}"

	// NameListTemplate for handling "-o name" and only showing a custom "name"
	// column; this template should be used with no headers shown, as kubectl
	// and others do.
	NameListTemplate = "NAME:{.Name}"
)

func init() {
	plugger.Group[cli.SetupCLI]().Register(ListSetupCLI, plugger.WithPlugin("list"))
}

// ListSetupCLI adds the “list” command.
func ListSetupCLI(cmd *cobra.Command) {
	listCmd := &cobra.Command{
		Use:     "list [flags]",
		Aliases: []string{"ps"},
		Short:   "List pods in a Kubernetes cluster to capture from",
		Args:    cobra.NoArgs,
		RunE:    list,
	}
	listCmd.Flags().String("pod", "",
		"Only list pods with names matching this regular expression from their beginning")
	listCmd.Flags().StringP("output", "o", "",
		"Output format. One of: json|yaml|wide|name|custom-columns=...|custom-columns-file=...|jsonpath=...|jsonpath-file=...")
	listCmd.Flags().Bool("no-headers", false, "When using the default or custom-column output format, don't print headers (default print headers).")
	listCmd.Flags().String("sort-by", "{.Namespace}{'/'}{.Name}",
		"If non-empty, sort custom-columns using this field specification. The field specification is expressed as a JSONPath expression (e.g. '{.Name}').")
	cmd.AddCommand(listCmd)
}

// list fetches the pods of the cluster and prints those matching the pod
// filter.
func list(cmd *cobra.Command, args []string) error {
	prn, err := getPrinter(cmd)
	if err != nil {
		return err
	}
	// ...throwing in sorting, if not explicitly forbidden. It depends on the
	// object printer if it will honor the sorted data or will just impose its
	// own order anyway.
	if sortby, _ := cmd.Flags().GetString("sort-by"); sortby != "" {
		prn, err = klo.NewSortingPrinter(sortby, prn)
		if err != nil {
			return err
		}
	}
	inv, err := NewInventory()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	pods, err := inv.Pods(ctx)
	if err != nil {
		return err
	}
	podfilter, _ := cmd.Flags().GetString("pod")
	pods, err = inventory.FilterPods(podfilter, pods)
	if err != nil {
		return err
	}
	log.Debugf("listing %d pods", len(pods))
	prn.Fprint(cmd.OutOrStdout(), pods)
	return nil
}

// getPrinter returns a value printer configured according to the output format
// chosen by the user, and some more optional output configuration flags.
func getPrinter(cmd *cobra.Command) (prn klo.ValuePrinter, err error) {
	outfmt, err := cmd.Flags().GetString("output")
	if err != nil {
		return
	}
	if outfmt == "name" {
		prn, err = klo.PrinterFromFlag("custom-columns="+NameListTemplate, nil)
		if err != nil {
			return
		}
		prn.(*klo.CustomColumnsPrinter).HideHeaders = true
		return
	}
	prn, err = klo.PrinterFromFlag(outfmt, &klo.Specs{
		DefaultColumnSpec: PodListTemplate,
		WideColumnSpec:    PodWideListTemplate,
	})
	if err != nil {
		return
	}
	if ccprn, ok := prn.(*klo.CustomColumnsPrinter); ok {
		ccprn.Padding = 3
		if noheaders, err := cmd.Flags().GetBool("no-headers"); err == nil {
			ccprn.HideHeaders = noheaders
		}
	}
	return
}
