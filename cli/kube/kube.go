// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

// Package kube provides the georgej CLI flags for selecting the Kubernetes
// cluster to capture from, and the pod inventory of that cluster.
package kube

import (
	"github.com/jukrut/georgeJ/cli"
	"github.com/jukrut/georgeJ/cli/command"
	"github.com/jukrut/georgeJ/inventory"
	"github.com/spf13/cobra"
	"github.com/thediveo/go-plugger/v3"
)

// Kubeconfig specifies the path of the kubeconfig file to use, if other than
// the default.
var Kubeconfig string

// Context specifies the kubeconfig context to use, if other than the current
// context.
var Context string

func init() {
	plugger.Group[cli.SetupCLI]().Register(
		KubeSetupCLI, plugger.WithPlugin("kube"))
	plugger.Group[cli.NewInventory]().Register(
		NewKubeInventory, plugger.WithPlugin("kube"))
	plugger.Group[cli.CommandExamples]().Register(
		func() map[string]string {
			return map[string]string{
				"list": `# List all pods in the current kubeconfig context.
georgej list

# List pods named "web-..." with their namespaces and containers.
georgej --context staging list --pod web- -o wide`,
				"georgej": `# Capture from a pod in a specific cluster.
georgej --kubeconfig ~/.kube/lab.yaml --context lab-admin --pod db-`,
			}
		},
		plugger.WithPlugin("kube"))
}

// KubeSetupCLI adds the cluster selection flags.
func KubeSetupCLI(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&Kubeconfig, "kubeconfig", "",
		"Path to the kubeconfig file to use for CLI requests")
	pf.StringVar(&Context, "context", "",
		"The name of the kubeconfig context to use")
}

// NewKubeInventory returns the pod inventory of the cluster selected by the
// kubeconfig file and context.
func NewKubeInventory() (inventory.Inventory, error) {
	return inventory.NewKube(Kubeconfig, Context, command.ReqTimeout)
}
