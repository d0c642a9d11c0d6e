// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jukrut/georgeJ"
	"github.com/jukrut/georgeJ/api"
	"github.com/jukrut/georgeJ/cli"
	"github.com/jukrut/georgeJ/cli/command"
	"github.com/jukrut/georgeJ/picker"
	"github.com/thediveo/go-plugger/v3"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Names of the CLI flags for capturing.
const (
	PodArg           = "pod"
	ContainerArg     = "container"
	InterfaceArg     = "interface"
	ViewerArg        = "viewer"
	CaptureToolArg   = "capture-tool"
	AnnotateArg      = "annotate"
	FilterArg        = "filter"
	AvoidPromModeArg = "avoid-promiscuous"
)

// Chooser asks the user whenever there's more than a single pod, container,
// or network interface to choose from.
var Chooser picker.Chooser = &picker.Survey{PageSize: 15}

func init() {
	plugger.Group[cli.SetupCLI]().Register(CaptureSetupCLI, plugger.WithPlugin("capture"))
	plugger.Group[cli.CommandExamples]().Register(
		func() map[string]string {
			return map[string]string{
				"georgej": `# Choose from all pods, their containers, and capture from all network interfaces.
georgej

# Capture from the first container of pods named "web-..." on nodes reachable
# via Teleport.
georgej --tsh --pod web- --container any

# Capture only HTTP traffic on eth0 of the nginx container.
georgej --pod frontend --container nginx --interface eth0 -f "tcp port 80"`,
			}
		},
		plugger.WithPlugin("capture"), plugger.WithPlacement("<"))
}

// CaptureSetupCLI turns the root command into the capture command and adds
// the capture flags.
func CaptureSetupCLI(cmd *cobra.Command) {
	cmd.RunE = capture
	fs := cmd.Flags()
	fs.String(PodArg, "",
		"Regular expression matching the beginning of the pod names to choose from")
	fs.String(ContainerArg, "",
		fmt.Sprintf("Regular expression matching the beginning of the container names to choose from; %q takes the first container", georgej.AnyContainer))
	fs.String(InterfaceArg, api.AnyInterface,
		fmt.Sprintf("Regular expression matching the beginning of the network interface names to choose from; %q captures from all network interfaces", api.AnyInterface))
	fs.String(ViewerArg, georgej.DefaultViewer,
		"Packet capture viewer to stream the captured packets into")
	fs.String(CaptureToolArg, string(georgej.Tcpdump),
		fmt.Sprintf("Capture tool to run on the node, either %q or %q", georgej.Tcpdump, georgej.Dumpcap))
	fs.Bool(AnnotateArg, false,
		"Annotate pcapng captures with the pod, container, and node captured from")
	fs.StringP(FilterArg, "f", "",
		"Set the capture filter expression, see pcap-filter(7)")
	fs.BoolP(AvoidPromModeArg, "p", false,
		"Don't put network interfaces into promiscuous mode")
}

// SelectionOptions returns the pod, container, and network interface filters
// as set by the CLI flags.
func SelectionOptions(cmd *cobra.Command) georgej.SelectionOptions {
	fs := cmd.Flags()
	opts := georgej.SelectionOptions{}
	opts.Pod, _ = fs.GetString(PodArg)
	opts.Container, _ = fs.GetString(ContainerArg)
	opts.Interface, _ = fs.GetString(InterfaceArg)
	return opts
}

// CaptureOptions returns the capture options as set by the CLI flags.
func CaptureOptions(cmd *cobra.Command) *georgej.CaptureOptions {
	fs := cmd.Flags()
	opts := &georgej.CaptureOptions{
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	}
	tool, _ := fs.GetString(CaptureToolArg)
	opts.Tool = georgej.CaptureTool(tool)
	opts.Viewer, _ = fs.GetString(ViewerArg)
	opts.Annotate, _ = fs.GetBool(AnnotateArg)
	opts.Filter, _ = fs.GetString(FilterArg)
	opts.AvoidPromiscuousMode, _ = fs.GetBool(AvoidPromModeArg)
	return opts
}

// capture resolves the capture target, asking the user where necessary, and
// then streams the captured packets into the viewer until either the viewer
// exits or georgej gets SIGINT'ed or SIGTERM'ed.
func capture(cmd *cobra.Command, args []string) error {
	inv, err := command.NewInventory()
	if err != nil {
		return err
	}
	r, err := command.NewRemote()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	resolver := &georgej.Resolver{
		Inventory: inv,
		Chooser:   Chooser,
		Remote:    r,
		Options:   SelectionOptions(cmd),
	}
	sel, err := resolver.Resolve(ctx)
	if err != nil {
		return err
	}
	captureopts := CaptureOptions(cmd)
	if captureopts.Filter != "" {
		log.Debugf("capture filter expression: %q", captureopts.Filter)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "start sniffing %s\n", sel)

	sigctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = georgej.Capture(sigctx, r, sel, captureopts)
	if errors.Is(err, georgej.ErrInterrupted) {
		fmt.Fprintln(cmd.OutOrStdout(), "interrupted")
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot capture from %s: %w", sel, err)
	}
	log.Debugf("capture from %s finished", sel)
	return nil
}
