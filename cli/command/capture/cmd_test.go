// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package capture

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/jukrut/georgeJ"
	"github.com/jukrut/georgeJ/api"
	"github.com/jukrut/georgeJ/cli"
	"github.com/jukrut/georgeJ/cli/command"
	"github.com/jukrut/georgeJ/inventory"
	"github.com/jukrut/georgeJ/remote"
	"github.com/thediveo/go-plugger/v3"
	"golang.org/x/exp/slices"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
)

type staticInventory api.Pods

func (s staticInventory) Pods(context.Context) (api.Pods, error) {
	return api.Pods(s), nil
}

// cannedNode answers the inspection and link listing commands locally with
// canned output, while the capture itself just idles.
type cannedNode struct{}

func (cannedNode) Name() string { return "canned" }

func (cannedNode) Argv(host string, args ...string) []string {
	switch {
	case slices.Contains(args, "inspect"):
		return []string{"echo", `[{"State":{"Pid":4821}}]`}
	case slices.Contains(args, "ip"):
		return []string{"echo", "eth0@if3 UP 10.1.1.1/24"}
	}
	return []string{"sleep", "30"}
}

func init() {
	plugger.Group[cli.NewTransport]().Register(
		func() (remote.Transport, error) { return cannedNode{}, nil },
		plugger.WithPlugin("canned"))
	plugger.Group[cli.NewInventory]().Register(
		func() (inventory.Inventory, error) {
			return staticInventory{
				{Name: "db-0", Namespace: "default", Node: "node-7",
					Containers: []api.Container{{Name: "postgres", ID: "d0d0"}}},
			}, nil
		},
		plugger.WithPlugin("static"))
}

var _ = Describe("capture command", func() {

	It("uses the root command", func() {
		rootCmd := command.SetupCLI()
		Expect(rootCmd.RunE).NotTo(BeNil())
		Expect(rootCmd.Example).To(ContainSubstring("georgej --tsh --pod web- --container any"))
	})

	It("has sensible defaults", func() {
		rootCmd := command.SetupCLI()
		Expect(rootCmd.ParseFlags([]string{})).To(Succeed())
		Expect(SelectionOptions(rootCmd)).To(Equal(georgej.SelectionOptions{
			Interface: api.AnyInterface,
		}))
		opts := CaptureOptions(rootCmd)
		Expect(opts.Tool).To(Equal(georgej.Tcpdump))
		Expect(opts.Viewer).To(Equal(georgej.DefaultViewer))
		Expect(opts.Annotate).To(BeFalse())
		Expect(opts.Filter).To(BeEmpty())
		Expect(opts.AvoidPromiscuousMode).To(BeFalse())
	})

	It("takes the options from the CLI flags", func() {
		rootCmd := command.SetupCLI()
		Expect(rootCmd.ParseFlags([]string{
			"--pod", "web-", "--container", "any", "--interface", "eth",
			"--viewer", "tshark", "--capture-tool", "dumpcap", "--annotate",
			"-f", "tcp port 80", "-p",
		})).To(Succeed())
		Expect(SelectionOptions(rootCmd)).To(Equal(georgej.SelectionOptions{
			Pod:       "web-",
			Container: georgej.AnyContainer,
			Interface: "eth",
		}))
		opts := CaptureOptions(rootCmd)
		Expect(opts.Tool).To(Equal(georgej.Dumpcap))
		Expect(opts.Viewer).To(Equal("tshark"))
		Expect(opts.Annotate).To(BeTrue())
		Expect(opts.Filter).To(Equal("tcp port 80"))
		Expect(opts.AvoidPromiscuousMode).To(BeTrue())
	})

	It("reports pod filters not matching anything", func() {
		rootCmd := command.SetupCLI()
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(GinkgoWriter)
		rootCmd.SetArgs([]string{"--pod", "web-"})
		err := rootCmd.Execute()
		var fe *georgej.FilterEmptyError
		Expect(errors.As(err, &fe)).To(BeTrue())
		Expect(fe.What).To(Equal("pods"))
		Expect(out.String()).NotTo(ContainSubstring("start sniffing"))
	})

	It("rejects positional args", func() {
		rootCmd := command.SetupCLI()
		rootCmd.SetOut(GinkgoWriter)
		rootCmd.SetErr(GinkgoWriter)
		rootCmd.SetArgs([]string{"web-1"})
		Expect(rootCmd.Execute()).NotTo(Succeed())
	})

	It("reports interrupted captures as success", func() {
		tmpdir, err := os.MkdirTemp("", "georgej-cmd-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { _ = os.RemoveAll(tmpdir) })
		viewer := filepath.Join(tmpdir, "viewer")
		Expect(os.WriteFile(viewer, []byte("#!/bin/sh\nexec cat > /dev/null\n"), 0755)).To(Succeed())

		rootCmd := command.SetupCLI()
		out := gbytes.NewBuffer()
		rootCmd.SetOut(out)
		rootCmd.SetErr(GinkgoWriter)
		rootCmd.SetArgs([]string{"--pod", "db-", "--viewer", viewer})
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := make(chan error, 1)
		go func() {
			defer GinkgoRecover()
			done <- rootCmd.ExecuteContext(ctx)
		}()
		Eventually(out).WithTimeout(5 * time.Second).Should(gbytes.Say(
			`start sniffing interface any of container postgres in pod db-0 on node node-7\n`))
		time.Sleep(200 * time.Millisecond)
		cancel()
		Eventually(done).WithTimeout(5 * time.Second).Should(Receive(BeNil()))
		Expect(out).To(gbytes.Say(`^interrupted\n$`))
	})

})
