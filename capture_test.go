// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package georgej

import (
	"context"
	"crypto/rand"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/jukrut/georgeJ/api"
	"github.com/jukrut/georgeJ/remote"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// localTransport runs a fixed local command line instead of the remote
// command, recording the remote command args it was asked for.
type localTransport struct {
	argv []string
	host string
	args []string
}

func (t *localTransport) Name() string { return "local-fixed" }

func (t *localTransport) Argv(host string, args ...string) []string {
	t.host = host
	t.args = args
	return t.argv
}

var _ = Describe("capturing", func() {

	var (
		tmpdir string
		sel    *Selection
	)

	BeforeEach(func() {
		var err error
		tmpdir, err = os.MkdirTemp("", "georgej-capture-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { _ = os.RemoveAll(tmpdir) })
		sel = &Selection{
			Pod:       api.Pod{Name: "web-2", Namespace: "default", Node: "node-42"},
			Container: api.Container{Name: "nginx", ID: "abc123", Runtime: "docker"},
			Node:      "node-42",
			Pid:       4821,
			Interface: "eth0",
		}
	})

	// viewerScript writes an executable shell script standing in for the
	// viewer and returns its path.
	viewerScript := func(body string) string {
		GinkgoHelper()
		path := filepath.Join(tmpdir, "viewer")
		Expect(os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755)).To(Succeed())
		return path
	}

	opts := func(viewer string) *CaptureOptions {
		return &CaptureOptions{
			Viewer: viewer,
			Stdout: GinkgoWriter,
			Stderr: GinkgoWriter,
		}
	}

	It("builds capture tool command lines", func() {
		args, err := Tcpdump.Args("eth0", &CaptureOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(args).To(Equal([]string{"tcpdump", "-w", "-", "-lUn", "-i", "eth0"}))

		args, err = CaptureTool("").Args("any", &CaptureOptions{
			Filter: "tcp port 80", AvoidPromiscuousMode: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(args).To(Equal([]string{
			"tcpdump", "-w", "-", "-lUn", "-i", "any", "-p", "tcp port 80"}))

		args, err = Dumpcap.Args("eth1", &CaptureOptions{
			Filter: "udp", AvoidPromiscuousMode: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(args).To(Equal([]string{
			"dumpcap", "-q", "-w", "-", "-i", "eth1", "-p", "-f", "udp"}))

		_, err = CaptureTool("tshark").Args("eth0", &CaptureOptions{})
		Expect(err).To(MatchError(ContainSubstring(`unsupported capture tool "tshark"`)))
	})

	It("streams the capture byte by byte into the viewer", func() {
		packets := make([]byte, 256*1024)
		_, _ = rand.Read(packets)
		in := filepath.Join(tmpdir, "in.pcap")
		out := filepath.Join(tmpdir, "out.pcap")
		Expect(os.WriteFile(in, packets, 0644)).To(Succeed())

		tr := &localTransport{argv: []string{"cat", in}}
		err := Capture(context.Background(), remote.New(tr), sel,
			opts(viewerScript("exec cat > "+out)))
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.host).To(Equal("node-42"))
		Expect(tr.args).To(Equal([]string{
			"sudo", "nsenter", "-t", "4821", "-n",
			"tcpdump", "-w", "-", "-lUn", "-i", "eth0"}))
		Expect(os.ReadFile(out)).To(Equal(packets))
	})

	It("passes classic pcap streams through when annotating", func() {
		packets := append([]byte{0xd4, 0xc3, 0xb2, 0xa1}, make([]byte, 4096)...)
		_, _ = rand.Read(packets[4:])
		in := filepath.Join(tmpdir, "in.pcap")
		out := filepath.Join(tmpdir, "out.pcap")
		Expect(os.WriteFile(in, packets, 0644)).To(Succeed())

		tr := &localTransport{argv: []string{"cat", in}}
		o := opts(viewerScript("exec cat > " + out))
		o.Tool = Dumpcap
		o.Annotate = true
		o.Filter = "port 80"
		Expect(Capture(context.Background(), remote.New(tr), sel, o)).To(Succeed())
		Expect(tr.args).To(Equal([]string{
			"sudo", "nsenter", "-t", "4821", "-n",
			"dumpcap", "-q", "-w", "-", "-i", "eth0", "-f", "port 80"}))
		Expect(os.ReadFile(out)).To(Equal(packets))
	})

	It("reports interruptions", func() {
		tr := &localTransport{argv: []string{"sleep", "30"}}
		ctx, cancel := context.WithCancel(context.Background())
		cs, err := StartCapture(ctx, remote.New(tr), sel,
			opts(viewerScript("exec cat > /dev/null")))
		Expect(err).NotTo(HaveOccurred())
		time.Sleep(100 * time.Millisecond)
		cancel()
		Eventually(cs.Wait).WithTimeout(5 * time.Second).
			Should(MatchError(ErrInterrupted))
	})

	It("stops the capture when the viewer exits", func() {
		tr := &localTransport{argv: []string{"sleep", "30"}}
		start := time.Now()
		Expect(Capture(context.Background(), remote.New(tr), sel,
			opts(viewerScript("exit 0")))).To(Succeed())
		Expect(time.Since(start)).To(BeNumerically("<", 10*time.Second))
	})

	It("reports failing viewers", func() {
		tr := &localTransport{argv: []string{"sleep", "30"}}
		err := Capture(context.Background(), remote.New(tr), sel,
			opts(viewerScript("exit 3")))
		Expect(err).To(MatchError(ContainSubstring("viewer failed")))
		var exiterr *exec.ExitError
		Expect(errors.As(err, &exiterr)).To(BeTrue())
		Expect(exiterr.ExitCode()).To(Equal(3))
	})

	It("treats viewers killed by the terminal as interruptions", func() {
		tr := &localTransport{argv: []string{"sleep", "30"}}
		err := Capture(context.Background(), remote.New(tr), sel,
			opts(viewerScript("kill -TERM $$")))
		Expect(err).To(MatchError(ErrInterrupted))
	})

	It("stops on demand", func() {
		tr := &localTransport{argv: []string{"sleep", "30"}}
		cs, err := StartCapture(context.Background(), remote.New(tr), sel,
			opts(viewerScript("exec cat > /dev/null")))
		Expect(err).NotTo(HaveOccurred())
		Expect(cs.StopAfter(200 * time.Millisecond)).To(Succeed())
		Expect(cs.Wait()).To(Succeed())
		cs.Stop()
	})

	It("fails on missing viewers", func() {
		tr := &localTransport{argv: []string{"sleep", "30"}}
		_, err := StartCapture(context.Background(), remote.New(tr), sel,
			opts(filepath.Join(tmpdir, "no-such-viewer")))
		Expect(err).To(MatchError(ContainSubstring("cannot start viewer")))
	})

	It("rejects unknown capture tools before starting anything", func() {
		tr := &localTransport{argv: []string{"sleep", "30"}}
		o := opts(viewerScript("exit 0"))
		o.Tool = "snoop"
		_, err := StartCapture(context.Background(), remote.New(tr), sel, o)
		Expect(err).To(HaveOccurred())
		Expect(tr.args).To(BeNil())
	})

	It("fails on empty capture command lines", func() {
		tr := &localTransport{}
		_, err := StartCapture(context.Background(), remote.New(tr), sel,
			opts(viewerScript("exit 0")))
		Expect(err).To(MatchError(ContainSubstring("empty command line")))
	})

	It("recognizes signal terminations", func() {
		err := exec.Command("sh", "-c", "kill -TERM $$").Run()
		Expect(interruptedBySignal(err)).To(BeTrue())
		err = exec.Command("sh", "-c", "exit 1").Run()
		Expect(interruptedBySignal(err)).To(BeFalse())
		Expect(interruptedBySignal(errors.New("foo"))).To(BeFalse())
	})

})
