// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

// Starts a packet capture inside the network namespace of a container on a
// remote node and streams the captured packets into a local viewer.

package georgej

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/jukrut/georgeJ/pcapng"
	"github.com/jukrut/georgeJ/remote"
	log "github.com/sirupsen/logrus"
)

// CaptureTool is the packet capture tool to run on the node.
type CaptureTool string

const (
	// Tcpdump writes classic pcap streams.
	Tcpdump CaptureTool = "tcpdump"
	// Dumpcap writes pcapng streams, which can be annotated.
	Dumpcap CaptureTool = "dumpcap"
)

// Args returns the command line running the capture tool on the specified
// network interface, writing the captured packets to stdout.
func (t CaptureTool) Args(nif string, opts *CaptureOptions) ([]string, error) {
	var args []string
	switch t {
	case Tcpdump, "":
		// Unbuffered packet output to stdout, line-buffered messages, and no
		// name lookups.
		args = []string{"tcpdump", "-w", "-", "-lUn", "-i", nif}
	case Dumpcap:
		args = []string{"dumpcap", "-q", "-w", "-", "-i", nif}
	default:
		return nil, fmt.Errorf("unsupported capture tool %q", string(t))
	}
	if opts.AvoidPromiscuousMode {
		args = append(args, "-p")
	}
	if opts.Filter != "" {
		if t == Dumpcap {
			args = append(args, "-f", opts.Filter)
		} else {
			args = append(args, opts.Filter)
		}
	}
	return args, nil
}

// CaptureOptions give more detailed control over how to capture network
// traffic and how to view it.
type CaptureOptions struct {
	// Capture tool to run on the node; defaults to tcpdump.
	Tool CaptureTool
	// Packet capture filter expression, defaults to no filtering. For its
	// syntax, please refer to:
	// https://www.tcpdump.org/manpages/pcap-filter.7.html
	Filter string
	// If true, don't switch the network interface into promiscuous mode.
	AvoidPromiscuousMode bool
	// Viewer binary, defaults to DefaultViewer.
	Viewer string
	// If true, the first pcapng section header block gets annotated with
	// the capture target information. This only has an effect with capture
	// tools writing pcapng, so the stream isn't passed byte-by-byte anymore.
	Annotate bool
	// Where the viewer's and capture tool's output and messages go; default
	// to os.Stdout and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// CaptureStreamer gives control over a running capture.
type CaptureStreamer interface {
	// Stop the capture, tearing down both the capture tool and the viewer.
	// This operation blocks until the capture has finally terminated. It is
	// also idempotent.
	Stop()
	// Wait for the viewer to terminate, but do not initiate the termination.
	// Returns ErrInterrupted if the capture was interrupted.
	Wait() error
	// StopAfter waits the specified duration for the capture to terminate,
	// and terminates it after the duration if necessary.
	StopAfter(d time.Duration) error
}

// captureStreamer is the implementation of the CaptureStreamer interface.
type captureStreamer struct {
	ctx     context.Context // as passed in, signals interruption.
	cancel  context.CancelFunc
	stopped bool
	m       sync.Mutex
	err     error
	// Signals that the capture (and the capture stream) finally has ended.
	done chan struct{}
}

func (cs *captureStreamer) Stop() {
	cs.m.Lock()
	cs.stopped = true
	cs.m.Unlock()
	cs.cancel()
	<-cs.done
}

func (cs *captureStreamer) Wait() error {
	<-cs.done
	return cs.err
}

func (cs *captureStreamer) StopAfter(d time.Duration) error {
	select {
	case <-cs.done:
	case <-time.After(d):
		cs.Stop()
	}
	return cs.err
}

// StartCapture starts capturing network traffic of the selected target on
// its node and streams the captured packets into the viewer's stdin. The
// capture keeps running until the viewer exits, the context gets cancelled,
// or the capture gets stopped.
func StartCapture(ctx context.Context, r *remote.Remote, sel *Selection, opts *CaptureOptions) (CaptureStreamer, error) {
	if opts == nil {
		opts = &CaptureOptions{}
	}
	toolargs, err := opts.Tool.Args(sel.Interface, opts)
	if err != nil {
		return nil, err
	}
	viewerbin := opts.Viewer
	if viewerbin == "" {
		viewerbin = DefaultViewer
	}
	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	cctx, cancel := context.WithCancel(ctx)
	producer, err := r.On(sel.Node, NsenterArgs(sel.Pid)...).With(toolargs...).Cmd(cctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("cannot prepare capture on node %q: %w", sel.Node, err)
	}
	viewer := exec.CommandContext(cctx, viewerbin, viewerArgs...)
	log.Debugf("piping %q into %q", producer.Args, viewer.Args)

	// Connect the capture tool's stdout to the viewer's stdin through an OS
	// pipe, so the captured packets go straight from process to process.
	// Only when annotating we need to get in between.
	pr, pw, err := os.Pipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("cannot create capture pipe: %w", err)
	}
	viewer.Stdin = pr
	viewer.Stdout = stdout
	viewer.Stderr = stderr
	var editor *pcapng.StreamEditor
	if opts.Annotate {
		editor = pcapng.NewStreamEditor(pw, &pcapng.Target{
			Pod:       sel.Pod.Name,
			Namespace: sel.Pod.Namespace,
			Container: sel.Container.Name,
			Runtime:   sel.Container.Runtime,
			Node:      sel.Node,
			Interface: sel.Interface,
		}, opts.Filter, opts.AvoidPromiscuousMode)
		producer.Stdout = editor
	} else {
		producer.Stdout = pw
	}
	producer.Stderr = stderr

	if err := viewer.Start(); err != nil {
		cancel()
		pr.Close()
		pw.Close()
		return nil, fmt.Errorf("cannot start viewer %s: %w", viewerbin, err)
	}
	pr.Close() // the viewer has its own copy now.
	if err := producer.Start(); err != nil {
		cancel()
		pw.Close()
		_ = viewer.Wait()
		return nil, fmt.Errorf("cannot start capture on node %q: %w", sel.Node, err)
	}

	cs := &captureStreamer{
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	producerDone := make(chan struct{})
	go func() {
		defer close(producerDone)
		err := producer.Wait()
		if editor != nil {
			if ferr := editor.Flush(); ferr != nil {
				log.Debugf("cannot flush capture stream: %s", ferr.Error())
			}
		}
		// Signal EOF to the viewer.
		pw.Close()
		if err != nil && cctx.Err() == nil {
			log.Warnf("capture on node %q ended: %s", sel.Node, err.Error())
			return
		}
		log.Debugf("capture on node %q ended", sel.Node)
	}()
	go func() {
		defer close(cs.done)
		err := viewer.Wait()
		// Tear down the capture on the node once the viewer is gone, as
		// there's no one left caring about the packets.
		cancel()
		<-producerDone
		cs.err = cs.outcome(err)
	}()
	return cs, nil
}

// Capture starts capturing network traffic of the selected target and then
// blocks until the viewer exits or the capture gets interrupted by
// cancelling the context, returning ErrInterrupted in the latter case.
func Capture(ctx context.Context, r *remote.Remote, sel *Selection, opts *CaptureOptions) error {
	cs, err := StartCapture(ctx, r, sel, opts)
	if err != nil {
		return err
	}
	return cs.Wait()
}

// outcome maps the viewer's exit into the overall capture result.
func (cs *captureStreamer) outcome(viewerErr error) error {
	cs.m.Lock()
	defer cs.m.Unlock()
	switch {
	case cs.ctx.Err() != nil:
		return ErrInterrupted
	case cs.stopped:
		return nil
	case viewerErr == nil:
		return nil
	case interruptedBySignal(viewerErr):
		// The terminal's interrupt reaches the viewer as part of the same
		// process group, possibly before it reaches us.
		return ErrInterrupted
	}
	return fmt.Errorf("viewer failed: %w", viewerErr)
}

// interruptedBySignal returns true if err tells that a process got killed by
// SIGINT or SIGTERM.
func interruptedBySignal(err error) bool {
	var exiterr *exec.ExitError
	if !errors.As(err, &exiterr) {
		return false
	}
	status, ok := exiterr.Sys().(syscall.WaitStatus)
	if !ok || !status.Signaled() {
		return false
	}
	return status.Signal() == syscall.SIGINT || status.Signal() == syscall.SIGTERM
}
