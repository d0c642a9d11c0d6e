// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

// Resolves the chain of identifiers from a pod down to a network interface
// inside the network namespace of one of the pod's containers.

package georgej

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jukrut/georgeJ/api"
	"github.com/jukrut/georgeJ/inventory"
	"github.com/jukrut/georgeJ/picker"
	"github.com/jukrut/georgeJ/remote"
	log "github.com/sirupsen/logrus"
)

// SelectionOptions control which pods, containers, and network interfaces
// are offered to the user. All filters are regular expressions that must
// match names from their beginning; empty filters match everything.
type SelectionOptions struct {
	// Pod name filter.
	Pod string
	// Container name filter; AnyContainer picks the first container.
	Container string
	// Network interface name filter; api.AnyInterface selects all network
	// interfaces.
	Interface string
}

// Selection is what the Resolver found out about the capture target.
type Selection struct {
	Pod       api.Pod
	Container api.Container
	// Name of the node hosting the pod.
	Node string
	// PID of the container's initial process, as seen on the node.
	Pid int
	// Network interface name, or api.AnyInterface.
	Interface string
}

// String returns a user-facing description of the selected capture target.
func (s *Selection) String() string {
	return fmt.Sprintf("interface %s of container %s in pod %s on node %s",
		s.Interface, s.Container.Name, s.Pod.Name, s.Node)
}

// Resolver walks from the pods of a cluster to a network interface of a
// single container. Each step either narrows down the selection or aborts.
type Resolver struct {
	Inventory inventory.Inventory
	Chooser   picker.Chooser
	Remote    *remote.Remote
	Options   SelectionOptions
}

// Resolve runs all resolution steps in order and returns the completed
// selection. It fails with a *FilterEmptyError when a filter doesn't match
// anything, and with an *UnreachableHostError when the node hosting the
// selected pod can't be reached. Nothing is retried.
func (r *Resolver) Resolve(ctx context.Context) (*Selection, error) {
	sel := &Selection{}
	pods, err := r.Inventory.Pods(ctx)
	if err != nil {
		return nil, err
	}
	if sel.Pod, err = r.PickPod(pods); err != nil {
		return nil, err
	}
	sel.Node = sel.Pod.Node
	if sel.Container, err = r.PickContainer(sel.Pod); err != nil {
		return nil, err
	}
	reachable, err := r.Remote.Reachable(ctx, sel.Node)
	if err != nil {
		return nil, fmt.Errorf("cannot check reachability of node %q: %w", sel.Node, err)
	}
	if !reachable {
		return nil, &UnreachableHostError{Node: sel.Node}
	}
	if sel.Pid, err = r.Pid(ctx, sel.Node, sel.Container); err != nil {
		return nil, err
	}
	nifs, err := r.Interfaces(ctx, sel.Node, sel.Pid)
	if err != nil {
		return nil, err
	}
	if sel.Interface, err = r.PickInterface(nifs); err != nil {
		return nil, err
	}
	return sel, nil
}

// PickPod filters the pods and lets the user pick one of the remaining pods.
func (r *Resolver) PickPod(pods api.Pods) (api.Pod, error) {
	pods, err := inventory.FilterPods(r.Options.Pod, pods)
	if err != nil {
		return api.Pod{}, err
	}
	if len(pods) == 0 {
		return api.Pod{}, &FilterEmptyError{What: "pods"}
	}
	idx, err := picker.PickOne(r.Chooser, "which pod", []api.Pod(pods), api.Pod.Label)
	if err != nil {
		return api.Pod{}, err
	}
	log.Debugf("pod %s/%s on node %q", pods[idx].Namespace, pods[idx].Name, pods[idx].Node)
	return pods[idx], nil
}

// PickContainer filters the containers of a pod and lets the user pick one
// of the remaining containers. The AnyContainer filter picks the first
// container without any filtering or asking.
func (r *Resolver) PickContainer(pod api.Pod) (api.Container, error) {
	if r.Options.Container == AnyContainer {
		if len(pod.Containers) == 0 {
			return api.Container{}, &FilterEmptyError{What: "containers"}
		}
		return pod.Containers[0], nil
	}
	containers, err := inventory.FilterContainers(r.Options.Container, pod.Containers)
	if err != nil {
		return api.Container{}, err
	}
	if len(containers) == 0 {
		return api.Container{}, &FilterEmptyError{What: "containers"}
	}
	idx, err := picker.PickOne(r.Chooser, "which container", containers,
		func(c api.Container) string { return c.Name })
	if err != nil {
		return api.Container{}, err
	}
	log.Debugf("container %q with ID %s", containers[idx].Name, containers[idx].ID)
	return containers[idx], nil
}

// Pid returns the PID of the initial process of the specified container on
// the specified node, as told by the node's container engine.
func (r *Resolver) Pid(ctx context.Context, node string, container api.Container) (int, error) {
	runtime := RuntimeFor(container.Runtime)
	out, err := r.Remote.On(node, runtime.InspectArgs(container.ID)...).Output(ctx)
	if err != nil {
		return 0, err
	}
	pid, err := runtime.Pid(out)
	if err != nil {
		return 0, fmt.Errorf("cannot determine PID of container %q using %s: %w",
			container.Name, runtime.Name(), err)
	}
	log.Debugf("container %q has PID %d on node %q", container.Name, pid, node)
	return pid, nil
}

// Interfaces returns the network interfaces that are not down, inside the
// network namespace of the process with the specified PID on a node.
func (r *Resolver) Interfaces(ctx context.Context, node string, pid int) ([]api.Interface, error) {
	lines, err := r.Remote.On(node, NsenterArgs(pid)...).With("ip", "-br", "a").Lines(ctx)
	if err != nil {
		return nil, err
	}
	nifs := ParseInterfaces(lines)
	log.Debugf("network interfaces of PID %d: %+v", pid, nifs)
	return nifs, nil
}

// PickInterface filters the network interfaces and lets the user pick one of
// the remaining interfaces or "any". The api.AnyInterface filter skips
// filtering and asking altogether.
func (r *Resolver) PickInterface(nifs []api.Interface) (string, error) {
	if r.Options.Interface == api.AnyInterface {
		return api.AnyInterface, nil
	}
	nifs, err := FilterInterfaces(r.Options.Interface, nifs)
	if err != nil {
		return "", err
	}
	if len(nifs) == 0 {
		return "", &FilterEmptyError{What: "interfaces"}
	}
	return picker.PickInterface(r.Chooser, nifs)
}

// NsenterArgs returns the (remote) command line prefix for running a command
// inside the network namespace of the process with the specified PID.
func NsenterArgs(pid int) []string {
	return []string{"sudo", "nsenter", "-t", strconv.Itoa(pid), "-n"}
}
