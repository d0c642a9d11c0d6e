// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

// This statically typed data model describes the pods and their containers
// as discovered from the Kubernetes API server, as well as the network
// interfaces found inside a container's network namespace. Instances get
// created fresh with each discovery and are never modified afterwards.

package api

import "strings"

// Pods is a list of pods, in the order the API server returned them.
type Pods []Pod

// Pod describes a Kubernetes pod together with the node it has been
// scheduled onto.
type Pod struct {
	// Name of the pod, unique only within its namespace.
	Name string `json:"name" yaml:"name"`
	// Namespace the pod lives in.
	Namespace string `json:"namespace" yaml:"namespace"`
	// Name of the node (container host) running this pod. This is what the
	// remote-access transport needs to reach the host.
	Node string `json:"node" yaml:"node"`
	// The pod's containers, in the order of the reported container statuses.
	// Might be empty for pods whose containers haven't been started yet.
	Containers []Container `json:"containers" yaml:"containers"`
}

// Container describes a single container of a pod.
type Container struct {
	// Name of the container as specified in the pod spec.
	Name string `json:"name" yaml:"name"`
	// Container engine-specific identifier, without any "docker://" or
	// similar scheme prefix.
	ID string `json:"id" yaml:"id"`
	// The container runtime as taken from the scheme prefix of the original
	// container identifier, such as "docker" or "containerd". Empty if the
	// identifier came without a scheme.
	Runtime string `json:"runtime,omitempty" yaml:"runtime,omitempty"`
}

// Label returns the label for a pod when presenting it to the user for
// selection.
func (p Pod) Label() string {
	return p.Name + " @ " + p.Node
}

// NewContainer returns a container description for the given name and
// (unnormalized) container ID as reported by the kubelet.
func NewContainer(name, id string) Container {
	runtime, bare := SplitContainerID(id)
	return Container{
		Name:    name,
		ID:      bare,
		Runtime: runtime,
	}
}

// NormalizeContainerID strips any URI scheme prefix, such as "docker://",
// from the specified container ID. Already bare container IDs are returned
// unchanged.
func NormalizeContainerID(id string) string {
	_, bare := SplitContainerID(id)
	return bare
}

// SplitContainerID splits a container ID in the “runtime://id” format as used
// by the kubelet into its runtime and bare ID parts. The runtime part is
// empty if there wasn't any scheme prefix.
func SplitContainerID(id string) (runtime, bare string) {
	if idx := strings.Index(id, "://"); idx >= 0 {
		return id[:idx], id[idx+3:]
	}
	return "", id
}
