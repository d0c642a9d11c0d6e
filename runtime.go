// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package georgej

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/tidwall/gjson"
)

// ErrMalformedInspection signals that a container engine's inspection result
// lacks a usable PID.
var ErrMalformedInspection = errors.New("malformed container inspection")

// ContainerRuntime knows how to ask a particular container engine on a node
// for the PID of a container's initial process.
type ContainerRuntime interface {
	// Name of the container engine.
	Name() string
	// InspectArgs returns the (remote) command line inspecting a container.
	InspectArgs(id string) []string
	// Pid returns the PID found in the inspection output.
	Pid(inspection []byte) (int, error)
}

// Docker inspects containers using the docker CLI, which returns a JSON
// array of container details.
type Docker struct{}

func (Docker) Name() string { return "docker" }

func (Docker) InspectArgs(id string) []string {
	return []string{"sudo", "docker", "inspect", id}
}

func (Docker) Pid(inspection []byte) (int, error) {
	if !gjson.ValidBytes(inspection) || !gjson.ParseBytes(inspection).IsArray() {
		return 0, fmt.Errorf("%w: expected JSON array", ErrMalformedInspection)
	}
	return pid(inspection, "0.State.Pid")
}

// Crictl inspects containers of CRI container engines, such as containerd
// and CRI-O, using crictl, which returns a single JSON object.
type Crictl struct{}

func (Crictl) Name() string { return "crictl" }

func (Crictl) InspectArgs(id string) []string {
	return []string{"sudo", "crictl", "inspect", id}
}

func (Crictl) Pid(inspection []byte) (int, error) {
	if !gjson.ValidBytes(inspection) || !gjson.ParseBytes(inspection).IsObject() {
		return 0, fmt.Errorf("%w: expected JSON object", ErrMalformedInspection)
	}
	return pid(inspection, "info.pid")
}

// RuntimeFor returns the container runtime for the specified runtime name,
// as taken from a container ID. Unknown or missing names go with Docker.
func RuntimeFor(name string) ContainerRuntime {
	switch name {
	case "containerd", "cri-o", "crio":
		return Crictl{}
	default:
		return Docker{}
	}
}

// pid returns the positive integer PID found at path, refusing to guess when
// there is none.
func pid(inspection []byte, path string) (int, error) {
	result := gjson.GetBytes(inspection, path)
	if !result.Exists() {
		return 0, fmt.Errorf("%w: missing %s", ErrMalformedInspection, path)
	}
	if result.Type != gjson.Number || result.Num != math.Trunc(result.Num) {
		return 0, fmt.Errorf("%w: %s is not an integer: %s", ErrMalformedInspection, path, result.Raw)
	}
	if result.Num <= 0 || result.Num > math.MaxInt32 {
		return 0, fmt.Errorf("%w: invalid %s %s, container not running?",
			ErrMalformedInspection, path, strconv.FormatFloat(result.Num, 'f', -1, 64))
	}
	return int(result.Num), nil
}
