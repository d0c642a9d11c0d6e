// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package api

// AnyInterface is the pseudo network interface name telling the capture tool
// to capture from all network interfaces of a network namespace.
const AnyInterface = "any"

// Interface describes a network interface inside a container's network
// namespace. Administratively down interfaces never make it into this model.
type Interface struct {
	// Name of the network interface, without any "@peer" suffix.
	Name string `json:"name" yaml:"name"`
	// Operational state, such as "UP" or "UNKNOWN".
	Status string `json:"status" yaml:"status"`
}
