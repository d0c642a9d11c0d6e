// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package georgej

const (
	// AnyContainer used as a container filter picks the first container of a
	// pod, without filtering and without asking.
	AnyContainer = "any"

	// DefaultViewer is the packet capture viewer fed with the captured
	// packets.
	DefaultViewer = "wireshark"

	// SemVersion is the semantic version of georgeJ.
	SemVersion = "1.1.0"
)

// viewerArgs make the viewer read packets from its stdin and start decoding
// them immediately.
var viewerArgs = []string{"-k", "-i", "-"}
