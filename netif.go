// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package georgej

import (
	"strings"

	"github.com/jukrut/georgeJ/api"
	log "github.com/sirupsen/logrus"
)

// ParseInterfaces parses the brief address listing of "ip -br a" into the
// network interfaces that are not administratively down. Each line consists
// of the interface name with an optional "@peer" suffix, the operational
// state, and then zero, one, or more addresses:
//
//	lo               UNKNOWN        127.0.0.1/8 ::1/128
//	eth0@if5         UP             10.244.0.5/24 fe80::1/64
func ParseInterfaces(lines []string) []api.Interface {
	nifs := []api.Interface{}
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		status := fields[1]
		if status == "DOWN" {
			continue
		}
		name, _, _ := strings.Cut(fields[0], "@")
		if name == api.AnyInterface {
			log.Debugf("ignoring network interface literally named %q", name)
			continue
		}
		nifs = append(nifs, api.Interface{Name: name, Status: status})
	}
	return nifs
}

// FilterInterfaces returns only those network interfaces with names matching
// the specified regular expression from their beginning, keeping the
// original order.
func FilterInterfaces(pattern string, nifs []api.Interface) ([]api.Interface, error) {
	re, err := api.Matcher(pattern)
	if err != nil {
		return nil, err
	}
	filtered := []api.Interface{}
	for _, nif := range nifs {
		if re.MatchString(nif.Name) {
			filtered = append(filtered, nif)
		}
	}
	return filtered, nil
}
