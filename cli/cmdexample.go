// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package cli

import (
	"strings"

	"github.com/thediveo/go-plugger/v3"
)

// Examples returns the examples for the named command, as contributed by all
// registered CommandExamples plugins in plugin order. Individual examples are
// separated by empty lines; the result has no trailing newline.
func Examples(command string) string {
	var sections []string
	for _, examples := range plugger.Group[CommandExamples]().Symbols() {
		if text := strings.Trim(examples()[command], "\n"); text != "" {
			sections = append(sections, text)
		}
	}
	return strings.Join(sections, "\n\n")
}
