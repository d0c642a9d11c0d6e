// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package api

import (
	"fmt"
	"regexp"
)

// Matcher compiles the specified regular expression so that it only matches
// when the match starts at the very beginning of a name. The match doesn't
// need to consume the complete name, though. An empty pattern matches all
// names.
func Matcher(pattern string) (*regexp.Regexp, error) {
	// The pattern must stand on its own, so it can't break out of the
	// anchoring group.
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, fmt.Errorf("invalid regular expression %q: %w", pattern, err)
	}
	return regexp.MustCompile(`^(?:` + pattern + `)`), nil
}
