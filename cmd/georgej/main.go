// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

// This is the main entry of the georgej CLI tool. It runs the georgej "root"
// command and maps any error to the process exit code.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jukrut/georgeJ"

	// Pull in all command packages which register themselves as plugins, as
	// otherwise there are no references in the code which could pull them in.
	"github.com/jukrut/georgeJ/cli/command"
	_ "github.com/jukrut/georgeJ/cli/command/capture"
	_ "github.com/jukrut/georgeJ/cli/kube"
	_ "github.com/jukrut/georgeJ/cli/transport"

	log "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

func main() {
	f := new(prefixed.TextFormatter)
	f.DisableColors = true
	f.ForceFormatting = true
	f.FullTimestamp = true
	f.TimestampFormat = "15:04:05"
	log.SetFormatter(f)

	os.Exit(exitCode(command.SetupCLI().Execute(), os.Stdout))
}

// exitCode reports err and returns the exit code to terminate with. Failing
// filters and unreachable nodes are shown as a plain message on out with
// their own exit code, all other errors are logged.
func exitCode(err error, out io.Writer) int {
	if err == nil {
		return 0
	}
	var filterErr *georgej.FilterEmptyError
	if errors.As(err, &filterErr) {
		fmt.Fprintln(out, filterErr.Error())
		return filterErr.ExitCode()
	}
	var unreachableErr *georgej.UnreachableHostError
	if errors.As(err, &unreachableErr) {
		fmt.Fprintln(out, unreachableErr.Error())
		return unreachableErr.ExitCode()
	}
	log.Error(err.Error())
	return 1
}
