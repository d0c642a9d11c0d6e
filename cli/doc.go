/*
Package cli defines plugin extension points for the georgej command.

# Extension Points

The following plugin “group” extension points are available (and also invoked
in this general order):

  - [SetupCLI]: for adding (sub) commands and CLI args to the (in [cobra]
    parlance) “root” command.
  - [CommandExamples]: for adding examples to the root command and the “list”
    command, after all [SetupCLI] plugins have run.
  - [BeforeCommand]: for checking and doing things just before the command runs.
  - [NewTransport]: for choosing how to reach the cluster nodes, depending on
    CLI args.
  - [NewInventory]: for discovering the pods of the cluster to capture from.
  - [SemVer]: for overriding the version shown.

The plugins are registered at compile time using [go-plugger]; the order of
registration can be controlled by plugin placement.

[cobra]: https://github.com/spf13/cobra
[go-plugger]: https://github.com/thediveo/go-plugger
*/
package cli
