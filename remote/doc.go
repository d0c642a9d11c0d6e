/*
Package remote runs commands on cluster nodes through a remote-access
transport, such as plain ssh or Teleport's tsh. Commands are “baked”: a
[Command] value captures the transport, the target host, and the arguments
given so far, and can be extended with further arguments without affecting the
original value.

Short-lived commands return their complete output, while long-running
commands are handed out as [os/exec.Cmd] streaming handles so that their output
can be piped into other processes.
*/
package remote
