/*
Package georgej attaches Wireshark to a network interface of a container
running somewhere inside a Kubernetes cluster. These are live captures: the
captured network packets are immediately streamed from the node the container
runs on into the local Wireshark, tunneled through a remote shell session.

Getting there requires resolving a chain of identifiers, from the pod to the
container, to the node hosting it, to the process owning the container's
network namespace, and finally to a network interface inside that network
namespace. The [Resolver] walks this chain, asking the user whenever there is
more than one candidate left after filtering. Then, [StartCapture] runs
tcpdump inside the container's network namespace on the node and pipes its
output into Wireshark.

Please note that all containers of a pod share the same network namespace, so
capturing from a container is the same as capturing from its pod.

Normally, packet capture streaming will go on until either Wireshark gets
closed or the capture is interrupted.
*/
package georgej
