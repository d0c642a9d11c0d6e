/*
Package inventory discovers the pods of a Kubernetes cluster, together with
their containers and the nodes they have been scheduled onto. It takes only a
single snapshot of the cluster for each discovery: there is no watching and no
caching, as an interactive capture session just needs to know what is running
right now.

The discovered pods can then be narrowed down using regular expressions that
must match the pod and container names from their beginning.
*/
package inventory
