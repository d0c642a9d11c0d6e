// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jukrut/georgeJ/api"
	log "github.com/sirupsen/logrus"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	_ "k8s.io/client-go/plugin/pkg/client/auth" // for clusters using auth plugins
	"k8s.io/client-go/tools/clientcmd"
)

// errorMsg is appended to the error when the kubeconfig cannot be loaded.
const errorMsg = `
Please ensure you have an active kubernetes context to your cluster.`

// Inventory discovers the pods of a cluster.
type Inventory interface {
	// Pods returns all pods in all namespaces of the cluster.
	Pods(ctx context.Context) (api.Pods, error)
}

// InventoryError reports that the cluster API server couldn't be queried,
// for instance, because it is unreachable or we aren't authorized.
type InventoryError struct {
	Err error
}

func (e *InventoryError) Error() string {
	return "cannot list pods: " + e.Err.Error()
}

func (e *InventoryError) Unwrap() error { return e.Err }

// Kube discovers pods using a Kubernetes clientset.
type Kube struct {
	Client kubernetes.Interface
}

var _ Inventory = (*Kube)(nil)

// NewKube returns a new pod inventory for the cluster specified by the
// kubeconfig file and context. When kubeconfig is empty, the usual default
// loading rules apply ($KUBECONFIG, ~/.kube/config); when kubecontext is
// empty, the current context is used. A non-zero timeout limits each single
// API server request.
func NewKube(kubeconfig, kubecontext string, timeout time.Duration) (*Kube, error) {
	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfig != "" {
		loadingRules.ExplicitPath = kubeconfig
	}
	configOverrides := &clientcmd.ConfigOverrides{CurrentContext: kubecontext}
	config := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, configOverrides)
	restconfig, err := config.ClientConfig()
	if err != nil {
		return nil, &InventoryError{Err: fmt.Errorf("%w%s", err, errorMsg)}
	}
	restconfig.Timeout = timeout
	clientset, err := kubernetes.NewForConfig(restconfig)
	if err != nil {
		return nil, &InventoryError{Err: err}
	}
	return &Kube{Client: clientset}, nil
}

// Pods returns a snapshot of all pods in all namespaces. A failing API call
// is reported as an *InventoryError and never retried.
func (k *Kube) Pods(ctx context.Context) (api.Pods, error) {
	podlist, err := k.Client.CoreV1().Pods(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, &InventoryError{Err: err}
	}
	pods := make(api.Pods, 0, len(podlist.Items))
	for idx := range podlist.Items {
		pods = append(pods, newPod(&podlist.Items[idx]))
	}
	log.Debugf("discovered %d pods", len(pods))
	return pods, nil
}

// newPod converts a Kubernetes pod into our simplified pod model, with only
// those containers that have been assigned a container ID.
func newPod(p *corev1.Pod) api.Pod {
	pod := api.Pod{
		Name:       p.Name,
		Namespace:  p.Namespace,
		Node:       p.Spec.NodeName,
		Containers: make([]api.Container, 0, len(p.Status.ContainerStatuses)),
	}
	for _, status := range p.Status.ContainerStatuses {
		if status.ContainerID == "" {
			log.Debugf("skipping not yet started container %q of pod %s/%s",
				status.Name, p.Namespace, p.Name)
			continue
		}
		pod.Containers = append(pod.Containers, api.NewContainer(status.Name, status.ContainerID))
	}
	return pod
}
