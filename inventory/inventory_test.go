// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package inventory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/jukrut/georgeJ/api"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	ktesting "k8s.io/client-go/testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func pod(namespace, name, node string, statuses ...corev1.ContainerStatus) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Namespace: namespace, Name: name},
		Spec:       corev1.PodSpec{NodeName: node},
		Status:     corev1.PodStatus{ContainerStatuses: statuses},
	}
}

var _ = Describe("pod inventory", func() {

	It("lists pods of all namespaces with normalized containers", func() {
		clientset := fake.NewSimpleClientset(
			pod("default", "web-1", "node-42",
				corev1.ContainerStatus{Name: "nginx", ContainerID: "docker://abc123"},
				corev1.ContainerStatus{Name: "sidecar", ContainerID: "containerd://def456"}),
			pod("kube-system", "coredns-0815", "node-7",
				corev1.ContainerStatus{Name: "coredns", ContainerID: "docker://c0ffee"}),
			pod("default", "pending", "",
				corev1.ContainerStatus{Name: "waiting"}),
		)
		inv := &Kube{Client: clientset}
		pods, err := inv.Pods(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(pods).To(ConsistOf(
			api.Pod{
				Name: "web-1", Namespace: "default", Node: "node-42",
				Containers: []api.Container{
					{Name: "nginx", ID: "abc123", Runtime: "docker"},
					{Name: "sidecar", ID: "def456", Runtime: "containerd"},
				},
			},
			api.Pod{
				Name: "coredns-0815", Namespace: "kube-system", Node: "node-7",
				Containers: []api.Container{
					{Name: "coredns", ID: "c0ffee", Runtime: "docker"},
				},
			},
			api.Pod{
				Name: "pending", Namespace: "default",
				Containers: []api.Container{},
			},
		))
	})

	It("reports API failures as inventory errors", func() {
		clientset := fake.NewSimpleClientset()
		clientset.PrependReactor("list", "pods",
			func(action ktesting.Action) (bool, runtime.Object, error) {
				return true, nil, errors.New("unauthorized")
			})
		inv := &Kube{Client: clientset}
		_, err := inv.Pods(context.Background())
		var inverr *InventoryError
		Expect(errors.As(err, &inverr)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("unauthorized"))
	})

	It("fails on a missing kubeconfig", func() {
		_, err := NewKube("/nonexisting/kubeconfig", "", 0)
		var inverr *InventoryError
		Expect(errors.As(err, &inverr)).To(BeTrue())
	})

	It("connects using an explicit kubeconfig and context", func() {
		tmpdir, err := os.MkdirTemp("", "georgej-kubeconfig-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { _ = os.RemoveAll(tmpdir) })
		kubeconfig := filepath.Join(tmpdir, "config")
		Expect(os.WriteFile(kubeconfig, []byte(`apiVersion: v1
kind: Config
clusters:
- name: lab
  cluster:
    server: https://127.0.0.1:6443
users:
- name: admin
  user:
    token: sekret
contexts:
- name: lab-admin
  context:
    cluster: lab
    user: admin
current-context: ""
`), 0600)).To(Succeed())
		inv, err := NewKube(kubeconfig, "lab-admin", 5*time.Second)
		Expect(err).NotTo(HaveOccurred())
		Expect(inv.Client).NotTo(BeNil())

		_, err = NewKube(kubeconfig, "no-such-context", 0)
		Expect(err).To(HaveOccurred())
	})

})
