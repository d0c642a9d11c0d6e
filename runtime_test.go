// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package georgej

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("container runtimes", func() {

	It("picks the runtime by container ID scheme", func() {
		Expect(RuntimeFor("docker")).To(Equal(Docker{}))
		Expect(RuntimeFor("")).To(Equal(Docker{}))
		Expect(RuntimeFor("containerd")).To(Equal(Crictl{}))
		Expect(RuntimeFor("cri-o")).To(Equal(Crictl{}))
	})

	It("inspects docker containers", func() {
		Expect(Docker{}.InspectArgs("abc123")).To(Equal([]string{"sudo", "docker", "inspect", "abc123"}))
		pid, err := Docker{}.Pid([]byte(`[{"Id":"abc123","State":{"Status":"running","Pid":4821}}]`))
		Expect(err).NotTo(HaveOccurred())
		Expect(pid).To(Equal(4821))
	})

	It("inspects CRI containers", func() {
		Expect(Crictl{}.InspectArgs("def456")).To(Equal([]string{"sudo", "crictl", "inspect", "def456"}))
		pid, err := Crictl{}.Pid([]byte(`{"status":{"id":"def456"},"info":{"pid":1234}}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(pid).To(Equal(1234))
	})

	DescribeTable("refuses to guess PIDs",
		func(rt ContainerRuntime, inspection string) {
			_, err := rt.Pid([]byte(inspection))
			Expect(errors.Is(err, ErrMalformedInspection)).To(BeTrue(), "error: %v", err)
		},
		Entry("not JSON", Docker{}, `Error: No such object: abc123`),
		Entry("not an array", Docker{}, `{"State":{"Pid":42}}`),
		Entry("empty array", Docker{}, `[]`),
		Entry("missing State", Docker{}, `[{"Id":"abc123"}]`),
		Entry("missing Pid", Docker{}, `[{"State":{}}]`),
		Entry("string Pid", Docker{}, `[{"State":{"Pid":"42"}}]`),
		Entry("fractional Pid", Docker{}, `[{"State":{"Pid":42.5}}]`),
		Entry("stopped container", Docker{}, `[{"State":{"Pid":0}}]`),
		Entry("crictl array", Crictl{}, `[{"info":{"pid":42}}]`),
		Entry("crictl missing pid", Crictl{}, `{"info":{}}`),
	)

})
