// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package inventory

import "github.com/jukrut/georgeJ/api"

// FilterPods returns only those pods with names matching the specified
// regular expression from their beginning, keeping the original order. An
// empty pattern matches all pods. It is up to the caller to decide what to do
// about an empty result.
func FilterPods(pattern string, pods api.Pods) (api.Pods, error) {
	re, err := api.Matcher(pattern)
	if err != nil {
		return nil, err
	}
	filtered := api.Pods{}
	for _, pod := range pods {
		if re.MatchString(pod.Name) {
			filtered = append(filtered, pod)
		}
	}
	return filtered, nil
}

// FilterContainers returns only those containers with names matching the
// specified regular expression from their beginning, keeping the original
// order.
func FilterContainers(pattern string, containers []api.Container) ([]api.Container, error) {
	re, err := api.Matcher(pattern)
	if err != nil {
		return nil, err
	}
	filtered := []api.Container{}
	for _, container := range containers {
		if re.MatchString(container.Name) {
			filtered = append(filtered, container)
		}
	}
	return filtered, nil
}
