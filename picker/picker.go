// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

// Package picker lets the user pick exactly one item out of a list, without
// bothering the user when there is nothing to choose from.
package picker

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/jukrut/georgeJ/api"
	log "github.com/sirupsen/logrus"
)

// ErrCancelled signals that the user cancelled an interactive choice.
var ErrCancelled = errors.New("choice cancelled")

// Chooser presents a list of options to the user and returns the index of
// the option chosen.
type Chooser interface {
	Choose(message string, options []string) (int, error)
}

// Survey is a Chooser showing a terminal selection list.
type Survey struct {
	// Number of options visible at once; zero uses survey's default.
	PageSize int
	// Optional survey options, such as survey.WithStdio for testing.
	Opts []survey.AskOpt
}

var _ Chooser = (*Survey)(nil)

// Choose asks the user to choose one of the options, returning ErrCancelled
// when the user interrupts.
func (s *Survey) Choose(message string, options []string) (int, error) {
	question := &survey.Select{
		Message:  message,
		Options:  options,
		PageSize: s.PageSize,
	}
	var answer int
	if err := survey.AskOne(question, &answer, s.Opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return 0, ErrCancelled
		}
		return 0, err
	}
	return answer, nil
}

// PickOne returns the index of the item picked by the user, with each item
// presented using its label. When there is only a single item, it gets
// picked without asking the user.
func PickOne[T any](c Chooser, message string, items []T, label func(T) string) (int, error) {
	switch len(items) {
	case 0:
		return 0, errors.New("nothing to pick from")
	case 1:
		log.Debugf("auto-picking %q", label(items[0]))
		return 0, nil
	}
	labels := make([]string, len(items))
	for idx, item := range items {
		labels[idx] = label(item)
	}
	idx, err := c.Choose(message, labels)
	if err != nil {
		return 0, err
	}
	if idx < 0 || idx >= len(items) {
		return 0, fmt.Errorf("invalid choice %d out of %d", idx, len(items))
	}
	return idx, nil
}

// PickInterface returns the name of the network interface picked by the
// user. The user is additionally offered the "any" pseudo interface in the
// first place, except when there is only a single network interface, which
// then gets picked without asking.
func PickInterface(c Chooser, nifs []api.Interface) (string, error) {
	if len(nifs) == 1 {
		return nifs[0].Name, nil
	}
	choices := append([]api.Interface{{Name: api.AnyInterface}}, nifs...)
	idx, err := PickOne(c, "which interface", choices,
		func(nif api.Interface) string { return nif.Name })
	if err != nil {
		return "", err
	}
	return choices[idx].Name, nil
}
