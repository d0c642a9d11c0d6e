// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package command

import (
	"errors"
	"strings"

	"github.com/jukrut/georgeJ/cli"
	"github.com/jukrut/georgeJ/inventory"
	"github.com/jukrut/georgeJ/remote"
	log "github.com/sirupsen/logrus"
	"github.com/thediveo/go-plugger/v3"
)

// NewTransport returns the transport for reaching the cluster nodes by asking
// the registered transport factories one after another until the first one
// returns a transport or an error. Without any factory feeling responsible,
// plain ssh is used.
func NewTransport() (remote.Transport, error) {
	for _, newTransport := range plugger.Group[cli.NewTransport]().Symbols() {
		t, err := newTransport()
		if err != nil {
			return nil, err
		}
		if t != nil {
			return t, nil
		}
	}
	return &remote.SSH{}, nil
}

// NewRemote returns a remote command runner using the transport chosen by
// the CLI flags, with remote commands limited to the request timeout.
func NewRemote() (*remote.Remote, error) {
	t, err := NewTransport()
	if err != nil {
		return nil, err
	}
	log.Debugf("reaching nodes via %s", t.Name())
	r := remote.New(t)
	r.Timeout = ReqTimeout
	return r, nil
}

// NewInventory returns the pod inventory of the cluster by asking the
// registered inventory factories one after another until the first one
// returns an inventory or an error.
func NewInventory() (inventory.Inventory, error) {
	for _, newInventory := range plugger.Group[cli.NewInventory]().Symbols() {
		inv, err := newInventory()
		if err != nil {
			return nil, err
		}
		if inv != nil {
			return inv, nil
		}
	}
	plugins := strings.Join(plugger.Group[cli.NewInventory]().Plugins(), ", ")
	if plugins == "" {
		plugins = "(none)"
	}
	return nil, errors.New("no suitable pod inventory; available inventories: " + plugins)
}
