// Package sugar provides convenience helpers on top of the wallet
// client and the bundled HID transport.
package sugar

import (
	"errors"
	"sync"

	"github.com/samber/mo"

	"github.com/go-btchip/btchip/pkg/options"
	"github.com/go-btchip/btchip/pkg/u2fhid"
	"github.com/go-btchip/btchip/pkg/wallet"
)

// ErrNoWallet reports that no reachable wallet device answered.
var ErrNoWallet = errors.New("sugar: no wallet device found")

type probe struct {
	dev *u2fhid.Device
	cl  *wallet.Client
}

// FindWallet opens every connected U2F device and probes it with a
// wallet info query; the first device that answers wins and the rest
// are closed. With a single device connected no probing race is needed.
func FindWallet(opts ...options.Option) (*wallet.Client, error) {
	paths, err := u2fhid.Enumerate()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, ErrNoWallet
	}

	if len(paths) == 1 {
		dev, err := u2fhid.Open(paths[0], opts...)
		if err != nil {
			return nil, err
		}
		return wallet.New(dev, opts...), nil
	}

	// First finished probe wins, successful or not, matching the
	// first-responder selection semantics of multi-token setups.
	selection := make(chan mo.Either[*probe, error], len(paths))

	var wg sync.WaitGroup
	var once sync.Once

	probes := make([]*probe, 0, len(paths))
	for _, path := range paths {
		dev, err := u2fhid.Open(path, opts...)
		if err != nil {
			continue
		}

		pr := &probe{dev: dev, cl: wallet.New(dev, opts...)}
		probes = append(probes, pr)

		wg.Add(1)
		go func(pr *probe) {
			defer wg.Done()

			if _, err := pr.cl.GetInfo(); err != nil {
				once.Do(func() {
					selection <- mo.Right[*probe, error](err)
				})
				return
			}
			once.Do(func() {
				selection <- mo.Left[*probe, error](pr)
			})
		}(pr)
	}

	if len(probes) == 0 {
		return nil, ErrNoWallet
	}

	wg.Wait()

	sel := <-selection
	if err, ok := sel.Right(); ok {
		for _, pr := range probes {
			_ = pr.dev.Close()
		}
		return nil, err
	}

	winner := sel.MustLeft()
	for _, pr := range probes {
		if pr != winner {
			_ = pr.dev.Close()
		}
	}

	return winner.cl, nil
}
