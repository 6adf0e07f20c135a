package gateway

import (
	walleterr "github.com/mrz1836/devwallet/pkg/errors"
)

// Locate picks the wallet handle to use from the handles currently on offer.
// A handle whose brand matches the configured preference wins; otherwise a
// sole handle is accepted regardless of brand. With zero handles, or several
// handles and no brand match, no handle is selected.
func Locate(handles []Provider, brand string) (Provider, error) {
	if brand != "" {
		for _, h := range handles {
			if h.Brand() == brand {
				return h, nil
			}
		}
	}

	if len(handles) == 1 {
		return handles[0], nil
	}

	return nil, walleterr.WithSuggestion(
		walleterr.ErrGatewayUnavailable,
		"start a supported wallet, or set wallet.brand to one of the available handles",
	)
}
