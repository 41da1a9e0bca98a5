// Package address checks Bitcoin address syntax for a given network using btcutil.
package address

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/gabapcia/insightwatch/internal/message"
)

// ErrUnsupportedNetwork is returned for networks without chain parameters.
var ErrUnsupportedNetwork = errors.New("unsupported network")

var networkParams = map[string]*chaincfg.Params{
	"livenet": &chaincfg.MainNetParams,
	"mainnet": &chaincfg.MainNetParams,
	"testnet": &chaincfg.TestNet3Params,
	"regtest": &chaincfg.RegressionNetParams,
	"simnet":  &chaincfg.SimNetParams,
}

// validator implements message.AddressValidator for one network.
type validator struct {
	params *chaincfg.Params
}

var _ message.AddressValidator = (*validator)(nil)

// NewValidator returns a validator accepting base58 and bech32 addresses of network.
func NewValidator(network string) (*validator, error) {
	params, ok := networkParams[strings.ToLower(network)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedNetwork, network)
	}

	return &validator{params: params}, nil
}

// IsValid reports whether address decodes for the validator's network.
func (v *validator) IsValid(address string) bool {
	decoded, err := btcutil.DecodeAddress(address, v.params)
	if err != nil {
		return false
	}

	return decoded.IsForNet(v.params)
}

// Network returns the name of the chain parameters in use.
func (v *validator) Network() string {
	return v.params.Name
}
