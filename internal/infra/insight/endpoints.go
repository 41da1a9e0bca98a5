package insight

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownNetwork is returned when no default server exists for a network.
var ErrUnknownNetwork = errors.New("unknown network")

const (
	defaultPrefix       = "insight-api"
	defaultPublicPrefix = "api"
)

// defaultServers are the public Insight servers used when no server is configured.
var defaultServers = map[string]string{
	"livenet": "https://insight.bitpay.com/",
	"mainnet": "https://insight.bitpay.com/",
	"testnet": "https://test-insight.bitpay.com/",
}

// Endpoints are the two locations of an Insight server.
type Endpoints struct {
	API    string // base of the REST API, without trailing slash
	Socket string // Socket.IO server, with trailing slash
}

// ResolveEndpoints derives the REST and socket locations of an Insight server.
//
// Leading and trailing slashes of prefix are ignored. With a server, the API lives under
// server/prefix (prefix defaults to "insight-api"). Without one, the public server of network
// is used with its API under "api" and prefix is ignored. An empty network means livenet.
func ResolveEndpoints(server, network, prefix string) (Endpoints, error) {
	if server == "" {
		if network == "" {
			network = "livenet"
		}

		base, ok := defaultServers[strings.ToLower(network)]
		if !ok {
			return Endpoints{}, fmt.Errorf("%w: %q", ErrUnknownNetwork, network)
		}

		return Endpoints{
			API:    base + defaultPublicPrefix,
			Socket: base,
		}, nil
	}

	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = defaultPrefix
	}

	base := strings.TrimRight(server, "/")
	return Endpoints{
		API:    base + "/" + prefix,
		Socket: base + "/",
	}, nil
}
