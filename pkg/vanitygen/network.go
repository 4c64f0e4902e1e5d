package vanitygen

import (
	"fmt"
	"sort"
	"strings"
)

// Network selects the chain whose address format the tool searches.
type Network string

const (
	Bitcoin  Network = "bitcoin"
	Testnet3 Network = "testnet3"
	Namecoin Network = "namecoin"
	Litecoin Network = "litecoin"
)

// DefaultNetwork needs no selector flag.
const DefaultNetwork = Bitcoin

var networkFlags = map[Network]string{
	Bitcoin:  "",
	Testnet3: "-T",
	Namecoin: "-N",
	Litecoin: "-L",
}

// ParseNetwork accepts any known network name, case-insensitively.
func ParseNetwork(s string) (Network, error) {
	n := Network(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := networkFlags[n]; !ok {
		return "", fmt.Errorf("%w: %q not supported", ErrUnknownNetwork, s)
	}
	return n, nil
}

// Flag is the tool's selector flag for n, "" for the default network.
func (n Network) Flag() string { return networkFlags[n] }

func (n Network) Valid() bool {
	_, ok := networkFlags[n]
	return ok
}

func (n Network) String() string { return string(n) }

// Networks lists the known networks in name order.
func Networks() []Network {
	out := make([]Network, 0, len(networkFlags))
	for n := range networkFlags {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
