// Package crypto checks results reported by the external tool: that the
// address belongs to the selected network and that the private key really
// unlocks it.
package crypto

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcutil"

	"VanityTools/internal/record"
	"VanityTools/pkg/vanitygen"
)

var (
	ErrBadAddress  = errors.New("address is not valid for the network")
	ErrBadKey      = errors.New("private key is not a valid WIF for the network")
	ErrKeyMismatch = errors.New("private key does not unlock the address")
)

var namecoinParams = chaincfg.Params{
	Name:             "namecoin",
	Bech32HRPSegwit:  "nc",
	PubKeyHashAddrID: 0x34,
	ScriptHashAddrID: 0x0d,
	PrivateKeyID:     0xb4,
}

var litecoinParams = chaincfg.Params{
	Name:             "litecoin",
	Bech32HRPSegwit:  "ltc",
	PubKeyHashAddrID: 0x30,
	ScriptHashAddrID: 0x32,
	PrivateKeyID:     0xb0,
}

// Params maps a tool network to its address encoding parameters.
func Params(n vanitygen.Network) (*chaincfg.Params, error) {
	switch n {
	case vanitygen.Bitcoin:
		return &chaincfg.MainNetParams, nil
	case vanitygen.Testnet3:
		return &chaincfg.TestNet3Params, nil
	case vanitygen.Namecoin:
		return &namecoinParams, nil
	case vanitygen.Litecoin:
		return &litecoinParams, nil
	}
	return nil, fmt.Errorf("%w: %q", vanitygen.ErrUnknownNetwork, n)
}

// ValidAddress reports whether addr decodes as an address of network n.
func ValidAddress(addr string, n vanitygen.Network) bool {
	params, err := Params(n)
	if err != nil {
		return false
	}
	a, err := btcutil.DecodeAddress(addr, params)
	return err == nil && a.IsForNet(params)
}

// Verify checks that rec's key is a WIF for network n whose public key
// hashes to rec's address.
func Verify(rec record.Record, n vanitygen.Network) error {
	params, err := Params(n)
	if err != nil {
		return err
	}
	if !ValidAddress(rec.Address, n) {
		return fmt.Errorf("%w: %s", ErrBadAddress, rec.Address)
	}
	wif, err := btcutil.DecodeWIF(rec.PrivateKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadKey, err)
	}
	if !wif.IsForNet(params) {
		return ErrBadKey
	}
	derived, err := AddressFromWIF(wif, params)
	if err != nil {
		return err
	}
	if derived != rec.Address {
		return fmt.Errorf("%w: key gives %s, tool reported %s", ErrKeyMismatch, derived, rec.Address)
	}
	return nil
}

// AddressFromWIF derives the pay-to-pubkey-hash address of a key.
func AddressFromWIF(wif *btcutil.WIF, params *chaincfg.Params) (string, error) {
	addr, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(wif.SerializePubKey()), params)
	if err != nil {
		return "", fmt.Errorf("derive address: %w", err)
	}
	return addr.EncodeAddress(), nil
}
