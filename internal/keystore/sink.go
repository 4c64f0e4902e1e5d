package keystore

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	gethks "github.com/ethereum/go-ethereum/accounts/keystore"

	"VanityTools/internal/record"
)

var ErrEmptyPassword = errors.New("keystore: empty password")

// Cost selects the scrypt work factor of an encrypted record.
type Cost struct {
	N int
	P int
}

var (
	StandardCost = Cost{N: gethks.StandardScryptN, P: gethks.StandardScryptP}
	LightCost    = Cost{N: gethks.LightScryptN, P: gethks.LightScryptP}
)

// Entry is one encrypted result. Address and pattern stay readable so a file
// can be searched without the password; only the WIF is sealed.
type Entry struct {
	Address string            `json:"address"`
	Pattern string            `json:"pattern,omitempty"`
	Crypto  gethks.CryptoJSON `json:"crypto"`
	Version int               `json:"version"`
}

const entryVersion = 1

// Encrypt seals rec.PrivateKey with password and returns the JSON entry.
func Encrypt(rec record.Record, password string, cost Cost) ([]byte, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}
	cj, err := gethks.EncryptDataV3([]byte(rec.PrivateKey), []byte(password), cost.N, cost.P)
	if err != nil {
		return nil, fmt.Errorf("encrypt %s: %w", rec.Address, err)
	}
	return json.Marshal(Entry{
		Address: rec.Address,
		Pattern: rec.Pattern,
		Crypto:  cj,
		Version: entryVersion,
	})
}

// Decrypt opens an entry produced by Encrypt.
func Decrypt(blob []byte, password string) (record.Record, error) {
	var e Entry
	if err := json.Unmarshal(blob, &e); err != nil {
		return record.Record{}, fmt.Errorf("decode entry: %w", err)
	}
	if e.Version != entryVersion {
		return record.Record{}, fmt.Errorf("entry %s: unsupported version %d", e.Address, e.Version)
	}
	wif, err := gethks.DecryptDataV3(e.Crypto, password)
	if err != nil {
		return record.Record{}, fmt.Errorf("decrypt %s: %w", e.Address, err)
	}
	return record.Record{Pattern: e.Pattern, Address: e.Address, PrivateKey: string(wif)}, nil
}

func AppendJSONL(path string, jsonBlob []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(jsonBlob); err != nil {
		return err
	}
	_, err = f.Write([]byte("\n"))
	return err
}

// ScanJSONL calls fn for every non-blank line of r. Line numbers start at 1.
func ScanJSONL(r io.Reader, fn func(line int, blob []byte) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	n := 0
	for sc.Scan() {
		n++
		b := sc.Bytes()
		if len(b) == 0 {
			continue
		}
		if err := fn(n, b); err != nil {
			return err
		}
	}
	return sc.Err()
}
