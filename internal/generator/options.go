package generator

import (
	"time"

	"VanityTools/internal/keystore"
	"VanityTools/pkg/vanitygen"
)

type Options struct {
	PatternsPath string // configs/patterns.yaml
	LogsBase     string // logs
	StorePath    string // leveldb of delivered addresses; "" disables dedupe across runs
	LogLevel     string

	Encrypt          bool
	KeystorePassword string
	KeystoreCost     keystore.Cost // zero = keystore.StandardCost
	PassHint         string        // hint.txt next to the keystore records

	HideSecrets   bool          // console masking (handled by logx masking core)
	ProgressEvery time.Duration // 0 = 10s

	Client *vanitygen.Client // nil = vanitygen.Default()
}

func (o Options) withDefaults() Options {
	if o.LogsBase == "" {
		o.LogsBase = "logs"
	}
	if o.KeystoreCost == (keystore.Cost{}) {
		o.KeystoreCost = keystore.StandardCost
	}
	if o.ProgressEvery <= 0 {
		o.ProgressEvery = 10 * time.Second
	}
	if o.Client == nil {
		o.Client = vanitygen.Default()
	}
	return o
}
