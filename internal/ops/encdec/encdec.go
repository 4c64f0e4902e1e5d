package encdec

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/btcsuite/btcutil"

	"VanityTools/internal/crypto"
	"VanityTools/internal/keystore"
	"VanityTools/internal/logsink"
	"VanityTools/internal/record"
	"VanityTools/pkg/logx"
	"VanityTools/pkg/vanitygen"
)

// EncryptOptions controls encryption job behaviour.
type EncryptOptions struct {
	InputsBaseDir        string            // e.g. "inputs"
	LogsBase             string            // e.g. "logs"
	Password             string            // required
	PassHint             string            // optional text stored near logs for future reference
	Network              vanitygen.Network // network of the keys in privates.txt
	Cost                 keystore.Cost     // zero = keystore.StandardCost
	HideSecretsInConsole bool              // if true, private keys are masked in the console
}

// DecryptOptions controls decryption job behaviour.
type DecryptOptions struct {
	InputsBaseDir        string // e.g. "inputs"
	LogsBase             string // e.g. "logs"
	Password             string // required
	HideSecretsInConsole bool
}

// Report counts the inputs of one job.
type Report struct {
	Dir    string
	Total  int
	OK     int
	Failed int
}

// EncryptResults seals plain search results. Inputs, from inputs/encrypt/:
//
//	*.jsonl       plain records as written by a search run
//	privates.txt  one WIF per line, address derived for opt.Network
//
// Results:
//
//	logs/encrypt/<DD.MM.YYYY>/encrypt_<HH-MM-SS>/app.log
//	logs/encrypt/.../all.jsonl (one encrypted entry per line)
//	logs/encrypt/.../files/<address>.json (one file per result)
func EncryptResults(ctx context.Context, opt EncryptOptions) (Report, error) {
	if opt.Password == "" {
		return Report{}, keystore.ErrEmptyPassword
	}
	if opt.Network == "" {
		opt.Network = vanitygen.DefaultNetwork
	}
	if opt.Cost == (keystore.Cost{}) {
		opt.Cost = keystore.StandardCost
	}

	dir, err := logsink.RunDir{Base: opt.LogsBase, Module: "encrypt"}.Make()
	if err != nil {
		return Report{}, err
	}
	_ = logsink.WriteHint(dir, opt.PassHint)

	if err := logx.Init(logx.Config{Level: "info", FilePath: filepath.Join(dir, "app.log"), HideSecretsInConsole: opt.HideSecretsInConsole}); err != nil {
		return Report{}, fmt.Errorf("logx init failed: %w", err)
	}
	defer logx.Close()
	app := logx.S()

	filesDir := filepath.Join(dir, "files")
	if err := os.MkdirAll(filesDir, 0o755); err != nil {
		return Report{}, fmt.Errorf("mkdir files: %w", err)
	}

	inDir := filepath.Join(opt.InputsBaseDir, "encrypt")
	recs, rep := collectPlain(inDir, opt.Network)
	rep.Dir = dir
	app.Infow("encrypt started", "inputs", inDir, "out", dir, "records", len(recs), "unreadable", rep.Failed)

	allPath := filepath.Join(dir, "all.jsonl")
	start := time.Now()
	for _, rec := range recs {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if err := crypto.Verify(rec, opt.Network); err != nil {
			rep.Failed++
			app.Errorw("record rejected", "address", rec.Address, "err", err)
			continue
		}
		blob, err := keystore.Encrypt(rec, opt.Password, opt.Cost)
		if err != nil {
			rep.Failed++
			app.Errorw("encrypt failed", "address", rec.Address, "err", err)
			continue
		}
		if err := keystore.AppendJSONL(allPath, blob); err != nil {
			rep.Failed++
			app.Errorw("append jsonl failed", "address", rec.Address, "err", err)
			continue
		}
		if err := os.WriteFile(filepath.Join(filesDir, rec.Address+".json"), blob, 0o600); err != nil {
			rep.Failed++
			app.Errorw("write single entry failed", "address", rec.Address, "err", err)
			continue
		}
		rep.OK++
		app.Infow("ENCRYPTED", "address", rec.Address, "wif", rec.PrivateKey)
	}

	app.Infow("encrypt finished", "total", rep.Total, "ok", rep.OK, "failed", rep.Failed, "elapsed", time.Since(start).String())
	return rep, nil
}

// collectPlain reads every input record; lines that cannot be read are
// counted as failed.
func collectPlain(inDir string, n vanitygen.Network) ([]record.Record, Report) {
	var (
		recs []record.Record
		rep  Report
	)
	app := logx.S()

	for _, p := range listFiles(inDir, ".jsonl") {
		f, err := os.Open(p)
		if err != nil {
			app.Errorw("open jsonl failed", "file", p, "err", err)
			continue
		}
		err = keystore.ScanJSONL(f, func(line int, blob []byte) error {
			rep.Total++
			var rec record.Record
			if err := json.Unmarshal(blob, &rec); err != nil || rec.Address == "" || rec.PrivateKey == "" {
				rep.Failed++
				app.Errorw("bad record", "file", p, "line", line)
				return nil
			}
			recs = append(recs, rec)
			return nil
		})
		_ = f.Close()
		if err != nil {
			app.Errorw("scan jsonl failed", "file", p, "err", err)
		}
	}

	privates := filepath.Join(inDir, "privates.txt")
	f, err := os.Open(privates)
	if err != nil {
		return recs, rep
	}
	defer f.Close()

	params, _ := crypto.Params(n)
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		rep.Total++
		wif, err := btcutil.DecodeWIF(raw)
		if err != nil {
			rep.Failed++
			app.Errorw("parse wif failed", "line", line, "err", err)
			continue
		}
		addr, err := crypto.AddressFromWIF(wif, params)
		if err != nil {
			rep.Failed++
			app.Errorw("derive address failed", "line", line, "err", err)
			continue
		}
		recs = append(recs, record.Record{Address: addr, PrivateKey: raw})
	}
	if err := sc.Err(); err != nil {
		app.Errorw("read privates.txt failed", "err", err)
	}
	return recs, rep
}

// DecryptResults reads inputs/decrypt/{*.jsonl, *.json, files/*.json}
// and writes the keys into logs/decrypt/.../all.txt as "address:wif" lines.
func DecryptResults(ctx context.Context, opt DecryptOptions) (Report, error) {
	if opt.Password == "" {
		return Report{}, keystore.ErrEmptyPassword
	}

	dir, err := logsink.RunDir{Base: opt.LogsBase, Module: "decrypt"}.Make()
	if err != nil {
		return Report{}, err
	}
	if err := logx.Init(logx.Config{Level: "info", FilePath: filepath.Join(dir, "app.log"), HideSecretsInConsole: opt.HideSecretsInConsole}); err != nil {
		return Report{}, fmt.Errorf("logx init failed: %w", err)
	}
	defer logx.Close()
	app := logx.S()

	outF, err := os.OpenFile(filepath.Join(dir, "all.txt"), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return Report{}, fmt.Errorf("create all.txt: %w", err)
	}
	defer outF.Close()

	rep := Report{Dir: dir}
	inDir := filepath.Join(opt.InputsBaseDir, "decrypt")
	files := append(listFiles(inDir, ".jsonl"), listFiles(inDir, ".json")...)
	files = append(files, listFiles(filepath.Join(inDir, "files"), ".json")...)
	if len(files) == 0 {
		app.Warnw("no encrypted files found", "dir", inDir)
		return rep, nil
	}
	app.Infow("decrypt started", "inputs", inDir, "out", dir, "files", len(files))

	open := func(file string, blob []byte) {
		rep.Total++
		rec, err := keystore.Decrypt(blob, opt.Password)
		if err != nil {
			rep.Failed++
			app.Errorw("decrypt failed", "file", file, "err", err)
			return
		}
		if _, err := fmt.Fprintf(outF, "%s:%s\n", rec.Address, rec.PrivateKey); err != nil {
			rep.Failed++
			app.Errorw("write all.txt failed", "err", err)
			return
		}
		rep.OK++
		app.Infow("DECRYPTED", "address", rec.Address, "wif", rec.PrivateKey)
	}

	start := time.Now()
	for _, p := range files {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if strings.HasSuffix(p, ".jsonl") {
			f, err := os.Open(p)
			if err != nil {
				app.Errorw("open jsonl failed", "file", p, "err", err)
				continue
			}
			err = keystore.ScanJSONL(f, func(_ int, blob []byte) error {
				open(p, blob)
				return ctx.Err()
			})
			_ = f.Close()
			if err != nil {
				if ctx.Err() != nil {
					return rep, ctx.Err()
				}
				app.Errorw("scan jsonl failed", "file", p, "err", err)
			}
			continue
		}

		blob, err := os.ReadFile(p)
		if err != nil {
			app.Errorw("read json failed", "file", p, "err", err)
			continue
		}
		open(p, blob)
	}

	app.Infow("decrypt finished", "total", rep.Total, "ok", rep.OK, "failed", rep.Failed, "elapsed", time.Since(start).String())
	return rep, nil
}

// listFiles returns the regular files in dir with the given suffix, sorted.
func listFiles(dir, suffix string) []string {
	entries, _ := os.ReadDir(dir)
	var out []string
	for _, de := range entries {
		if !de.IsDir() && strings.HasSuffix(de.Name(), suffix) {
			out = append(out, filepath.Join(dir, de.Name()))
		}
	}
	sort.Strings(out)
	return out
}
