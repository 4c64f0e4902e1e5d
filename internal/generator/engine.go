package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"VanityTools/internal/crypto"
	"VanityTools/internal/keystore"
	"VanityTools/internal/logsink"
	"VanityTools/internal/patterns"
	"VanityTools/internal/record"
	"VanityTools/internal/store"
	"VanityTools/pkg/config"
	"VanityTools/pkg/logx"
	"VanityTools/pkg/vanitygen"
)

// Stats summarizes one run.
type Stats struct {
	Delivered uint64 // records received from the tool
	Rejected  uint64 // failed verification or did not match the search set
	Duplicate uint64 // already present in the store
	Found     uint64 // persisted
	Dir       string
}

type run struct {
	opt     Options
	net     vanitygen.Network
	dir     string
	max     uint64
	matcher *patterns.Matcher
	db      *store.Store
	start   time.Time

	delivered, rejected, duplicate, found atomic.Uint64
}

// Run performs one continuous search described by opt.PatternsPath and
// persists every verified result under a fresh run directory. It returns when
// the tool exits, max_results is reached, or ctx is cancelled (ctx.Err()).
func Run(ctx context.Context, opt Options) (Stats, error) {
	opt = opt.withDefaults()

	cfg, err := config.Load(opt.PatternsPath)
	if err != nil {
		return Stats{}, fmt.Errorf("load patterns: %w", err)
	}
	if opt.Encrypt && opt.KeystorePassword == "" {
		return Stats{}, keystore.ErrEmptyPassword
	}

	client := opt.Client
	if cfg.Network != "" {
		n, err := vanitygen.ParseNetwork(cfg.Network)
		if err != nil {
			return Stats{}, fmt.Errorf("patterns network: %w", err)
		}
		cc := client.Config()
		cc.Network = n
		if client, err = vanitygen.New(cc); err != nil {
			return Stats{}, err
		}
	}

	matcher, err := patterns.NewMatcher(cfg)
	if err != nil {
		return Stats{}, err
	}

	r := &run{
		opt:     opt,
		net:     client.Network(),
		max:     uint64(cfg.MaxResults),
		matcher: matcher,
		start:   time.Now(),
	}

	tag := r.net.String()
	if opt.Encrypt {
		tag += "_keystore"
	}
	// logs/search/<DD.MM.YYYY>/search_<network>[_keystore]_<HH-MM-SS>
	r.dir, err = logsink.RunDir{Base: opt.LogsBase, Module: "search", Tag: tag}.Make()
	if err != nil {
		return Stats{}, err
	}
	if opt.Encrypt {
		_ = logsink.WriteHint(r.dir, opt.PassHint)
	}

	if err := logx.Init(logx.Config{
		Level:                opt.LogLevel,
		FilePath:             filepath.Join(r.dir, "app.log"),
		HideSecretsInConsole: opt.HideSecrets,
	}); err != nil {
		return Stats{}, fmt.Errorf("logx init for search failed: %w", err)
	}
	defer logx.Close()

	if opt.StorePath != "" {
		if r.db, err = store.Open(opt.StorePath); err != nil {
			return Stats{}, err
		}
		defer r.db.Close()
	}

	logx.S().Infow("search started",
		"network", r.net,
		"patterns", opt.PatternsPath,
		"literal", len(cfg.Literal),
		"regexp", len(cfg.Regexp),
		"case_insensitive", cfg.CaseInsensitive,
		"max_results", cfg.MaxResults,
		"encrypt", opt.Encrypt,
		"dir", r.dir,
	)

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, gctx := errgroup.WithContext(runCtx)

	events := make(chan record.Record, 64)
	writerDone := make(chan struct{})

	g.Go(func() error {
		defer close(events)
		return client.Continuous(gctx, cfg.Patterns(), vanitygen.Options{
			CaseInsensitive: cfg.CaseInsensitive,
		}, func(rec vanitygen.Record) {
			select {
			case events <- rec:
			case <-gctx.Done():
			}
		})
	})

	g.Go(func() error {
		defer close(writerDone)
		var stopOnce sync.Once
		for rec := range events {
			if r.max > 0 && r.found.Load() >= r.max {
				continue
			}
			r.handle(rec)
			if r.max > 0 && r.found.Load() >= r.max {
				stopOnce.Do(func() {
					logx.S().Infow("max_results reached, stopping search", "found", r.found.Load())
					stop()
				})
			}
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(opt.ProgressEvery)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-writerDone:
				return nil
			case now := <-ticker.C:
				r.progress(now)
			}
		}
	})

	err = g.Wait()
	// our own stop() after max_results is a normal end
	if errors.Is(err, context.Canceled) && ctx.Err() == nil {
		err = nil
	}

	st := r.stats()
	logx.S().Infow("stopped",
		"elapsed", humanDuration(time.Since(r.start)),
		"delivered", st.Delivered,
		"found", st.Found,
		"rejected", st.Rejected,
		"duplicate", st.Duplicate,
	)
	return st, err
}

func (r *run) handle(rec record.Record) {
	n := r.delivered.Add(1)
	log := logx.S().With("address", rec.Address, "pattern", rec.Pattern)

	if err := crypto.Verify(rec, r.net); err != nil {
		r.rejected.Add(1)
		log.Warnw("record rejected", "err", err)
		return
	}
	mr := r.matcher.MatchAddress(rec.Address)
	if mr == nil {
		r.rejected.Add(1)
		log.Warnw("record does not match the search set")
		return
	}

	if r.db != nil {
		isNew, err := r.db.Put(rec.Address, store.Entry{
			Pattern: rec.Pattern,
			Network: r.net.String(),
			FoundAt: time.Now().UTC(),
		})
		if err != nil {
			log.Errorw("store put failed", "err", err)
		} else if !isNew {
			r.duplicate.Add(1)
			log.Debugw("duplicate address skipped")
			return
		}
	}

	if err := r.persist(mr.Kind, rec); err != nil {
		log.Errorw("jsonl append failed", "kind", mr.Kind, "err", err)
		return
	}
	seq := r.found.Add(1)
	elapsed := time.Since(r.start)
	if err := logsink.WriteMatch(r.dir, logsink.Match{
		Kind:    mr.Kind,
		Pattern: rec.Pattern,
		Address: rec.Address,
		Elapsed: elapsed,
		Seq:     seq,
	}); err != nil {
		log.Errorw("match log failed", "err", err)
	}

	fields := []any{"kind", mr.Kind, "n", seq, "delivered", n, "elapsed", humanDuration(elapsed)}
	if !r.opt.Encrypt {
		// the console core masks this field when hide_secrets_in_console is set
		fields = append(fields, "wif", rec.PrivateKey)
	}
	log.Infow("FOUND", fields...)
}

func (r *run) persist(kind string, rec record.Record) error {
	var (
		blob []byte
		err  error
	)
	if r.opt.Encrypt {
		blob, err = keystore.Encrypt(rec, r.opt.KeystorePassword, r.opt.KeystoreCost)
	} else {
		blob, err = json.Marshal(rec)
	}
	if err != nil {
		return err
	}
	return keystore.AppendJSONL(filepath.Join(r.dir, kind+".jsonl"), blob)
}

func (r *run) progress(now time.Time) {
	elapsed := now.Sub(r.start)
	perMin := 0.0
	if elapsed > 0 {
		perMin = float64(r.found.Load()) / elapsed.Minutes()
	}
	logx.S().Infow("progress",
		"delivered", r.delivered.Load(),
		"found", r.found.Load(),
		"rejected", r.rejected.Load(),
		"rate_found_per_min", fmt.Sprintf("%.2f", perMin),
		"elapsed", humanDuration(elapsed),
	)
}

func (r *run) stats() Stats {
	return Stats{
		Delivered: r.delivered.Load(),
		Rejected:  r.rejected.Load(),
		Duplicate: r.duplicate.Load(),
		Found:     r.found.Load(),
		Dir:       r.dir,
	}
}

// ------------------------------- helpers ------------------------------------

func humanDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
}
