package collider

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ErrSearchExhausted reports that no nonce routed into the accepted
// set within the attempt budget. It usually means a misconfigured
// (B, L) pair.
var ErrSearchExhausted = errors.New("no valid nonce found")

// An Observer receives periodic search progress. It must not block;
// it has no effect on the search outcome.
type Observer func(attempts uint64, elapsed time.Duration, expected uint64)

// Result is an accepted routing: the smallest satisfying nonce, the
// flow it selects and the digest that selected it.
type Result struct {
	Nonce    uint64
	FlowID   uint32
	Digest   [32]byte
	Attempts uint64
}

// Search finds the smallest nonce routing X into the accepted flow
// set. The zero values give a sequential search with the default
// budget and no progress reporting.
type Search struct {
	Params Params
	X      uint32

	Observer     Observer
	ObserveEvery uint64 // attempts between observer calls; 0 means 50000

	// Workers > 1 shards the nonce space by stride. The result is
	// still the globally smallest satisfying nonce.
	Workers int

	// MaxAttempts overrides the default budget of 100x the expected
	// attempt count.
	MaxAttempts uint64
}

const (
	defaultObserveEvery = 50000
	budgetMultiple      = 100
	parallelBatch       = 4096
)

func (s *Search) budget() uint64 {
	if s.MaxAttempts > 0 {
		return s.MaxAttempts
	}
	expected := s.Params.ExpectedAttempts()
	if expected > math.MaxUint64/budgetMultiple {
		return math.MaxUint64
	}
	return expected * budgetMultiple
}

// Run searches nonces r = 0, 1, 2, ... until one routes into the
// accepted set, returning ErrSearchExhausted once the budget or the
// nonce space is spent. Cancellation is checked at the observer
// cadence.
func (s *Search) Run(ctx context.Context) (Result, error) {
	err := s.Params.Validate()
	if err != nil {
		return Result{}, err
	}
	if s.Workers > 1 {
		return s.runParallel(ctx)
	}

	expected := s.Params.ExpectedAttempts()
	budget := s.budget()
	every := s.ObserveEvery
	if every == 0 {
		every = defaultObserveEvery
	}
	start := time.Now()

	var attempts uint64
	for r := uint64(0); ; r++ {
		attempts++
		flowID, digest, err := DeriveFlowID(s.X, r, s.Params.B, s.Params.L)
		if err == nil {
			return Result{Nonce: r, FlowID: flowID, Digest: digest, Attempts: attempts}, nil
		}
		if errors.Cause(err) != ErrOutOfRange {
			return Result{}, err
		}
		if attempts%every == 0 {
			select {
			case <-ctx.Done():
				return Result{}, ctx.Err()
			default:
			}
			if s.Observer != nil {
				s.Observer(attempts, time.Since(start), expected)
			}
		}
		if attempts >= budget || r == math.MaxUint64 {
			return Result{}, errors.Wrapf(ErrSearchExhausted, "after %d attempts (expected ~%d)", attempts, expected)
		}
	}
}

// runParallel shards the nonce space by stride: worker w tries
// w, w+W, w+2W, ... Each worker stops once it cannot improve on the
// best nonce found so far, so the merged result is the same minimal
// nonce the sequential search returns.
func (s *Search) runParallel(ctx context.Context) (Result, error) {
	expected := s.Params.ExpectedAttempts()
	budget := s.budget()
	start := time.Now()
	workers := s.Workers

	var (
		attempts atomic.Uint64
		best     atomic.Uint64
	)
	best.Store(math.MaxUint64)

	results := make([]Result, workers)
	found := make([]bool, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			var local uint64
			defer func() { attempts.Add(local % parallelBatch) }()

			for r := uint64(w); ; r += uint64(workers) {
				if r >= best.Load() {
					return nil
				}
				local++
				flowID, digest, err := DeriveFlowID(s.X, r, s.Params.B, s.Params.L)
				if err == nil {
					for {
						cur := best.Load()
						if r >= cur || best.CompareAndSwap(cur, r) {
							break
						}
					}
					results[w] = Result{Nonce: r, FlowID: flowID, Digest: digest}
					found[w] = true
					return nil
				}
				if errors.Cause(err) != ErrOutOfRange {
					return err
				}
				if local%parallelBatch == 0 {
					total := attempts.Add(parallelBatch)
					select {
					case <-gctx.Done():
						return gctx.Err()
					default:
					}
					if s.Observer != nil && w == 0 {
						s.Observer(total, time.Since(start), expected)
					}
					if total >= budget {
						return errors.Wrapf(ErrSearchExhausted, "after %d attempts (expected ~%d)", total, expected)
					}
				}
				if r > math.MaxUint64-uint64(workers) {
					return nil
				}
			}
		})
	}

	err := g.Wait()
	res := Result{Nonce: math.MaxUint64}
	ok := false
	for w := range results {
		if found[w] && results[w].Nonce <= res.Nonce {
			res = results[w]
			ok = true
		}
	}
	if ok {
		res.Attempts = attempts.Load()
		return res, nil
	}
	if err != nil {
		return Result{}, err
	}
	return Result{}, errors.Wrapf(ErrSearchExhausted, "after %d attempts (expected ~%d)", attempts.Load(), expected)
}

// FindNonce is the sequential search with default settings.
func FindNonce(ctx context.Context, params Params, x uint32) (Result, error) {
	s := &Search{Params: params, X: x}
	return s.Run(ctx)
}
