package matching

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"random-coffee/internal/domain/pairing"
)

// Compatible decides whether two candidates may be paired at all.
type Compatible func(a, b pairing.Candidate) bool

// AlwaysCompatible is the current policy: every candidate may meet every other.
// Segment or affiliation rules plug in here.
func AlwaysCompatible(_, _ pairing.Candidate) bool { return true }

// RecentlyPaired reports whether a and b met within the lookback window.
type RecentlyPaired func(ctx context.Context, a, b pairing.Candidate, lookbackWeeks int) (bool, error)

type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type Input struct {
	Candidates     []pairing.Candidate
	Compatible     Compatible
	RecentlyPaired RecentlyPaired
	LookbackWeeks  int
}

type Result struct {
	Pairs     []pairing.Pair
	Unmatched []pairing.Candidate
}

type Engine struct {
	mu  sync.Mutex
	rnd Shuffler
}

func NewEngine(rnd Shuffler) *Engine {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{rnd: rnd}
}

// Match greedily forms disjoint pairs. Anchors are visited in shuffled order and
// each takes the first compatible, not recently paired partner from a shuffled
// list of later candidates. Anchors without such a partner stay unmatched.
func (e *Engine) Match(ctx context.Context, in Input) (Result, error) {
	compatible := in.Compatible
	if compatible == nil {
		compatible = AlwaysCompatible
	}

	cand := dedupe(in.Candidates)
	e.shuffle(len(cand), func(i, j int) { cand[i], cand[j] = cand[j], cand[i] })

	assigned := make(map[int64]struct{}, len(cand))
	pairs := make([]pairing.Pair, 0, len(cand)/2)

	for i, a := range cand {
		if _, ok := assigned[a.UserID]; ok {
			continue
		}

		options := make([]pairing.Candidate, 0, len(cand)-i-1)
		for _, b := range cand[i+1:] {
			if _, ok := assigned[b.UserID]; ok {
				continue
			}
			if compatible(a, b) {
				options = append(options, b)
			}
		}
		e.shuffle(len(options), func(x, y int) { options[x], options[y] = options[y], options[x] })

		for _, b := range options {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
			recent := false
			if in.RecentlyPaired != nil {
				r, err := in.RecentlyPaired(ctx, a, b, in.LookbackWeeks)
				if err != nil {
					return Result{}, err
				}
				recent = r
			}
			if recent {
				continue
			}
			assigned[a.UserID] = struct{}{}
			assigned[b.UserID] = struct{}{}
			pairs = append(pairs, pairing.Pair{A: a, B: b})
			break
		}
	}

	unmatched := make([]pairing.Candidate, 0)
	for _, c := range cand {
		if _, ok := assigned[c.UserID]; !ok {
			unmatched = append(unmatched, c)
		}
	}

	return Result{Pairs: pairs, Unmatched: unmatched}, nil
}

func (e *Engine) shuffle(n int, swap func(i, j int)) {
	if n < 2 {
		return
	}
	e.mu.Lock()
	e.rnd.Shuffle(n, swap)
	e.mu.Unlock()
}

func dedupe(in []pairing.Candidate) []pairing.Candidate {
	seen := make(map[int64]struct{}, len(in))
	out := make([]pairing.Candidate, 0, len(in))
	for _, c := range in {
		if _, ok := seen[c.UserID]; ok {
			continue
		}
		seen[c.UserID] = struct{}{}
		out = append(out, c)
	}
	return out
}
