package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"random-coffee/internal/domain/matching"
	"random-coffee/internal/domain/pairing"
	"random-coffee/internal/notification"
	"random-coffee/internal/repository"
)

type Notifier interface {
	Notify(ctx context.Context, pairs []pairing.Pair, prompts []string) notification.Report
}

type RunResult struct {
	Pairs         []pairing.Pair
	Unmatched     []pairing.Candidate
	Notifications notification.Report
}

type MatchingUsecase interface {
	RunOnce(ctx context.Context) (RunResult, error)
}

type MatchingOptions struct {
	Location       *time.Location
	LookbackWeeks  int
	StarterPrompts []string
	Compatible     matching.Compatible
}

type Matching struct {
	candidates repository.CandidateRepository
	pairings   repository.PairingRepository
	engine     *matching.Engine
	notifier   Notifier
	opts       MatchingOptions

	now    func() time.Time
	logger *log.Logger
}

func NewMatchingUsecase(
	candidates repository.CandidateRepository,
	pairings repository.PairingRepository,
	engine *matching.Engine,
	notifier Notifier,
	opts MatchingOptions,
	logger *log.Logger,
) *Matching {
	if engine == nil {
		engine = matching.NewEngine(nil)
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Compatible == nil {
		opts.Compatible = matching.AlwaysCompatible
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Matching{
		candidates: candidates,
		pairings:   pairings,
		engine:     engine,
		notifier:   notifier,
		opts:       opts,
		now:        time.Now,
		logger:     logger,
	}
}

// RunOnce fetches eligible users, pairs them, records the pairs and then
// notifies both members of each pair. Notification failures never fail the
// run; any earlier failure aborts it before anyone is notified.
func (u *Matching) RunOnce(ctx context.Context) (RunResult, error) {
	started := u.now()

	cands, err := u.candidates.ListEligible(ctx)
	if err != nil {
		u.logger.Printf("matching_run step=fetch status=error err=%v", err)
		return RunResult{}, fmt.Errorf("fetch candidates: %w", err)
	}

	res, err := u.engine.Match(ctx, matching.Input{
		Candidates: cands,
		Compatible: u.opts.Compatible,
		RecentlyPaired: func(ctx context.Context, a, b pairing.Candidate, weeks int) (bool, error) {
			return u.pairings.WasRecentlyPaired(ctx, a.UserID, b.UserID, weeks)
		},
		LookbackWeeks: u.opts.LookbackWeeks,
	})
	if err != nil {
		u.logger.Printf("matching_run step=match status=error err=%v", err)
		return RunResult{}, fmt.Errorf("match candidates: %w", err)
	}

	out := RunResult{Pairs: res.Pairs, Unmatched: res.Unmatched}
	if len(res.Pairs) == 0 {
		u.logger.Printf("matching_run status=empty candidates=%d unmatched=%d", len(cands), len(res.Unmatched))
		return out, nil
	}

	if err := u.pairings.Persist(ctx, res.Pairs, u.now(), u.opts.Location); err != nil {
		u.logger.Printf("matching_run step=persist status=error pairs=%d err=%v", len(res.Pairs), err)
		return RunResult{}, fmt.Errorf("persist pairs: %w", err)
	}

	if u.notifier != nil {
		out.Notifications = u.notifier.Notify(ctx, res.Pairs, u.opts.StarterPrompts)
	}

	u.logger.Printf(
		"matching_run status=ok candidates=%d pairs=%d unmatched=%d duration_ms=%d",
		len(cands), len(res.Pairs), len(res.Unmatched), u.now().Sub(started).Milliseconds(),
	)
	return out, nil
}
