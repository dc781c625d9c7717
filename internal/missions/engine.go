// Package missions reconciles an identity's recorded completions against
// the run's target set and submits the difference, paced and without
// cross-item failure propagation.
package missions

import (
	"context"

	"github.com/rs/zerolog"

	"meridian-missions/claimd/internal/authn"
	"meridian-missions/claimd/internal/metrics"
	"meridian-missions/claimd/internal/pacing"
)

// Engine runs one reconciliation pass per identity. Nothing is persisted:
// the next run recomputes the pending set from server truth, which is also
// how failed claims get re-attempted.
type Engine struct {
	client  *Client
	pacer   *pacing.Pacer
	metrics *metrics.Metrics
	log     zerolog.Logger
	dryRun  bool
}

func NewEngine(client *Client, pacer *pacing.Pacer, m *metrics.Metrics, log zerolog.Logger, dryRun bool) *Engine {
	if m == nil {
		m = metrics.New()
	}
	return &Engine{client: client, pacer: pacer, metrics: m, log: log, dryRun: dryRun}
}

// Result summarizes one identity's pass.
type Result struct {
	WalletID  string
	Pending   []int
	Succeeded []int
	Failed    []int
	Dropped   int
}

// Reconcile fetches the identity's completions, computes pending = targets
// minus claimed, and submits each pending mission in ascending order. Each
// mission is attempted at most once; a failed submission is recorded and the
// loop continues. The completion fetch always happens, even for an empty
// target set.
func (e *Engine) Reconcile(ctx context.Context, cred authn.Credential, targets []int) (Result, error) {
	log := e.log.With().Str("wallet", cred.WalletID).Logger()

	claimed, dropped, err := e.client.Completions(ctx, cred)
	if err != nil {
		return Result{}, err
	}
	e.metrics.CompletionsFetched.Add(float64(len(claimed)))
	if dropped > 0 {
		e.metrics.EntriesDropped.Add(float64(dropped))
		log.Debug().Int("dropped", dropped).Msg("completion entries without a numeric id")
	}

	res := Result{WalletID: cred.WalletID, Pending: pendingOf(targets, claimed), Dropped: dropped}
	if len(res.Pending) == 0 {
		log.Info().Msg("nothing to claim")
		return res, nil
	}

	for _, missionID := range res.Pending {
		if err := e.pacer.Wait(ctx); err != nil {
			return res, err
		}
		if e.dryRun {
			log.Info().Int("mission", missionID).Msg("dry-run: would claim")
			continue
		}
		e.metrics.ClaimsSubmitted.Inc()
		if err := e.client.Claim(ctx, cred, missionID); err != nil {
			e.metrics.ClaimsFailed.Inc()
			res.Failed = append(res.Failed, missionID)
			log.Warn().Int("mission", missionID).Err(err).Msg("claim failed")
			continue
		}
		e.metrics.ClaimsSucceeded.Inc()
		res.Succeeded = append(res.Succeeded, missionID)
		log.Info().Int("mission", missionID).Msg("claimed")
	}
	return res, nil
}

// pendingOf preserves targets' ascending order while removing claimed IDs.
func pendingOf(targets []int, claimed map[int]struct{}) []int {
	pending := make([]int, 0, len(targets))
	for _, id := range targets {
		if _, done := claimed[id]; done {
			continue
		}
		pending = append(pending, id)
	}
	return pending
}
