// Package runner drives one full run: every identity in order through
// authenticate-then-reconcile, with the whole per-identity pipeline as the
// failure isolation boundary.
package runner

import (
	"context"

	"github.com/rs/zerolog"

	"meridian-missions/claimd/internal/authn"
	"meridian-missions/claimd/internal/identity"
	"meridian-missions/claimd/internal/metrics"
	"meridian-missions/claimd/internal/missions"
	"meridian-missions/claimd/internal/pacing"
)

// Coordinator processes identities strictly sequentially. The pacing
// between accounts is client-side backpressure, not a throughput knob.
type Coordinator struct {
	auth    *authn.Client
	engine  *missions.Engine
	pacer   *pacing.Pacer
	metrics *metrics.Metrics
	log     zerolog.Logger
}

func New(auth *authn.Client, engine *missions.Engine, pacer *pacing.Pacer, m *metrics.Metrics, log zerolog.Logger) *Coordinator {
	if m == nil {
		m = metrics.New()
	}
	return &Coordinator{auth: auth, engine: engine, pacer: pacer, metrics: m, log: log}
}

// Summary is the terminal report of one run.
type Summary struct {
	Accounts        int
	FailedAccounts  int
	ClaimsSucceeded int
	ClaimsFailed    int
	NothingToClaim  int
}

// Run authenticates and reconciles each identity in order. An error inside
// one identity's pipeline abandons that identity's remaining work and the
// run moves on; only context cancellation stops the loop. The target set is
// computed by the caller once and shared read-only across identities.
func (c *Coordinator) Run(ctx context.Context, ids []identity.Identity, targets []int) (Summary, error) {
	if len(targets) == 0 {
		c.log.Info().Msg("target catalog is empty, nothing to claim this run")
	}

	var summary Summary
	for i, id := range ids {
		if err := c.pacer.Wait(ctx); err != nil {
			return summary, err
		}
		ordinal := i + 1
		log := c.log.With().Int("account", ordinal).Str("wallet", id.WalletID).Logger()

		res, err := c.processOne(ctx, id, targets)
		if err != nil {
			if ctx.Err() != nil {
				return summary, err
			}
			c.metrics.AccountsFailed.Inc()
			summary.FailedAccounts++
			log.Error().Err(err).Msg("account abandoned")
			continue
		}

		c.metrics.AccountsProcessed.Inc()
		summary.Accounts++
		summary.ClaimsSucceeded += len(res.Succeeded)
		summary.ClaimsFailed += len(res.Failed)
		if len(res.Pending) == 0 {
			summary.NothingToClaim++
		}
	}

	c.log.Info().
		Int("accounts", summary.Accounts).
		Int("failed_accounts", summary.FailedAccounts).
		Int("claims_succeeded", summary.ClaimsSucceeded).
		Int("claims_failed", summary.ClaimsFailed).
		Int("nothing_to_claim", summary.NothingToClaim).
		Msg("run complete")
	return summary, nil
}

func (c *Coordinator) processOne(ctx context.Context, id identity.Identity, targets []int) (missions.Result, error) {
	cred, err := c.auth.Authenticate(ctx, id)
	if err != nil {
		return missions.Result{}, err
	}
	return c.engine.Reconcile(ctx, cred, targets)
}
