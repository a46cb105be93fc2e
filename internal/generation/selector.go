package generation

import (
	"context"
	"strings"
	"sync"

	"github.com/qmuntal/stateless"

	"github.com/nexacred/ragengine/internal/logger"
)

// Tier is a service capability level. Demotion walks full ->
// simplified -> static and never goes back up.
type Tier string

const (
	TierFull       Tier = "full"
	TierSimplified Tier = "simplified"
	TierStatic     Tier = "static"
)

type tierTrigger stateless.Trigger

var triggerDemote tierTrigger = "Demote"

// authPatterns mark backend error messages caused by credential
// problems. Retrying those at the same tier cannot succeed.
var authPatterns = []string{
	"authentication",
	"unauthenticated",
	"unauthorized",
	"invalid api key",
	"401",
}

// Selector routes generation through the highest tier still believed
// healthy. The full tier receives the assembled prompt; the lower
// tiers work from the raw user query.
type Selector struct {
	mu         sync.Mutex
	fsm        *stateless.StateMachine
	full       Generator
	simplified *SimplifiedGenerator
	static     Generator
}

func NewSelector(full Generator) *Selector {
	fsm := stateless.NewStateMachine(TierFull)
	fsm.Configure(TierFull).Permit(triggerDemote, TierSimplified)
	fsm.Configure(TierSimplified).Permit(triggerDemote, TierStatic)
	fsm.Configure(TierStatic).Ignore(triggerDemote)

	return &Selector{
		fsm:        fsm,
		full:       full,
		simplified: NewSimplifiedGenerator(),
		static:     NewStaticGenerator(),
	}
}

// Tier reports the current service tier.
func (s *Selector) Tier() Tier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fsm.MustState().(Tier)
}

// Simplified exposes the middle tier so callers can tell table hits
// from deflections.
func (s *Selector) Simplified() *SimplifiedGenerator { return s.simplified }

// Generate produces a reply at the current tier, demoting and retrying
// immediately when the tier fails. It always returns text.
func (s *Selector) Generate(ctx context.Context, prompt, rawQuery string, p Params) (string, Tier) {
	for {
		tier := s.Tier()
		gen := s.generator(tier)
		input := prompt
		if tier != TierFull {
			input = rawQuery
		}

		out, err := gen.Generate(ctx, input, p)
		if err == nil && !(tier == TierFull && authErrorReply(out)) {
			return out, tier
		}
		if tier == TierStatic {
			// Static cannot actually fail; keep the contract total anyway.
			return staticReply, TierStatic
		}

		if err != nil {
			logger.L.Warn("generation tier failed, demoting", "tier", gen.Name(), "error", err)
		} else {
			logger.L.Warn("generation returned an auth error reply, demoting", "tier", gen.Name())
		}
		s.demoteFrom(tier)
	}
}

// HealthCheck probes the full generator directly. A healthy probe does
// not restore a demoted tier; only a restart does.
func (s *Selector) HealthCheck(ctx context.Context) bool {
	_, err := s.full.Generate(ctx, "ping", Params{MaxTokens: 1, Temperature: 0})
	return err == nil
}

func (s *Selector) generator(t Tier) Generator {
	switch t {
	case TierFull:
		return s.full
	case TierSimplified:
		return s.simplified
	default:
		return s.static
	}
}

// demoteFrom fires the transition only if the machine is still at the
// observed tier, so concurrent failures at one tier demote once.
func (s *Selector) demoteFrom(t Tier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fsm.MustState().(Tier) != t {
		return
	}
	if err := s.fsm.Fire(triggerDemote); err != nil {
		logger.L.Error("tier transition failed", "from", t, "error", err)
	}
}

// authErrorReply reports whether a backend handed back an error
// message instead of an answer, and that message describes a
// credential failure. Some OpenAI-compatible gateways return such text
// with a 200. Only error-shaped replies are inspected; a legitimate
// answer that merely mentions authentication never demotes.
func authErrorReply(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	if !strings.HasPrefix(lower, "error") {
		return false
	}
	for _, p := range authPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
