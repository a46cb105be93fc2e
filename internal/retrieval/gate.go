package retrieval

import (
	"strings"

	"github.com/nexacred/ragengine/internal/config"
)

// Retrieval is the exception, not the rule: the gate only opens for
// queries naming a curated regulatory topic or explicitly asking for
// official information. A false negative costs an ungrounded answer, a
// false positive costs latency; neither is fatal.

var defaultTopics = []string{
	"rbi guidelines", "sebi regulations", "irdai rules", "npci standards",
	"banking compliance", "financial regulations", "regulatory requirements",
	"compliance framework", "digital lending guidelines", "kyc norms",
	"aml policies", "payment regulations", "credit scoring framework",
	"mutual fund regulations", "insurance guidelines",
}

var defaultRequests = []string{
	"detailed information about", "official guidelines on", "regulations for",
	"compliance requirements for", "regulatory framework", "what does rbi say",
	"sebi requirements", "irdai guidelines", "official policy",
}

// Gate decides whether the document retriever should be consulted for a
// query. Pure function of the text and its fixed phrase tables.
type Gate struct {
	topics   []string
	requests []string
}

// NewGate builds a gate from config, falling back to the built-in
// curated phrase lists. Phrases are matched case-insensitively.
func NewGate(cfg config.GateConfig) *Gate {
	g := &Gate{topics: lower(cfg.Topics), requests: lower(cfg.Requests)}
	if len(g.topics) == 0 {
		g.topics = defaultTopics
	}
	if len(g.requests) == 0 {
		g.requests = defaultRequests
	}
	return g
}

// ShouldRetrieve reports whether the query warrants document retrieval.
func (g *Gate) ShouldRetrieve(query string) bool {
	q := strings.ToLower(query)
	for _, phrase := range g.topics {
		if strings.Contains(q, phrase) {
			return true
		}
	}
	for _, phrase := range g.requests {
		if strings.Contains(q, phrase) {
			return true
		}
	}
	return false
}

func lower(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
