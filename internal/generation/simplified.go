package generation

import (
	"context"
	"strings"
	"sync"
)

// knowledgeEntry pairs a space-separated key phrase with its canned
// answer. Entries are ordered so keyword ties resolve the same way on
// every run.
type knowledgeEntry struct {
	key      string
	response string
}

var knowledgeBase = []knowledgeEntry{
	{"credit score", "A credit score is a numerical representation of your creditworthiness, typically ranging from 300 to 850. It's calculated based on your credit history, payment patterns, credit utilization, length of credit history, and types of credit accounts. Higher scores indicate lower credit risk to lenders."},
	{"improve credit", "To improve your credit score: 1) Pay bills on time consistently, 2) Keep credit utilization below 30%, 3) Don't close old credit accounts, 4) Limit new credit applications, 5) Monitor your credit report regularly for errors, 6) Consider becoming an authorized user on someone else's account with good credit."},
	{"credit rating", "Credit ratings are assessments of creditworthiness, typically expressed as letter grades (AAA, AA, A, BBB, etc.) or numerical scores. They help lenders evaluate the risk of lending money to individuals or organizations."},
	{"lending", "Lending is the process of providing money, property, or other material goods to another party with the expectation of repayment, usually with interest. NexaCred facilitates peer-to-peer lending with transparent terms and blockchain-based security."},
	{"loan application", "For a loan application, you typically need: 1) Valid ID (passport/driver's license), 2) Proof of income (pay stubs/tax returns), 3) Bank statements, 4) Credit history, 5) Employment verification, 6) Purpose of loan documentation."},
	{"lending decision", "Lending decisions are based on factors including: credit score, income stability, debt-to-income ratio, employment history, loan purpose, collateral (if applicable), and overall financial health. NexaCred uses advanced algorithms to assess these factors fairly."},
	{"blockchain", "Blockchain technology in finance provides transparency, security, and immutability. It creates a decentralized ledger that records transactions across multiple computers, making it nearly impossible to alter records fraudulently. This enhances trust in financial transactions."},
	{"nexacred", "NexaCred is an innovative financial platform that combines traditional credit scoring with blockchain technology and AI-powered risk assessment. We provide peer-to-peer lending services, transparent credit evaluations, and MetaMask integration for secure transactions."},
	{"financial health", "Financial health refers to the overall state of your personal finances, including income, expenses, savings, debt levels, and investment portfolio. Key indicators include positive cash flow, emergency fund, manageable debt, and growing net worth."},
	{"interest rate", "Interest rates represent the cost of borrowing money, expressed as a percentage of the principal amount. They're influenced by factors like credit score, loan term, market conditions, and lender policies. Higher credit scores typically qualify for lower interest rates."},
}

var greetingWords = []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"}

var greetingResponses = []string{
	"Hello! I'm your NexaCred AI assistant. How can I help you today?",
	"Hi there! I'm here to help with your financial and credit questions. What would you like to know?",
	"Welcome! I can assist you with information about credit scores, lending, and financial services. What's your question?",
}

var defaultResponses = []string{
	"I understand you're looking for information about that topic. While I don't have specific details right now, I recommend checking our comprehensive resources or contacting our support team for personalized assistance.",
	"That's an interesting question! For detailed information about that specific topic, I'd suggest exploring our help documentation or speaking with one of our financial advisors.",
	"I'd be happy to help you with that. For the most accurate and up-to-date information, please consult our official resources or reach out to our customer support team.",
}

// SimplifiedGenerator answers from a fixed financial knowledge table.
// It works on the raw user query, not an assembled prompt, and never
// touches the network.
type SimplifiedGenerator struct {
	mu         sync.Mutex
	greetIdx   int
	defaultIdx int
}

func NewSimplifiedGenerator() *SimplifiedGenerator { return &SimplifiedGenerator{} }

func (g *SimplifiedGenerator) Name() string { return "simplified" }

// Knows reports whether the reply came from the knowledge table rather
// than a greeting or a default deflection.
func (g *SimplifiedGenerator) Knows(text string) bool {
	for _, e := range knowledgeBase {
		if e.response == text {
			return true
		}
	}
	return false
}

func (g *SimplifiedGenerator) Generate(_ context.Context, query string, _ Params) (string, error) {
	lower := strings.ToLower(query)
	tokens := tokenSet(lower)

	for _, w := range greetingWords {
		if containsPhrase(tokens, lower, w) {
			return g.rotate(greetingResponses, &g.greetIdx), nil
		}
	}

	best := ""
	maxMatches := 0
	for _, e := range knowledgeBase {
		matches := 0
		for _, w := range strings.Fields(e.key) {
			if tokens[w] {
				matches++
			}
		}
		if matches > maxMatches {
			maxMatches = matches
			best = e.response
		}
	}
	if maxMatches > 0 {
		return best, nil
	}
	return g.rotate(defaultResponses, &g.defaultIdx), nil
}

// rotate cycles through canned replies so repeated greetings or unknown
// questions do not read as a broken loop.
func (g *SimplifiedGenerator) rotate(pool []string, idx *int) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := pool[*idx%len(pool)]
	*idx++
	return out
}

func tokenSet(lower string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		set[t] = true
	}
	return set
}

// containsPhrase matches single words against the token set so "hi"
// does not fire inside "this", and multi-word phrases by substring.
func containsPhrase(tokens map[string]bool, lower, phrase string) bool {
	if strings.Contains(phrase, " ") {
		return strings.Contains(lower, phrase)
	}
	return tokens[phrase]
}
