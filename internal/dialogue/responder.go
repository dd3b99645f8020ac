// Package dialogue maps free-text chat input to a canned reply and a set of
// recommended products using ordered keyword rules.
package dialogue

import (
	"fmt"
	"strings"

	"github.com/fairyhunter13/stylist-storefront/internal/catalog"
	"github.com/fairyhunter13/stylist-storefront/internal/model"
)

// DefaultLimit caps recommendations for rules that cap their results.
const DefaultLimit = 4

// Rule names reported in Reply.Rule when no keyword rule matched.
const (
	RuleSearch = "search"
	RuleHelp   = "help"
)

// Reply is the assistant's answer to one line of input.
type Reply struct {
	Text     string
	Products []model.Product
	Rule     string
}

// Rule triggers when the normalized input contains any of its keywords.
type Rule struct {
	Name     string
	Keywords []string
	Respond  func(r *Responder, input string) Reply
}

// Matches reports whether the normalized input triggers the rule.
func (rule Rule) Matches(normalized string) bool {
	for _, k := range rule.Keywords {
		if strings.Contains(normalized, k) {
			return true
		}
	}
	return false
}

// Responder evaluates rules in order; the first match wins.
type Responder struct {
	catalog *catalog.Store
	rules   []Rule
	limit   int
}

// Option customizes a Responder.
type Option func(*Responder)

// WithLimit sets the recommendation cap.
func WithLimit(n int) Option {
	return func(r *Responder) {
		if n > 0 {
			r.limit = n
		}
	}
}

// WithRules replaces the rule list.
func WithRules(rules []Rule) Option {
	return func(r *Responder) { r.rules = rules }
}

// NewResponder builds a Responder over the catalog using DefaultRules.
func NewResponder(c *catalog.Store, opts ...Option) *Responder {
	r := &Responder{catalog: c, rules: DefaultRules, limit: DefaultLimit}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Rules returns the rules in evaluation order.
func (r *Responder) Rules() []Rule { return r.rules }

// Respond produces a reply for input. It never fails: input that matches no
// rule falls back to a catalog search and then to a help prompt.
func (r *Responder) Respond(input string) Reply {
	normalized := catalog.Normalize(input)
	for _, rule := range r.rules {
		if rule.Matches(normalized) {
			reply := rule.Respond(r, input)
			reply.Rule = rule.Name
			return reply
		}
	}

	results := r.catalog.Search(input)
	if len(results) > 0 {
		plural := ""
		if len(results) > 1 {
			plural = "s"
		}
		return Reply{
			Text:     fmt.Sprintf(searchText, len(results), plural),
			Products: r.capped(results),
			Rule:     RuleSearch,
		}
	}
	return Reply{Text: helpText, Rule: RuleHelp}
}

func (r *Responder) capped(ps []model.Product) []model.Product {
	if len(ps) > r.limit {
		return ps[:r.limit]
	}
	return ps
}

// pick resolves ids against the catalog, dropping ids it does not hold.
func (r *Responder) pick(ids ...int64) []model.Product {
	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.catalog.ByID(id); ok {
			out = append(out, p)
		}
	}
	return out
}
