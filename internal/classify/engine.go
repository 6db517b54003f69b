package classify

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"account-discovery/internal/world"
)

// Engine applies an ordered rule set to a world snapshot.
type Engine struct {
	rules []Rule
}

// NewEngine builds an engine over the given rules, or the default four
// classifications when none are given.
func NewEngine(rules ...Rule) *Engine {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Engine{rules: rules}
}

// Run applies every rule in order, each feeding the next an augmented
// snapshot. A rule error aborts the run; the caller owns the fallback
// to the default output.
func (e *Engine) Run(w world.World) (world.World, error) {
	for _, rule := range e.rules {
		next, err := rule.Apply(w)
		if err != nil {
			return w, fmt.Errorf("rule %s: %w", rule.Name, err)
		}
		log.Debug().Str("rule", rule.Name).Msg("rule applied")
		w = next
	}
	return w, nil
}
