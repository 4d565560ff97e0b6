package scoring

import (
	"fmt"
	"strings"

	"github.com/readmeabook/readmeabook/internal/indexer/types"
)

// priorityTable is an indexer priority map with its maximum precomputed.
type priorityTable struct {
	weights map[int64]int
	max     int
}

func newPriorityTable(weights map[int64]int) priorityTable {
	t := priorityTable{weights: weights}
	for _, w := range weights {
		if w > t.max {
			t.max = w
		}
	}
	return t
}

// fraction returns the indexer's weight relative to the highest configured weight.
func (t priorityTable) fraction(indexerID *int64, fallback float64) (float64, int, bool) {
	if indexerID == nil {
		return fallback, 0, false
	}
	w, ok := t.weights[*indexerID]
	if !ok {
		return fallback, 0, false
	}
	if w < 0 {
		w = 0
	}
	return float64(w) / float64(t.max), w, true
}

// bonusCalculator applies indexer priority and flag modifiers for one ranking.
type bonusCalculator struct {
	config     ScoringConfig
	priorities priorityTable
	flags      []types.FlagConfig
}

func (s *Scorer) newBonusCalculator(opts Options) *bonusCalculator {
	return &bonusCalculator{
		config:     s.config,
		priorities: newPriorityTable(opts.IndexerPriorities),
		flags:      opts.FlagConfigs,
	}
}

// CalculateBonuses returns the bonus modifiers earned by a candidate with the
// given base score. Modifiers are percentages of the base score; they are
// additive and each one is reported separately.
func (s *Scorer) CalculateBonuses(c *types.Candidate, baseScore float64, opts Options) []types.BonusModifier {
	return s.newBonusCalculator(opts).modifiers(c, baseScore)
}

func (b *bonusCalculator) modifiers(c *types.Candidate, baseScore float64) []types.BonusModifier {
	modifiers := make([]types.BonusModifier, 0, 1+len(b.flags))

	if m, ok := b.priorityModifier(c, baseScore); ok {
		modifiers = append(modifiers, m)
	}
	return append(modifiers, b.flagModifiers(c, baseScore)...)
}

// priorityModifier rewards candidates from preferred indexers. The highest
// configured priority earns the full PriorityBonusCeiling; indexers without a
// configured priority earn DefaultPriorityFraction of it.
func (b *bonusCalculator) priorityModifier(c *types.Candidate, baseScore float64) (types.BonusModifier, bool) {
	if len(b.priorities.weights) == 0 || b.priorities.max <= 0 {
		return types.BonusModifier{}, false
	}

	fraction, weight, configured := b.priorities.fraction(c.IndexerID, b.config.DefaultPriorityFraction)
	value := fraction * b.config.PriorityBonusCeiling

	reason := fmt.Sprintf("Indexer priority %d/%d", weight, b.priorities.max)
	if !configured {
		reason = "Indexer priority not configured"
	}
	return types.BonusModifier{
		Type:   types.BonusIndexerPriority,
		Value:  value,
		Points: baseScore * value,
		Reason: reason,
	}, true
}

// flagModifiers applies each configured flag present on the candidate.
// Flag names compare case-insensitively after trimming whitespace.
func (b *bonusCalculator) flagModifiers(c *types.Candidate, baseScore float64) []types.BonusModifier {
	if len(b.flags) == 0 || len(c.Flags) == 0 {
		return nil
	}

	var modifiers []types.BonusModifier
	for _, cfg := range b.flags {
		name := strings.TrimSpace(cfg.Name)
		if name == "" || !hasFlag(c.Flags, name) {
			continue
		}
		value := cfg.Modifier / 100
		modifiers = append(modifiers, types.BonusModifier{
			Type:   types.BonusIndexerFlag,
			Value:  value,
			Points: baseScore * value,
			Reason: fmt.Sprintf("Flag %q %+g%%", name, cfg.Modifier),
		})
	}
	return modifiers
}

func hasFlag(flags []string, name string) bool {
	for _, f := range flags {
		if strings.EqualFold(strings.TrimSpace(f), name) {
			return true
		}
	}
	return false
}
