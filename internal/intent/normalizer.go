package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// Action is what a normalized command asks the cart engine to do.
type Action int

const (
	ActionAdd Action = iota
	ActionRemove
	// ActionRemoveAll clears the whole cart, not a single line.
	ActionRemoveAll
)

// Quantity bounds. Anything outside is clamped, not rejected.
const (
	MinQuantity = 1
	MaxQuantity = 100
)

// Command is one normalized (item, quantity, action) triple. Unspecified
// means no usable quantity was given; for removals that reads as "all of
// this item" while additions default to one unit before the command is
// emitted.
type Command struct {
	Name        string
	Quantity    int
	Unspecified bool
	Action      Action
}

var removeAllPhrases = []string{"remove all", "clear all", "delete all", "cancel all"}

var (
	conjunctionRe = regexp.MustCompile(`\band\b`)
	andSplitRe    = regexp.MustCompile(`\s+and\s+`)
	clauseRe      = regexp.MustCompile(`^(?:(?:remove|delete)\s+)?(\d+)?\s*([a-zA-Z\s]+?)\s*$`)
	spaceRe       = regexp.MustCompile(`\s+`)
)

// Colloquial aliases seen in real utterances. Applied only when the target
// is not already present, so "jollof rice" is not expanded twice. Order
// matters: first matching key wins.
var foodAliases = []struct{ key, target string }{
	{"jollof", "jollof rice"},
	{"beans", "porridge beans"},
	{"egg", "fried egg"},
	{"white", "white rice"},
}

// NormalizeFoodName case-folds, collapses whitespace and applies the
// colloquial alias table. The result is what catalog lookup and snapshot
// matching operate on.
func NormalizeFoodName(name string) string {
	n := spaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), " ")
	if n == "" {
		return ""
	}
	for _, a := range foodAliases {
		if strings.Contains(n, a.key) && !strings.Contains(n, a.target) {
			return a.target
		}
	}
	return n
}

// Normalize turns raw intent parameters into an ordered command list.
// Free text (the "any"/"text" fallback fields) wins over the structured
// food-items/number pair when it carries an "and" conjunction; a
// remove-everything phrase short-circuits everything else. Malformed
// quantities degrade to defaults, they never fail the call.
func Normalize(p Params, action Action) []Command {
	free := p.Field("any").String()
	if free == "" {
		free = p.Field("text").String()
	}
	lower := strings.ToLower(free)

	for _, phrase := range removeAllPhrases {
		if strings.Contains(lower, phrase) {
			return []Command{{Action: ActionRemoveAll}}
		}
	}

	if free != "" && conjunctionRe.MatchString(lower) {
		if cmds := parseClauses(lower, action); len(cmds) > 0 {
			return cmds
		}
	}

	names := p.Field("food-items").Strings()
	quantities := p.Field("number").List()

	cmds := make([]Command, 0, len(names))
	for i, raw := range names {
		name := NormalizeFoodName(raw)
		if name == "" {
			continue
		}
		var qv Value
		if i < len(quantities) {
			qv = quantities[i]
		}
		cmds = append(cmds, buildCommand(name, qv, action))
	}
	return cmds
}

// parseClauses splits free text on the "and" conjunction and parses each
// clause as [verb] [quantity] item-name. Clauses that are only a verb are
// dropped.
func parseClauses(text string, action Action) []Command {
	parts := andSplitRe.Split(text, -1)

	cmds := make([]Command, 0, len(parts))
	for _, part := range parts {
		m := clauseRe.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			continue
		}
		qtyStr, rawName := m[1], strings.TrimSpace(m[2])
		switch rawName {
		case "", "remove", "delete", "clear":
			continue
		}
		name := NormalizeFoodName(rawName)
		if name == "" {
			continue
		}

		qv := Value{}
		if qtyStr != "" {
			if n, err := strconv.Atoi(qtyStr); err == nil {
				qv = ValueOf(float64(n))
			}
		}
		cmds = append(cmds, buildCommand(name, qv, action))
	}
	return cmds
}

// buildCommand applies the quantity defaulting rules. The asymmetry is
// deliberate: adding "some" food means one unit, removing "some" food
// without a number means remove it entirely.
func buildCommand(name string, qv Value, action Action) Command {
	n, ok := qv.Int()
	if !ok || n < MinQuantity {
		if action == ActionRemove {
			return Command{Name: name, Unspecified: true, Action: action}
		}
		return Command{Name: name, Quantity: MinQuantity, Action: action}
	}
	if n > MaxQuantity {
		n = MaxQuantity
	}
	return Command{Name: name, Quantity: n, Action: action}
}
