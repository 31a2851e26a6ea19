// Package allocation implements the deterministic split of a monthly
// budget total across expense categories.
//
// The engine is a pure function over integer cents. A single-category
// scope takes the whole total. When fixed categories are present the
// entire total is divided among them in proportion to their baseline
// weights and every other category gets exactly zero. Otherwise the total
// is spread by base weights, raised to per-category floor shares and
// clamped to cap shares, with the clipped excess redistributed. Candidate
// shares are computed in sub-cent fixed point and quantized to whole cents
// by largest-remainder reconciliation, so the output always sums to the
// input total exactly and identical inputs produce identical output.
package allocation

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/James-hg/MountMadness2026/internal/core"
)

const (
	// scale is the number of sub-cent units per cent. All proportional
	// arithmetic happens on cents*scale values so weight application
	// stays in exact integers.
	scale = 10_000

	// maxTotalCents bounds accepted totals so that every intermediate
	// product (at most totalCents * scale * largest-table-weight) fits
	// in int64.
	maxTotalCents = 10_000_000_000
)

// capPasses bounds the clamp-and-redistribute iteration. Redistribution
// can push another category over its cap, but each pass freezes at least
// one capped category, so the loop settles long before this.
const capPasses = 10

// Category is one allocation target: a category id, its canonical slug
// (which keys the weight tables) and whether the user marked it fixed.
type Category struct {
	ID      uuid.UUID
	Slug    string
	IsFixed bool
}

// ExistingLimit is a prior month allocation row, used by Reallocate to
// decide which categories are preserved and which are recomputed.
type ExistingLimit struct {
	CategoryID     uuid.UUID
	Limit          core.Money
	IsUserModified bool
}

// Allocation is one row of a computed plan.
type Allocation struct {
	CategoryID     uuid.UUID
	Slug           string
	IsFixed        bool
	IsUserModified bool
	Amount         core.Money
}

// Allocate splits total across scope and returns one row per scope entry,
// in scope order, whose amounts sum to total exactly.
//
// Returns core.ErrInvalidTotal when the total is non-positive or beyond
// the supported bound, core.ErrEmptyScope when scope is empty, and
// core.ErrUnresolvableTie when two scope entries share a category id
// (duplicate ids would defeat the deterministic tie-break).
func Allocate(total core.Money, scope []Category) ([]Allocation, error) {
	cents, err := allocateCents(total.Cents, scope)
	if err != nil {
		return nil, err
	}
	plan := make([]Allocation, len(scope))
	for i, c := range scope {
		plan[i] = Allocation{
			CategoryID: c.ID,
			Slug:       c.Slug,
			IsFixed:    c.IsFixed,
			Amount:     core.Money{Cents: cents[c.ID]},
		}
	}
	return plan, nil
}

// Reallocate recomputes a month's plan when a total already has rows.
//
// With forceReset every prior row is discarded and the full algorithm
// runs from scratch. Without it, user-modified rows are preserved verbatim
// as a reserved sub-budget and only the remaining categories are
// recomputed from the remaining total, under the same weight, floor and
// cap rules scoped to that remainder. When the reserved rows already meet
// or exceed the total, the recomputed categories all get zero.
func Reallocate(total core.Money, scope []Category, existing []ExistingLimit, forceReset bool) ([]Allocation, error) {
	if forceReset || len(existing) == 0 {
		return Allocate(total, scope)
	}
	if err := validateScope(total.Cents, scope); err != nil {
		return nil, err
	}

	existingByID := make(map[uuid.UUID]ExistingLimit, len(existing))
	var lockedCents int64
	for _, row := range existing {
		existingByID[row.CategoryID] = row
		if row.IsUserModified {
			lockedCents += row.Limit.Cents
		}
	}

	regenerable := make([]Category, 0, len(scope))
	for _, c := range scope {
		if row, ok := existingByID[c.ID]; ok && row.IsUserModified {
			continue
		}
		regenerable = append(regenerable, c)
	}

	regenerated := make(map[uuid.UUID]int64, len(regenerable))
	if remaining := total.Cents - lockedCents; remaining > 0 && len(regenerable) > 0 {
		var err error
		regenerated, err = allocateCents(remaining, regenerable)
		if err != nil {
			return nil, err
		}
	}

	plan := make([]Allocation, len(scope))
	for i, c := range scope {
		row := Allocation{CategoryID: c.ID, Slug: c.Slug, IsFixed: c.IsFixed}
		if prior, ok := existingByID[c.ID]; ok && prior.IsUserModified {
			row.IsUserModified = true
			row.Amount = prior.Limit
		} else {
			row.Amount = core.Money{Cents: regenerated[c.ID]}
		}
		plan[i] = row
	}
	return plan, nil
}

func validateScope(totalCents int64, scope []Category) error {
	if totalCents <= 0 || totalCents > maxTotalCents {
		return core.ErrInvalidTotal
	}
	if len(scope) == 0 {
		return core.ErrEmptyScope
	}
	seen := make(map[uuid.UUID]struct{}, len(scope))
	for _, c := range scope {
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("duplicate category id %s: %w", c.ID, core.ErrUnresolvableTie)
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}

// allocateCents runs the branch selection on raw cents and returns the
// per-category amounts, keyed by category id.
func allocateCents(totalCents int64, scope []Category) (map[uuid.UUID]int64, error) {
	if err := validateScope(totalCents, scope); err != nil {
		return nil, err
	}

	if len(scope) == 1 {
		return map[uuid.UUID]int64{scope[0].ID: totalCents}, nil
	}

	fixed := make([]Category, 0, len(scope))
	for _, c := range scope {
		if c.IsFixed {
			fixed = append(fixed, c)
		}
	}
	if len(fixed) > 0 {
		return allocateFixed(totalCents, scope, fixed), nil
	}
	return allocateWeighted(totalCents, scope), nil
}

// allocateFixed funds the fixed subset from the entire total, in
// proportion to the baseline table; every non-fixed category in scope
// gets exactly zero and is excluded from remainder distribution.
func allocateFixed(totalCents int64, scope, fixed []Category) map[uuid.UUID]int64 {
	cents := make(map[uuid.UUID]int64, len(scope))
	for _, c := range scope {
		cents[c.ID] = 0
	}

	if totalCents < int64(len(fixed)) {
		for _, c := range tinySelection(totalCents, fixed, baselineWeight) {
			cents[c.ID] = 1
		}
		return cents
	}

	var baseSum int64
	for _, c := range fixed {
		baseSum += baselineWeight(c.Slug)
	}

	totalScaled := totalCents * scale
	shares := make([]scaledShare, len(fixed))
	for i, c := range fixed {
		shares[i] = scaledShare{id: c.ID, scaled: totalScaled * baselineWeight(c.Slug) / baseSum}
	}
	for id, v := range reconcile(totalCents, shares) {
		cents[id] = v
	}
	return cents
}

// allocateWeighted spreads the total across a scope with no fixed
// categories: base weights per slug, raised to floor shares, then capped
// with proportional redistribution of the clipped excess.
func allocateWeighted(totalCents int64, scope []Category) map[uuid.UUID]int64 {
	if totalCents < int64(len(scope)) {
		cents := make(map[uuid.UUID]int64, len(scope))
		for _, c := range scope {
			cents[c.ID] = 0
		}
		for _, c := range tinySelection(totalCents, scope, baseWeight) {
			cents[c.ID] = 1
		}
		return cents
	}

	totalScaled := totalCents * scale

	weights := make([]int64, len(scope))
	var weightSum int64
	for i, c := range scope {
		weights[i] = baseWeight(c.Slug)
		weightSum += weights[i]
	}

	floorBPs := make([]int64, len(scope))
	floors := make([]int64, len(scope))
	var floorSum, floorBPSum int64
	for i, c := range scope {
		bp := floorsBP[c.Slug]
		floorBPs[i] = bp
		floors[i] = totalCents * bp // == totalScaled * bp / 10000
		floorSum += floors[i]
		floorBPSum += bp
	}

	alloc := make([]int64, len(scope))
	if floorSum > totalScaled {
		// Floors alone exceed the budget: shrink them pro rata and give
		// unfloored categories nothing.
		for i := range scope {
			alloc[i] = totalScaled * floorBPs[i] / floorBPSum
		}
	} else {
		remaining := totalScaled - floorSum
		for i := range scope {
			var share int64
			if weightSum > 0 {
				share = remaining * weights[i] / weightSum
			}
			alloc[i] = floors[i] + share
		}
	}

	applyCaps(totalCents, scope, weights, alloc)

	shares := make([]scaledShare, len(scope))
	for i, c := range scope {
		shares[i] = scaledShare{id: c.ID, scaled: alloc[i]}
	}
	return reconcile(totalCents, shares)
}

// applyCaps clamps every over-cap category and hands the clipped excess to
// the still-eligible categories in proportion to their weights. A clamp
// can push a recipient over its own cap, so the pass repeats; each pass
// freezes at least one category at its cap, and a pass that clamps
// nothing ends the loop. Scope order drives every iteration so the result
// is reproducible.
func applyCaps(totalCents int64, scope []Category, weights, alloc []int64) {
	caps := make([]int64, len(scope))
	for i, c := range scope {
		if bp, ok := capsBP[c.Slug]; ok {
			caps[i] = totalCents * bp
		} else {
			caps[i] = -1
		}
	}

	for pass := 0; pass < capPasses; pass++ {
		var overflow int64
		clamped := make([]bool, len(scope))
		for i := range scope {
			if caps[i] >= 0 && alloc[i] > caps[i] {
				overflow += alloc[i] - caps[i]
				alloc[i] = caps[i]
				clamped[i] = true
			}
		}
		if overflow == 0 {
			break
		}

		recipients := make([]int, 0, len(scope))
		for i := range scope {
			if !clamped[i] && (caps[i] < 0 || alloc[i] < caps[i]) {
				recipients = append(recipients, i)
			}
		}
		if len(recipients) == 0 {
			// Every category sits at its cap; the caps cannot absorb the
			// total, so spread the excess everywhere instead of losing it.
			for i := range scope {
				recipients = append(recipients, i)
			}
		}

		var recipientWeight int64
		for _, i := range recipients {
			recipientWeight += weights[i]
		}
		if recipientWeight <= 0 {
			share := overflow / int64(len(recipients))
			for _, i := range recipients {
				alloc[i] += share
			}
			continue
		}
		for _, i := range recipients {
			alloc[i] += overflow * weights[i] / recipientWeight
		}
	}
}

// tinySelection picks which categories receive one cent each when the
// total cannot cover the whole set: highest weight first, ties broken by
// ascending id string.
func tinySelection(slots int64, cats []Category, weight func(string) int64) []Category {
	ranked := make([]Category, len(cats))
	copy(ranked, cats)
	sort.Slice(ranked, func(i, j int) bool {
		wi, wj := weight(ranked[i].Slug), weight(ranked[j].Slug)
		if wi != wj {
			return wi > wj
		}
		return ranked[i].ID.String() < ranked[j].ID.String()
	})
	if slots > int64(len(ranked)) {
		slots = int64(len(ranked))
	}
	return ranked[:slots]
}
