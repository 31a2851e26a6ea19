package allocation

import (
	"sort"

	"github.com/google/uuid"
)

// scaledShare is one category's candidate allocation in scaled sub-cent
// units, before quantization to whole cents.
type scaledShare struct {
	id     uuid.UUID
	scaled int64
}

// reconcile quantizes candidate shares to whole cents so that they sum to
// totalCents exactly. Each share is truncated toward zero first; the
// leftover cents (the remainder may be positive or negative) are then
// applied one cent at a time to categories ranked by the fractional part
// lost in truncation - largest fraction first when handing out surplus
// cents, smallest first when collecting a deficit - with ties broken by
// ascending category id string. A deficit step that would drive a category
// below zero is skipped; any residual that survives the pass is settled on
// the category with the smallest id.
func reconcile(totalCents int64, shares []scaledShare) map[uuid.UUID]int64 {
	cents := make(map[uuid.UUID]int64, len(shares))
	var sum int64
	for _, s := range shares {
		c := s.scaled / scale
		cents[s.id] = c
		sum += c
	}

	diff := totalCents - sum
	if diff == 0 {
		return cents
	}

	if diff > 0 {
		order := rankByFraction(shares, true)
		for i := int64(0); i < diff; i++ {
			cents[order[i%int64(len(order))]]++
		}
	} else {
		order := rankByFraction(shares, false)
		for i := int64(0); i < -diff; i++ {
			id := order[i%int64(len(order))]
			if cents[id] >= 1 {
				cents[id]--
			}
		}
	}

	var check int64
	for _, c := range cents {
		check += c
	}
	if check != totalCents && len(shares) > 0 {
		// Skipped deficit steps can leave the sum off; settle the residual
		// on the smallest-id category so the result is still exact.
		smallest := shares[0].id
		for _, s := range shares[1:] {
			if s.id.String() < smallest.String() {
				smallest = s.id
			}
		}
		cents[smallest] += totalCents - check
	}
	return cents
}

// rankByFraction orders category ids by the fractional cent remainder of
// their scaled share, descending when surplus cents are handed out and
// ascending when a deficit is collected. Equal fractions fall back to
// ascending id string so identical inputs always rank the same way.
func rankByFraction(shares []scaledShare, descending bool) []uuid.UUID {
	ranked := make([]scaledShare, len(shares))
	copy(ranked, shares)
	sort.Slice(ranked, func(i, j int) bool {
		fi, fj := ranked[i].scaled%scale, ranked[j].scaled%scale
		if fi != fj {
			if descending {
				return fi > fj
			}
			return fi < fj
		}
		return ranked[i].id.String() < ranked[j].id.String()
	})
	ids := make([]uuid.UUID, len(ranked))
	for i, s := range ranked {
		ids[i] = s.id
	}
	return ids
}
