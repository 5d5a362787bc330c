package filters

import (
	"housing_filters/internal/config"
	"housing_filters/internal/housing"
)

// BuildPredicates derives the give-sheet criteria that match a need row.
func BuildPredicates(row housing.NormalizedRow, layout config.Layout) *CriteriaSet {
	set := NewCriteriaSet()

	set.Add(GreaterOrEqualCriterion(layout.GiveGuests, row.NumberOfGuests))

	if c, ok := flagCriterion(layout.GiveKosher, row.Kosher); ok {
		set.Add(c)
	}
	if c, ok := flagCriterion(layout.GivePets, row.Pets); ok {
		set.Add(c)
	}
	// Only a required mamad narrows the candidates.
	if row.MamadRequired == housing.Affirmative {
		set.Add(NotContainsCriterion(layout.GiveMamad, housing.NegativeToken))
	}
	if layout.GiveAvailable >= 0 {
		set.Add(NotContainsCriterion(layout.GiveAvailable, housing.NegativeToken))
	}
	if len(layout.ClosedStatuses) > 0 {
		set.Add(HiddenValuesCriterion(layout.GiveStatus, layout.ClosedStatuses))
	}
	return set
}

// flagCriterion: affirmative keeps every candidate not saying no, negative
// keeps only candidates saying no, unspecified adds nothing.
func flagCriterion(column int, flag housing.Flag) (Criterion, bool) {
	switch flag {
	case housing.Affirmative:
		return NotContainsCriterion(column, housing.NegativeToken), true
	case housing.Negative:
		return EqualsCriterion(column, housing.NegativeToken), true
	default:
		return Criterion{}, false
	}
}
