package typechart

// CoverageReport buckets every defending category by the best multiplier
// any category in the analyzed attacking set achieves against it. Used for
// offense planning by AI and UI hints; the damage pipeline never consults it.
type CoverageReport struct {
	SuperEffective []Category
	Neutral        []Category
	NotVery        []Category
	NoEffect       []Category
}

// Coverage analyzes an attacking category set against every defending
// category under the Normal-condition matrix. Pure and read-only.
//
// Precondition: attacking must be non-empty and contain only valid
// categories; invalid input panics like any undefined lookup.
// Postcondition: every defending category appears in exactly one bucket.
func (c *Chart) Coverage(attacking []Category) CoverageReport {
	if len(attacking) == 0 {
		panic("typechart: coverage analysis of empty attacking set")
	}
	var report CoverageReport
	for _, def := range AllCategories() {
		best := 0.0
		for _, att := range attacking {
			if m := c.Multiplier(att, def); m > best {
				best = m
			}
		}
		switch TierFor(best) {
		case TierSuper:
			report.SuperEffective = append(report.SuperEffective, def)
		case TierNeutral:
			report.Neutral = append(report.Neutral, def)
		case TierResisted:
			report.NotVery = append(report.NotVery, def)
		case TierImmune:
			report.NoEffect = append(report.NoEffect, def)
		}
	}
	return report
}
