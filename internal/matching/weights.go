package matching

// Scoring rubric. Every eligible listing starts at BaseScore; soft criteria
// add bonus points on top, and the bonus sum is capped at MaxBonus, so the
// final score always lands in [BaseScore, BaseScore+MaxBonus].
const (
	BaseScore = 50
	MaxBonus  = 50
)

// Per-criterion bonus weights. Keep these named and central so the rubric can
// be audited and tuned without hunting for literals.
const (
	// Location is worth up to 15: state, LGA, and area each carry 5.
	locationStatePoints = 5
	locationLGAPoints   = 5
	locationAreaPoints  = 5

	pricePoints        = 15
	bedroomPoints      = 10
	bathroomPoints     = 10
	propertyTypePoints = 10
	conditionPoints    = 3
	buildingTypePoints = 2
	featurePoints      = 5
	modeBonusPoints    = 5

	// Mode bonus split: a flat fitness award plus a proportional remainder.
	modeFitPoints        = 2
	modeProportionPoints = 3
)

// Ratio gates: proportional bonuses below these thresholds score nothing.
const (
	featureMatchFloor  = 0.5
	documentMatchFloor = 0.5
)
