package grade

// Weights holds the tunable point values behind every rubric section,
// selectable at the CLI via `--weights` (spec.md Design Note 3's "one
// shared engine with two façades" applied to two independently-tunable
// point tables rather than one).
type Weights struct {
	StateDescription float64
	StateLabel       float64
	StateBinary      float64
	InputMinimum     float64
	OutputMinimum    float64

	PlacedStates  float64
	OutputValue   float64
	ArrowCoverage float64

	TableStructure float64
	TableMatch     float64

	KMapCompleteness float64
	KMapExpression   float64
}

// WeightsRubricV2 is grounded directly on grade_fsm.py's module-level
// WEIGHT constants.
var WeightsRubricV2 = Weights{
	StateDescription: 4.0,
	StateLabel:       4.0,
	StateBinary:      6.0,
	InputMinimum:     4.0,
	OutputMinimum:    4.0,

	PlacedStates:  10.0,
	OutputValue:   8.0,
	ArrowCoverage: 14.0,

	TableStructure: 12.0,
	TableMatch:     16.0,

	KMapCompleteness: 2.0,
	KMapExpression:   2.0,
}

// WeightsAutograder approximates the sibling grading script's table: its
// own WEIGHT constant block did not survive in the retrieved sources
// so these values are reconstructed from that script's
// section composition — heavier on arrow coverage and table match,
// lighter on descriptive bookkeeping — rather than copied verbatim.
var WeightsAutograder = Weights{
	StateDescription: 2.0,
	StateLabel:       2.0,
	StateBinary:      6.0,
	InputMinimum:     4.0,
	OutputMinimum:    4.0,

	PlacedStates:  8.0,
	OutputValue:   10.0,
	ArrowCoverage: 18.0,

	TableStructure: 10.0,
	TableMatch:     20.0,

	KMapCompleteness: 3.0,
	KMapExpression:   3.0,
}
