package interpret

import (
	"strings"

	"github.com/GasiorMateusz/dietplanner/internal/plan"
)

// Shape says whether a conversation (or a message) is planning one day or
// several. ShapeUnknown is only meaningful as a caller hint.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeSingleDay
	ShapeMultiDay
)

// OutcomeKind tags which extractor produced an Outcome. KindNotFound means
// neither encoding's structural markers were present and the lenient
// fallback preserved the raw text.
type OutcomeKind int

const (
	KindNotFound OutcomeKind = iota
	KindLenient
	KindStrict
)

// Outcome is the routed result of interpreting one raw assistant message.
// Exactly one of Day and Multi is set, matching Shape.
type Outcome struct {
	Kind  OutcomeKind
	Shape Shape
	Day   *plan.DayPlan
	Multi *plan.MultiDayPlan
}

// Route inspects a raw assistant message, picks the matching extractor and
// shape, and runs it. The structural signature decides both choices on its
// own whenever it can; the hint only breaks ties for messages carrying no
// markers at all (e.g. the first turn of a fresh session). Such messages
// route to the lenient fallback rather than failing, since unstructured
// prose is a valid assistant reply. Strict extraction errors propagate as
// *ExtractionError.
func Route(raw string, hint Shape) (Outcome, error) {
	switch {
	case strings.Contains(raw, `"`+keyMultiDay+`"`):
		mp, err := ParseStrictMulti(raw)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Kind: KindStrict, Shape: ShapeMultiDay, Multi: &mp}, nil
	case strings.Contains(raw, `"`+keyMealPlan+`"`):
		dp, err := ParseStrictDay(raw)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Kind: KindStrict, Shape: ShapeSingleDay, Day: &dp}, nil
	case strings.Contains(raw, "<"+tagMultiDay+">"):
		mp := ParseTaggedMulti(raw)
		return Outcome{Kind: KindLenient, Shape: ShapeMultiDay, Multi: &mp}, nil
	case strings.Contains(raw, "<"+tagDailySummary+">"), strings.Contains(raw, "<"+tagMeals+">"):
		dp := ParseTaggedDay(raw)
		return Outcome{Kind: KindLenient, Shape: ShapeSingleDay, Day: &dp}, nil
	}

	shape := hint
	if shape == ShapeUnknown {
		shape = ShapeSingleDay
	}
	dp := ParseTaggedDay(raw)
	return Outcome{Kind: KindNotFound, Shape: shape, Day: &dp}, nil
}

// IsUnstructured reports whether dp carries the lenient fallback signal
// for raw: a single synthetic meal with an empty name, no ingredients, no
// parsed totals, and the whole trimmed input as its preparation. A nameless
// meal whose preparation was genuinely parsed out of tags does not match,
// since its preparation is narrower than the input.
func IsUnstructured(dp plan.DayPlan, raw string) bool {
	if len(dp.Meals) != 1 {
		return false
	}
	m := dp.Meals[0]
	return m.Name == "" && m.Ingredients == "" &&
		m.Preparation == strings.TrimSpace(raw) &&
		m.Summary == (plan.MealSummary{}) &&
		dp.DailySummary == (plan.DailySummary{})
}
