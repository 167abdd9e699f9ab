package interpret

import (
	"regexp"
	"strings"

	"github.com/GasiorMateusz/dietplanner/internal/plan"
)

// Outer block markers of the legacy tag-delimited encoding. These match
// case-sensitively by literal substring search; a case mismatch means the
// block is absent.
const (
	tagDailySummary = "daily_summary"
	tagMeals        = "meals"
	tagMeal         = "meal"
	tagMultiDay     = "multi_day_plan"
	tagDay          = "day"
	tagPlanSummary  = "plan_summary"
)

// Inner field markers match case-insensitively within an already-bounded
// outer span, so no global regex ever runs over the whole message.
var innerRE = map[string]*regexp.Regexp{}

func init() {
	for _, name := range []string{
		"kcal", "proteins", "fats", "carbs",
		"name", "ingredients", "preparation", "summary",
		"protein", "fat", "carb",
		"day_number", "day_name",
		"number_of_days", "average_kcal", "average_proteins", "average_fats", "average_carbs",
	} {
		innerRE[name] = regexp.MustCompile(`(?is)<` + name + `>(.*?)</` + name + `>`)
	}
}

// findBlock locates <name>...</name> by literal, case-sensitive search.
// An unclosed block extends to the end of the text. The second return value
// reports whether the opening marker was found at all.
func findBlock(text, name string) (string, bool) {
	open := "<" + name + ">"
	start := strings.Index(text, open)
	if start < 0 {
		return "", false
	}
	rest := text[start+len(open):]
	if end := strings.Index(rest, "</"+name+">"); end >= 0 {
		return rest[:end], true
	}
	return rest, true
}

// scanBlocks collects the bodies of every <name> block in the region, in
// source order. An unclosed block runs to the next opening marker or the end
// of the region.
func scanBlocks(region, name string) []string {
	open := "<" + name + ">"
	closing := "</" + name + ">"
	var bodies []string
	rest := region
	for {
		start := strings.Index(rest, open)
		if start < 0 {
			return bodies
		}
		rest = rest[start+len(open):]
		end := strings.Index(rest, closing)
		next := strings.Index(rest, open)
		switch {
		case end >= 0 && (next < 0 || end < next):
			bodies = append(bodies, rest[:end])
			rest = rest[end+len(closing):]
		case next >= 0:
			bodies = append(bodies, rest[:next])
			rest = rest[next:]
		default:
			bodies = append(bodies, rest)
			return bodies
		}
	}
}

// innerField returns the content of the first <name>...</name> pair inside
// span, matched case-insensitively. Missing or unclosed fields read as absent.
func innerField(span, name string) (string, bool) {
	m := innerRE[name].FindStringSubmatch(span)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ParseTaggedDay extracts a single-day plan from the legacy tag-delimited
// encoding. It never fails: every missing or malformed element degrades to a
// documented default, and input with no meal blocks at all yields one
// synthetic meal carrying the full raw text in its preparation field so the
// original message is never discarded.
func ParseTaggedDay(raw string) plan.DayPlan {
	var p plan.DayPlan
	if span, ok := findBlock(raw, tagDailySummary); ok {
		p.DailySummary = parseDailySummary(span)
	}
	if region, ok := findBlock(raw, tagMeals); ok {
		for _, body := range scanBlocks(region, tagMeal) {
			p.Meals = append(p.Meals, parseMeal(body))
		}
	}
	if len(p.Meals) == 0 {
		p.Meals = []plan.Meal{fallbackMeal(raw)}
	}
	return p
}

func parseDailySummary(span string) plan.DailySummary {
	kcal, _ := innerField(span, "kcal")
	proteins, _ := innerField(span, "proteins")
	fats, _ := innerField(span, "fats")
	carbs, _ := innerField(span, "carbs")
	return plan.DailySummary{
		Kcal:     CoerceNumber(kcal),
		Proteins: CoerceNumber(proteins),
		Fats:     CoerceNumber(fats),
		Carbs:    CoerceNumber(carbs),
	}
}

func parseMeal(body string) plan.Meal {
	name, _ := innerField(body, "name")
	ingredients, _ := innerField(body, "ingredients")
	preparation, _ := innerField(body, "preparation")
	m := plan.Meal{
		Name:        strings.TrimSpace(name),
		Ingredients: strings.TrimSpace(ingredients),
		Preparation: strings.TrimSpace(preparation),
	}
	if span, ok := innerField(body, "summary"); ok {
		kcal, _ := innerField(span, "kcal")
		protein, _ := innerField(span, "protein")
		fat, _ := innerField(span, "fat")
		carb, _ := innerField(span, "carb")
		m.Summary = plan.MealSummary{
			Kcal: CoerceNumber(kcal),
			P:    CoerceNumber(protein),
			F:    CoerceNumber(fat),
			C:    CoerceNumber(carb),
		}
	}
	return m
}

func fallbackMeal(raw string) plan.Meal {
	return plan.Meal{Preparation: strings.TrimSpace(raw)}
}

// ParseTaggedMulti extracts a multi-day plan from the legacy encoding:
// a <multi_day_plan> container holding repeated <day> blocks and an optional
// <plan_summary> block. Day fragments are parsed with the single-day logic
// and returned in source order; deduplication and sorting are the resolver's
// job. Like all lenient parsing it never fails.
func ParseTaggedMulti(raw string) plan.MultiDayPlan {
	var mp plan.MultiDayPlan
	region, ok := findBlock(raw, tagMultiDay)
	if !ok {
		region = raw
	}
	for _, body := range scanBlocks(region, tagDay) {
		number, _ := innerField(body, "day_number")
		name, _ := innerField(body, "day_name")
		mp.Days = append(mp.Days, plan.Day{
			DayNumber: CoerceNumber(number),
			Name:      strings.TrimSpace(name),
			Plan:      ParseTaggedDay(body),
		})
	}
	if span, ok := findBlock(region, tagPlanSummary); ok {
		mp.Summary = parsePlanSummary(span)
	}
	return mp
}

func parsePlanSummary(span string) plan.MultiDaySummary {
	numberOfDays, _ := innerField(span, "number_of_days")
	kcal, _ := innerField(span, "average_kcal")
	proteins, _ := innerField(span, "average_proteins")
	fats, _ := innerField(span, "average_fats")
	carbs, _ := innerField(span, "average_carbs")
	return plan.MultiDaySummary{
		NumberOfDays:    CoerceNumber(numberOfDays),
		AverageKcal:     CoerceNumber(kcal),
		AverageProteins: CoerceNumber(proteins),
		AverageFats:     CoerceNumber(fats),
		AverageCarbs:    CoerceNumber(carbs),
	}
}
