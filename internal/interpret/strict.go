package interpret

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/GasiorMateusz/dietplanner/internal/plan"
)

// Top-level keys of the structured-object encoding.
const (
	keyMealPlan = "meal_plan"
	keyMultiDay = "multi_day_plan"
)

// extractObject locates the structured payload in raw: the whole message if
// it parses as a JSON object, otherwise the first balanced brace region
// embedded in surrounding prose.
func extractObject(raw string) (map[string]any, *ExtractionError) {
	trimmed := strings.TrimSpace(raw)
	var obj map[string]any
	if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
		return obj, nil
	}
	candidate, ok := firstBalancedObject(trimmed)
	if !ok {
		return nil, &ExtractionError{Kind: ErrNoStructureFound, Reason: "no object-shaped payload located"}
	}
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return nil, &ExtractionError{Kind: ErrSyntax, Reason: err.Error()}
	}
	return obj, nil
}

// firstBalancedObject returns the first brace-balanced region of text,
// tracking string literals and escapes so braces inside strings do not
// count toward nesting depth.
func firstBalancedObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// ParseStrictDay extracts and validates a single-day plan from the
// structured-object encoding. Validation is fail-fast: the first violated
// rule produces the call's one *ExtractionError.
func ParseStrictDay(raw string) (plan.DayPlan, error) {
	payload, xerr := extractObject(raw)
	if xerr != nil {
		return plan.DayPlan{}, xerr
	}
	body, present := payload[keyMealPlan]
	if !present {
		return plan.DayPlan{}, missingField(keyMealPlan)
	}
	obj, ok := body.(map[string]any)
	if !ok {
		return plan.DayPlan{}, invalidType(keyMealPlan, "must be an object")
	}
	dp, verr := validateDayBody(obj)
	if verr != nil {
		return plan.DayPlan{}, verr
	}
	return dp, nil
}

// dayBodyRules are the plan-level schema checks, run in a fixed order with
// the first failure winning. The per-meal checks run afterwards, also in
// order, meal by meal.
var dayBodyRules = []func(body map[string]any) *ExtractionError{
	func(body map[string]any) *ExtractionError {
		if _, present := body["daily_summary"]; !present {
			return missingField("meal_plan.daily_summary")
		}
		if _, ok := body["daily_summary"].(map[string]any); !ok {
			return invalidType("meal_plan.daily_summary", "must be an object")
		}
		return nil
	},
	func(body map[string]any) *ExtractionError {
		ds := body["daily_summary"].(map[string]any)
		if f, ok := ds["kcal"].(float64); !ok || f <= 0 {
			return invalidNumber("daily_summary.kcal", "must be a positive number")
		}
		return nil
	},
	func(body map[string]any) *ExtractionError {
		if _, ok := body["meals"].([]any); !ok {
			return invalidType("meal_plan.meals", "must be an array")
		}
		return nil
	},
	func(body map[string]any) *ExtractionError {
		if len(body["meals"].([]any)) == 0 {
			return emptyArray("meal_plan.meals")
		}
		return nil
	},
}

var mealRules = []func(meal map[string]any) *ExtractionError{
	func(meal map[string]any) *ExtractionError {
		if s, ok := meal["name"].(string); !ok || strings.TrimSpace(s) == "" {
			return invalidType("meal.name", "must be a non-empty string")
		}
		return nil
	},
	func(meal map[string]any) *ExtractionError {
		if _, present := meal["summary"]; !present {
			return missingField("meal.summary")
		}
		if _, ok := meal["summary"].(map[string]any); !ok {
			return invalidType("meal.summary", "must be an object")
		}
		return nil
	},
	func(meal map[string]any) *ExtractionError {
		summary := meal["summary"].(map[string]any)
		if f, ok := summary["kcal"].(float64); !ok || f <= 0 {
			return invalidNumber("meal.summary.kcal", "must be a positive number")
		}
		return nil
	},
	func(meal map[string]any) *ExtractionError {
		summary := meal["summary"].(map[string]any)
		for _, field := range []string{"protein", "fat", "carb"} {
			if f, ok := summary[field].(float64); !ok || f < 0 {
				return invalidNumber("meal.summary."+field, "must be a non-negative number")
			}
		}
		return nil
	},
}

// validateDayBody applies the schema to the body of a day plan (the value of
// "meal_plan", or of a multi-day entry's "plan_content") and builds the
// typed result: numbers rounded half away from zero, strings trimmed, and
// the wire names protein/fat/carb mapped onto p/f/c.
func validateDayBody(body map[string]any) (plan.DayPlan, *ExtractionError) {
	for _, rule := range dayBodyRules {
		if err := rule(body); err != nil {
			return plan.DayPlan{}, err
		}
	}
	for _, raw := range body["meals"].([]any) {
		meal, ok := raw.(map[string]any)
		if !ok {
			return plan.DayPlan{}, invalidType("meal", "must be an object")
		}
		for _, rule := range mealRules {
			if err := rule(meal); err != nil {
				return plan.DayPlan{}, err
			}
		}
	}

	ds := body["daily_summary"].(map[string]any)
	out := plan.DayPlan{
		DailySummary: plan.DailySummary{
			Kcal:     roundField(ds, "kcal"),
			Proteins: roundField(ds, "proteins"),
			Fats:     roundField(ds, "fats"),
			Carbs:    roundField(ds, "carbs"),
		},
	}
	for _, raw := range body["meals"].([]any) {
		meal := raw.(map[string]any)
		summary := meal["summary"].(map[string]any)
		out.Meals = append(out.Meals, plan.Meal{
			Name:        strings.TrimSpace(stringField(meal, "name")),
			Ingredients: strings.TrimSpace(stringField(meal, "ingredients")),
			Preparation: strings.TrimSpace(stringField(meal, "preparation")),
			Summary: plan.MealSummary{
				Kcal: roundField(summary, "kcal"),
				P:    roundField(summary, "protein"),
				F:    roundField(summary, "fat"),
				C:    roundField(summary, "carb"),
			},
		})
	}
	return out, nil
}

// ParseStrictMulti extracts and validates a multi-day plan from the
// structured-object encoding. Each entry's plan_content is validated with
// the single-day rules; days are returned in source order.
func ParseStrictMulti(raw string) (plan.MultiDayPlan, error) {
	payload, xerr := extractObject(raw)
	if xerr != nil {
		return plan.MultiDayPlan{}, xerr
	}
	body, present := payload[keyMultiDay]
	if !present {
		return plan.MultiDayPlan{}, missingField(keyMultiDay)
	}
	obj, ok := body.(map[string]any)
	if !ok {
		return plan.MultiDayPlan{}, invalidType(keyMultiDay, "must be an object")
	}
	days, ok := obj["days"].([]any)
	if !ok {
		return plan.MultiDayPlan{}, invalidType("multi_day_plan.days", "must be an array")
	}
	if len(days) == 0 {
		return plan.MultiDayPlan{}, emptyArray("multi_day_plan.days")
	}

	var out plan.MultiDayPlan
	for _, entry := range days {
		day, ok := entry.(map[string]any)
		if !ok {
			return plan.MultiDayPlan{}, invalidType("day", "must be an object")
		}
		number, ok := day["day_number"].(float64)
		if !ok {
			return plan.MultiDayPlan{}, invalidNumber("day.day_number", "must be a number")
		}
		content, ok := day["plan_content"].(map[string]any)
		if !ok {
			return plan.MultiDayPlan{}, missingField("day.plan_content")
		}
		dayPlan, verr := validateDayBody(content)
		if verr != nil {
			return plan.MultiDayPlan{}, verr
		}
		out.Days = append(out.Days, plan.Day{
			DayNumber: int(math.Round(number)),
			Name:      strings.TrimSpace(stringField(day, "name")),
			Plan:      dayPlan,
		})
	}
	if summary, ok := obj["summary"].(map[string]any); ok {
		out.Summary = plan.MultiDaySummary{
			NumberOfDays:    roundField(summary, "number_of_days"),
			AverageKcal:     roundField(summary, "average_kcal"),
			AverageProteins: roundField(summary, "average_proteins"),
			AverageFats:     roundField(summary, "average_fats"),
			AverageCarbs:    roundField(summary, "average_carbs"),
		}
	}
	return out, nil
}

// roundField reads an optional numeric field, rounding half away from zero.
// Anything that is not a number reads as 0.
func roundField(obj map[string]any, key string) int {
	if f, ok := obj[key].(float64); ok {
		return int(math.Round(f))
	}
	return 0
}

func stringField(obj map[string]any, key string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}
