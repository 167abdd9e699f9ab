package interpret

import (
	"errors"
	"reflect"
	"testing"

	"github.com/GasiorMateusz/dietplanner/internal/plan"
)

const strictDayPlan = `{"meal_plan": {
  "daily_summary": {"kcal": 1999.7, "proteins": 150, "fats": 65, "carbs": 250},
  "meals": [
    {"name": " Breakfast ", "ingredients": "Oats", "preparation": "Soak.",
     "summary": {"kcal": 499.6, "protein": 30, "fat": 15, "carb": 60}}
  ]
}}`

func extractionError(t *testing.T, err error) *ExtractionError {
	t.Helper()
	var xerr *ExtractionError
	if !errors.As(err, &xerr) {
		t.Fatalf("Expected *ExtractionError, got %T: %v", err, err)
	}
	return xerr
}

func TestParseStrictDay(t *testing.T) {
	t.Run("Valid plan", func(t *testing.T) {
		p, err := ParseStrictDay(strictDayPlan)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if p.DailySummary.Kcal != 2000 {
			t.Errorf("Daily kcal = %d, want rounded 2000", p.DailySummary.Kcal)
		}
		if len(p.Meals) != 1 {
			t.Fatalf("Expected 1 meal, got %d", len(p.Meals))
		}
		if p.Meals[0].Name != "Breakfast" {
			t.Errorf("Name = %q, want trimmed 'Breakfast'", p.Meals[0].Name)
		}
		want := plan.MealSummary{Kcal: 500, P: 30, F: 15, C: 60}
		if p.Meals[0].Summary != want {
			t.Errorf("Meal summary = %+v, want %+v (protein/fat/carb mapped to p/f/c)", p.Meals[0].Summary, want)
		}
	})

	t.Run("Payload embedded in prose", func(t *testing.T) {
		raw := "Here is your updated plan:\n" + strictDayPlan + "\nEnjoy!"
		p, err := ParseStrictDay(raw)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if p.DailySummary.Kcal != 2000 {
			t.Errorf("Daily kcal = %d, want 2000", p.DailySummary.Kcal)
		}
	})

	t.Run("Missing meal_plan key", func(t *testing.T) {
		_, err := ParseStrictDay(`{"something_else": {}}`)
		xerr := extractionError(t, err)
		if xerr.Kind != ErrMissingField || xerr.Path != "meal_plan" {
			t.Errorf("Got %+v, want MissingField(meal_plan)", xerr)
		}
	})

	t.Run("Missing daily_summary reported before missing meals", func(t *testing.T) {
		_, err := ParseStrictDay(`{"meal_plan": {}}`)
		xerr := extractionError(t, err)
		if xerr.Kind != ErrMissingField || xerr.Path != "meal_plan.daily_summary" {
			t.Errorf("Got %+v, want MissingField(meal_plan.daily_summary)", xerr)
		}
	})

	t.Run("Non-positive daily kcal", func(t *testing.T) {
		_, err := ParseStrictDay(`{"meal_plan": {"daily_summary": {"kcal": 0}, "meals": []}}`)
		xerr := extractionError(t, err)
		if xerr.Kind != ErrInvalidNumber || xerr.Path != "daily_summary.kcal" {
			t.Errorf("Got %+v, want InvalidNumber(daily_summary.kcal)", xerr)
		}
	})

	t.Run("Missing meals array", func(t *testing.T) {
		_, err := ParseStrictDay(`{"meal_plan": {"daily_summary": {"kcal": 2000}}}`)
		xerr := extractionError(t, err)
		if xerr.Kind != ErrInvalidType || xerr.Path != "meal_plan.meals" {
			t.Errorf("Got %+v, want InvalidType(meal_plan.meals)", xerr)
		}
	})

	t.Run("Empty meals array", func(t *testing.T) {
		_, err := ParseStrictDay(`{"meal_plan": {"daily_summary": {"kcal": 2000}, "meals": []}}`)
		xerr := extractionError(t, err)
		if xerr.Kind != ErrEmptyArray || xerr.Path != "meal_plan.meals" {
			t.Errorf("Got %+v, want EmptyArray(meal_plan.meals)", xerr)
		}
	})

	t.Run("Empty meal name", func(t *testing.T) {
		raw := `{"meal_plan": {"daily_summary": {"kcal": 2000},
			"meals": [{"name": "  ", "summary": {"kcal": 500, "protein": 1, "fat": 1, "carb": 1}}]}}`
		_, err := ParseStrictDay(raw)
		xerr := extractionError(t, err)
		if xerr.Kind != ErrInvalidType || xerr.Path != "meal.name" {
			t.Errorf("Got %+v, want InvalidType(meal.name)", xerr)
		}
	})

	t.Run("Missing meal summary", func(t *testing.T) {
		raw := `{"meal_plan": {"daily_summary": {"kcal": 2000}, "meals": [{"name": "A"}]}}`
		_, err := ParseStrictDay(raw)
		xerr := extractionError(t, err)
		if xerr.Kind != ErrMissingField || xerr.Path != "meal.summary" {
			t.Errorf("Got %+v, want MissingField(meal.summary)", xerr)
		}
	})

	t.Run("Negative macro names the offending field", func(t *testing.T) {
		raw := `{"meal_plan": {"daily_summary": {"kcal": 2000},
			"meals": [{"name": "A", "summary": {"kcal": 500, "protein": 30, "fat": -1, "carb": 60}}]}}`
		_, err := ParseStrictDay(raw)
		xerr := extractionError(t, err)
		if xerr.Kind != ErrInvalidNumber || xerr.Path != "meal.summary.fat" {
			t.Errorf("Got %+v, want InvalidNumber(meal.summary.fat)", xerr)
		}
	})

	t.Run("Broken JSON is a syntax error", func(t *testing.T) {
		_, err := ParseStrictDay(`Sure! {"meal_plan": {"daily_summary": {,}}}`)
		xerr := extractionError(t, err)
		if xerr.Kind != ErrSyntax {
			t.Errorf("Got kind %q, want %q", xerr.Kind, ErrSyntax)
		}
	})

	t.Run("No object region at all", func(t *testing.T) {
		_, err := ParseStrictDay(`No braces here, just words.`)
		xerr := extractionError(t, err)
		if xerr.Kind != ErrNoStructureFound {
			t.Errorf("Got kind %q, want %q", xerr.Kind, ErrNoStructureFound)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		a, errA := ParseStrictDay(strictDayPlan)
		b, errB := ParseStrictDay(strictDayPlan)
		if errA != nil || errB != nil {
			t.Fatalf("Unexpected errors: %v, %v", errA, errB)
		}
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Repeated parses differ: %+v vs %+v", a, b)
		}
	})
}

func TestParseStrictMulti(t *testing.T) {
	raw := `{"multi_day_plan": {
	  "days": [
	    {"day_number": 2, "name": "Tuesday", "plan_content": {
	      "daily_summary": {"kcal": 1900},
	      "meals": [{"name": "Soup", "summary": {"kcal": 600, "protein": 20, "fat": 10, "carb": 40}}]}},
	    {"day_number": 1, "plan_content": {
	      "daily_summary": {"kcal": 2100},
	      "meals": [{"name": "Eggs", "summary": {"kcal": 450, "protein": 25, "fat": 30, "carb": 5}}]}}
	  ],
	  "summary": {"number_of_days": 2, "average_kcal": 2000, "average_proteins": 150,
	              "average_fats": 65, "average_carbs": 250}
	}}`

	t.Run("Valid plan", func(t *testing.T) {
		mp, err := ParseStrictMulti(raw)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(mp.Days) != 2 {
			t.Fatalf("Expected 2 days, got %d", len(mp.Days))
		}
		if mp.Days[0].DayNumber != 2 || mp.Days[0].Name != "Tuesday" {
			t.Errorf("First day = %+v, want source order preserved", mp.Days[0])
		}
		if mp.Days[1].Plan.Meals[0].Name != "Eggs" {
			t.Errorf("Day 1 meal = %q, want Eggs", mp.Days[1].Plan.Meals[0].Name)
		}
		if mp.Summary.AverageKcal != 2000 {
			t.Errorf("AverageKcal = %d, want 2000", mp.Summary.AverageKcal)
		}
	})

	t.Run("Day content validated with single-day rules", func(t *testing.T) {
		bad := `{"multi_day_plan": {"days": [{"day_number": 1, "plan_content": {
			"daily_summary": {"kcal": 2000}, "meals": []}}]}}`
		_, err := ParseStrictMulti(bad)
		xerr := extractionError(t, err)
		if xerr.Kind != ErrEmptyArray || xerr.Path != "meal_plan.meals" {
			t.Errorf("Got %+v, want EmptyArray(meal_plan.meals)", xerr)
		}
	})

	t.Run("Empty days array", func(t *testing.T) {
		_, err := ParseStrictMulti(`{"multi_day_plan": {"days": []}}`)
		xerr := extractionError(t, err)
		if xerr.Kind != ErrEmptyArray || xerr.Path != "multi_day_plan.days" {
			t.Errorf("Got %+v, want EmptyArray(multi_day_plan.days)", xerr)
		}
	})
}
