package interpret

import (
	"testing"
)

func TestRoute(t *testing.T) {
	t.Run("Strict single-day signature", func(t *testing.T) {
		out, err := Route(strictDayPlan, ShapeUnknown)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if out.Kind != KindStrict || out.Shape != ShapeSingleDay || out.Day == nil {
			t.Errorf("Outcome = %+v, want strict single-day", out)
		}
	})

	t.Run("Legacy single-day signature", func(t *testing.T) {
		out, err := Route(taggedTwoMealPlan, ShapeUnknown)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if out.Kind != KindLenient || out.Shape != ShapeSingleDay || out.Day == nil {
			t.Errorf("Outcome = %+v, want lenient single-day", out)
		}
	})

	t.Run("Structural multi-day signature wins over single-day hint", func(t *testing.T) {
		raw := `<multi_day_plan><day><day_number>1</day_number><meals><meal><name>A</name></meal></meals></day></multi_day_plan>`
		out, err := Route(raw, ShapeSingleDay)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if out.Shape != ShapeMultiDay || out.Multi == nil {
			t.Errorf("Outcome = %+v, want multi-day", out)
		}
	})

	t.Run("No markers routes to lenient fallback with hinted shape", func(t *testing.T) {
		out, err := Route("Hello! Tell me about your diet.", ShapeMultiDay)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if out.Kind != KindNotFound {
			t.Errorf("Kind = %v, want KindNotFound", out.Kind)
		}
		if out.Shape != ShapeMultiDay {
			t.Errorf("Shape = %v, want hint to break the tie", out.Shape)
		}
		if out.Day == nil || !IsUnstructured(*out.Day, "Hello! Tell me about your diet.") {
			t.Errorf("Expected fallback day plan carrying the raw text, got %+v", out.Day)
		}
	})

	t.Run("Strict error propagates", func(t *testing.T) {
		_, err := Route(`{"meal_plan": {}}`, ShapeUnknown)
		xerr := extractionError(t, err)
		if xerr.Kind != ErrMissingField {
			t.Errorf("Got kind %q, want %q", xerr.Kind, ErrMissingField)
		}
	})
}

func TestIsUnstructured(t *testing.T) {
	t.Run("Fallback plan", func(t *testing.T) {
		if !IsUnstructured(ParseTaggedDay("just prose"), "just prose") {
			t.Error("Fallback plan should register as unstructured")
		}
	})

	t.Run("Parsed plan", func(t *testing.T) {
		if IsUnstructured(ParseTaggedDay(taggedTwoMealPlan), taggedTwoMealPlan) {
			t.Error("A parsed plan should not register as unstructured")
		}
	})

	t.Run("Nameless meal with only a preparation is structured", func(t *testing.T) {
		raw := "<meals><meal><preparation>Grill chicken</preparation></meal></meals>"
		dp := ParseTaggedDay(raw)
		if len(dp.Meals) != 1 || dp.Meals[0].Preparation != "Grill chicken" {
			t.Fatalf("Parsed = %+v", dp)
		}
		if IsUnstructured(dp, raw) {
			t.Error("A meal parsed out of tags should not register as unstructured")
		}
	})
}
