package interpret

import "testing"

func TestExtractCommentary(t *testing.T) {
	t.Run("Legacy tag preserves internal newlines", func(t *testing.T) {
		got, ok := ExtractCommentary("<comments>Line 1\nLine 2</comments>")
		if !ok {
			t.Fatal("Expected commentary to be found")
		}
		if got != "Line 1\nLine 2" {
			t.Errorf("Got %q, want %q", got, "Line 1\nLine 2")
		}
	})

	t.Run("Legacy tag is case-insensitive", func(t *testing.T) {
		got, ok := ExtractCommentary("<COMMENTS>Noted.</COMMENTS>")
		if !ok || got != "Noted." {
			t.Errorf("Got (%q, %v), want (\"Noted.\", true)", got, ok)
		}
	})

	t.Run("Structured key", func(t *testing.T) {
		got, ok := ExtractCommentary(`{"meal_plan": {}, "comments": " I lowered the carbs. "}`)
		if !ok || got != "I lowered the carbs." {
			t.Errorf("Got (%q, %v), want trimmed comment", got, ok)
		}
	})

	t.Run("Legacy tag wins when both encodings appear", func(t *testing.T) {
		raw := "<comments>from the tag</comments>\n" + `{"comments": "from the object"}`
		got, ok := ExtractCommentary(raw)
		if !ok || got != "from the tag" {
			t.Errorf("Got (%q, %v), want legacy priority", got, ok)
		}
	})

	t.Run("Present but empty yields empty string", func(t *testing.T) {
		got, ok := ExtractCommentary("<comments></comments>")
		if !ok || got != "" {
			t.Errorf("Got (%q, %v), want (\"\", true)", got, ok)
		}
	})

	t.Run("Absent yields not-found", func(t *testing.T) {
		if _, ok := ExtractCommentary("no commentary anywhere"); ok {
			t.Error("Expected ok=false for absent commentary")
		}
	})
}

func TestSanitizeForDisplay(t *testing.T) {
	t.Run("Payload-only message falls back", func(t *testing.T) {
		if got := SanitizeForDisplay(strictDayPlan); got != SanitizeFallback {
			t.Errorf("Got %q, want %q", got, SanitizeFallback)
		}
	})

	t.Run("Legacy payload removed, commentary unwrapped", func(t *testing.T) {
		raw := "Here you go!\n" + taggedTwoMealPlan + "\n<comments>Eat slowly.</comments>"
		got := SanitizeForDisplay(raw)
		// Removing the two blocks leaves two blank lines, below the
		// three-blank-line collapse threshold.
		if got != "Here you go!\n\n\nEat slowly." {
			t.Errorf("Got %q", got)
		}
	})

	t.Run("Prose around embedded object survives", func(t *testing.T) {
		raw := "Before.\n\n\n\n" + strictDayPlan + "\nAfter."
		got := SanitizeForDisplay(raw)
		if got != "Before.\n\nAfter." {
			t.Errorf("Got %q", got)
		}
	})

	t.Run("Plain prose is untouched apart from trimming", func(t *testing.T) {
		got := SanitizeForDisplay("  What would you like to change?  ")
		if got != "What would you like to change?" {
			t.Errorf("Got %q", got)
		}
	})

	t.Run("Empty legacy payload still falls back", func(t *testing.T) {
		if got := SanitizeForDisplay("<meals></meals>"); got != SanitizeFallback {
			t.Errorf("Got %q, want %q", got, SanitizeFallback)
		}
	})
}
