package clipper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GasiorMateusz/dietplanner/internal/llm"
)

type MockTextGenerator struct {
	Response    string
	ShouldError bool
}

func (m *MockTextGenerator) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	if m.ShouldError {
		return llm.ContentResponse{}, fmt.Errorf("mock ai error")
	}
	return llm.ContentResponse{Content: m.Response}, nil
}

func TestFetchAndCleanHTML(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		html := `
		<html>
			<head><script>alert('bad');</script></head>
			<body>
				<h1>Tasty Recipe</h1>
				<div class="ads">Buy stuff!</div>
				<p>Mix flour and water.</p>
				<footer>Copyright 2024</footer>
			</body>
		</html>`
		w.Write([]byte(html))
	}))
	defer ts.Close()

	c := NewClipper(&MockTextGenerator{})

	cleanText, err := c.fetchAndCleanHTML(ts.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if strings.Contains(cleanText, "alert('bad')") {
		t.Error("Failed to remove <script> tags")
	}
	if strings.Contains(cleanText, "Buy stuff!") {
		t.Error("Failed to remove .ads class")
	}
	if strings.Contains(cleanText, "Copyright 2024") {
		t.Error("Failed to remove <footer>")
	}
	if !strings.Contains(cleanText, "Mix flour and water.") {
		t.Error("Recipe body text should survive cleaning")
	}
}

func TestClipURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><h1>Overnight Oats</h1><p>Oats, milk.</p></body></html>"))
	}))
	defer ts.Close()

	t.Run("Success", func(t *testing.T) {
		mock := &MockTextGenerator{Response: `{
			"title": "Overnight Oats",
			"ingredients": ["Oats", "Milk"],
			"steps": ["Mix", "Chill overnight"],
			"prep_time": "5 mins",
			"servings": "1"
		}`}
		c := NewClipper(mock)

		recipe, err := c.ClipURL(context.Background(), ts.URL)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if recipe.Title != "Overnight Oats" {
			t.Errorf("Title = %q", recipe.Title)
		}
		if len(recipe.Ingredients) != 2 || len(recipe.Steps) != 2 {
			t.Errorf("Got %d ingredients, %d steps", len(recipe.Ingredients), len(recipe.Steps))
		}

		msg := recipe.AsConversationMessage(ts.URL)
		if !strings.Contains(msg, "Overnight Oats") || !strings.Contains(msg, "- Oats") {
			t.Errorf("Conversation message missing recipe content: %q", msg)
		}
	})

	t.Run("AIError", func(t *testing.T) {
		c := NewClipper(&MockTextGenerator{ShouldError: true})
		if _, err := c.ClipURL(context.Background(), ts.URL); err == nil {
			t.Fatal("Expected an error when AI extraction fails")
		}
	})

	t.Run("BadJSON", func(t *testing.T) {
		c := NewClipper(&MockTextGenerator{Response: "not json"})
		if _, err := c.ClipURL(context.Background(), ts.URL); err == nil {
			t.Fatal("Expected an error for unparsable AI response")
		}
	})
}
