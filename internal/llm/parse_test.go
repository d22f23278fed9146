package llm

import "testing"

func TestStripCodeFencesJSONFence(t *testing.T) {
	reply := "Here is the result:\n```json\n{\"type\": \"recipe\"}\n```\nLet me know if you need more."
	got := StripCodeFences(reply)
	if got != `{"type": "recipe"}` {
		t.Fatalf("expected bare object, got %q", got)
	}
}

func TestStripCodeFencesPlainFence(t *testing.T) {
	reply := "```\n{\"pages\": [12]}\n```"
	got := StripCodeFences(reply)
	if got != `{"pages": [12]}` {
		t.Fatalf("expected bare object, got %q", got)
	}
}

func TestStripCodeFencesBareReplyUnchanged(t *testing.T) {
	reply := `{"pages": [12]}`
	if got := StripCodeFences(reply); got != reply {
		t.Fatalf("bare reply should pass through, got %q", got)
	}
}

func TestExtractJSONObjectDirect(t *testing.T) {
	var v struct {
		Type string `json:"type"`
	}
	if err := ExtractJSONObject(`{"type": "chapter"}`, &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Type != "chapter" {
		t.Fatalf("expected chapter, got %q", v.Type)
	}
}

func TestExtractJSONObjectProseWrapped(t *testing.T) {
	reply := `Sure! Based on the page I can see {"type": "recipe", "confidence": "high"} which matches the layout.`
	var v struct {
		Type       string `json:"type"`
		Confidence string `json:"confidence"`
	}
	if err := ExtractJSONObject(reply, &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Type != "recipe" || v.Confidence != "high" {
		t.Fatalf("got %+v", v)
	}
}

func TestExtractJSONObjectNestedBraces(t *testing.T) {
	reply := `{"recipes": [{"name": "Chili {spicy}", "ingredients": ["beans"]}], "has_continuation": false}`
	var v struct {
		Recipes []struct {
			Name string `json:"name"`
		} `json:"recipes"`
	}
	if err := ExtractJSONObject(reply, &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v.Recipes) != 1 || v.Recipes[0].Name != "Chili {spicy}" {
		t.Fatalf("got %+v", v)
	}
}

func TestExtractJSONObjectBracesInsideStrings(t *testing.T) {
	reply := `Note before. {"name": "Mac \"n\" Cheese", "note": "uses } inside"} trailing text`
	var v struct {
		Name string `json:"name"`
		Note string `json:"note"`
	}
	if err := ExtractJSONObject(reply, &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Name != `Mac "n" Cheese` || v.Note != "uses } inside" {
		t.Fatalf("got %+v", v)
	}
}

func TestExtractJSONObjectNoObject(t *testing.T) {
	var v struct{}
	if err := ExtractJSONObject("I could not read the page, sorry.", &v); err == nil {
		t.Fatal("expected an error for a reply with no JSON object")
	}
}

func TestExtractJSONObjectBytesProseWrapped(t *testing.T) {
	reply := `Sure, here you go: {"type": "recipe", "confidence": "high"} hope that helps`
	raw, err := ExtractJSONObjectBytes(reply)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != `{"type": "recipe", "confidence": "high"}` {
		t.Fatalf("got %q", raw)
	}
}

func TestExtractJSONObjectBytesNoObject(t *testing.T) {
	if _, err := ExtractJSONObjectBytes("this page is a photograph"); err == nil {
		t.Fatal("expected an error for a reply with no object")
	}
}
