package repair

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestStripTrailingCommas(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"after string in object", `{"a": "b",}`, `{"a": "b"}`},
		{"after number in array", `[1, 2,]`, `[1, 2]`},
		{"after true", `[true,]`, `[true]`},
		{"after false", `{"x": false,}`, `{"x": false}`},
		{"after null", `[null,]`, `[null]`},
		{"after object", `[{"a": 1},]`, `[{"a": 1}]`},
		{"after array", `[[1],]`, `[[1]]`},
		{"whitespace before and after", "[1 ,\n  ]", "[1\n  ]"},
		{"nested closers", "[\n{\n\"a\": 1,\n}\n},\n]", "[\n{\n\"a\": 1\n}\n}\n]"},
		{"comma inside string", `["a,]", "b,}",]`, `["a,]", "b,}"]`},
		{"escaped quote inside string", `["say \"hi\",]",]`, `["say \"hi\",]"]`},
		{"escaped backslash before quote", `["dir\\",]`, `["dir\\"]`},
		{"separator commas kept", `{"a": 1, "b": [1, 2]}`, `{"a": 1, "b": [1, 2]}`},
		{"empty", ``, ``},
		{"double comma kept", `[1,,]`, `[1,,]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripTrailingCommas(tt.input); got != tt.want {
				t.Errorf("StripTrailingCommas(%q) = %q; want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripTrailingCommas_Idempotent(t *testing.T) {
	inputs := []string{
		"[\n{\n\"action\": \"goto\",\n\"options\": {\n\"url\": \"https://example.test/\",\n}\n},\n\n]\n",
		`[1,,]`,
		`{"a": [1, {"b": "c,]",},],}`,
		`[ , ]`,
		"[\n{\n\"action\": \"enter\",\n\"options\": {\n}\n},\n]",
	}
	for _, in := range inputs {
		once := StripTrailingCommas(in)
		twice := StripTrailingCommas(once)
		if once != twice {
			t.Errorf("not idempotent for %q:\nonce:  %q\ntwice: %q", in, once, twice)
		}
	}
}

func TestRemoveSourceMap(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"[]\n//# recorderSourceMap=BCBDBEBF\n", "[]\n"},
		{"[]\n", "[]\n"},
		{"[]//# recorderSourceMap=A\n//# recorderSourceMap=B", "[]//# recorderSourceMap=A\n"},
		{`["see //# recorderSourceMap docs"]`, `["see //# recorderSourceMap docs"]`},
		{`["a \"//# recorderSourceMap\" b"]` + "\n//# recorderSourceMap=X", `["a \"//# recorderSourceMap\" b"]` + "\n"},
		{"[]\n//# recorderSourceMap=\"odd\n//# recorderSourceMap=Y", "[]\n//# recorderSourceMap=\"odd\n"},
	}
	for _, tt := range tests {
		if got := RemoveSourceMap(tt.input); got != tt.want {
			t.Errorf("RemoveSourceMap(%q) = %q; want %q", tt.input, got, tt.want)
		}
	}
}

func TestRun_MarkerInsideValue(t *testing.T) {
	raw := "[\n{\n\"action\": \"goto\",\n\"options\": {\n\"url\": \"https://example.test/#//# recorderSourceMap\",\n}\n},\n\n]\n"
	got, err := Run(raw)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(got, `"https://example.test/#//# recorderSourceMap"`) {
		t.Errorf("value was altered:\n%s", got)
	}
}

func TestCanonicalize(t *testing.T) {
	got, err := Canonicalize("[\n{\n\"action\": \"set-viewport\",\n\"options\": {\n\"width\": 843,\n\"height\": 1041\n}\n}\n\n]\n")
	if err != nil {
		t.Fatal(err)
	}
	want := `[
  {
    "action": "set-viewport",
    "options": {
      "width": 843,
      "height": 1041
    }
  }
]`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestCanonicalize_EmptyContainers(t *testing.T) {
	got, err := Canonicalize("[\n{\"action\": \"enter\", \"options\": {\n}}\n]")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `"options": {}`) {
		t.Errorf("empty options should stay inline, got:\n%s", got)
	}

	got, err = Canonicalize("[\n]\n")
	if err != nil {
		t.Fatal(err)
	}
	if got != "[]" {
		t.Errorf("empty array: got %q", got)
	}
}

func TestCanonicalize_Malformed(t *testing.T) {
	for _, in := range []string{"", "[1,]", `{"a": }`, "[\n//# recorderSourceMap\n]"} {
		_, err := Canonicalize(in)
		if !errors.Is(err, ErrMalformedOutput) {
			t.Errorf("Canonicalize(%q): expected ErrMalformedOutput, got %v", in, err)
		}
	}
}

func TestRun(t *testing.T) {
	raw := "[\n{\n\"action\": \"goto\",\n\"options\": {\n\"url\": \"https://example.test/\",\n}\n},\n\n{\n\"action\": \"tab\",\n\"options\": {\n}\n},\n\n]\n//# recorderSourceMap=BCBDB\n"
	got, err := Run(raw)
	if err != nil {
		t.Fatal(err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, got)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(decoded))
	}
	if decoded[0]["action"] != "goto" || decoded[1]["action"] != "tab" {
		t.Errorf("unexpected actions: %v", decoded)
	}
	if strings.Contains(got, "recorderSourceMap") {
		t.Error("source map should be removed")
	}
}
