package cmd

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const loginFlow = `{
  "title": "login",
  "steps": [
    {"type": "setViewport", "width": 843, "height": 1041, "deviceScaleFactor": 1, "isMobile": false, "hasTouch": false, "isLandscape": false},
    {"type": "navigate", "url": "https://example.com/login"},
    {"type": "click", "selectors": [["aria/Sign in"], ["#sign-in"]], "offsetX": 10, "offsetY": 5},
    {"type": "keyDown", "key": "Enter"}
  ]
}`

func writeRecording(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConvertCommand_Dry(t *testing.T) {
	dir := t.TempDir()
	file := writeRecording(t, dir, "login.json", loginFlow)
	outDir := filepath.Join(dir, "out")

	out, err := run(t, "convert", "--dry", "-o", outDir, file)
	if err != nil {
		t.Fatal(err)
	}

	var actions []map[string]interface{}
	if err := json.Unmarshal([]byte(out), &actions); err != nil {
		t.Fatalf("stdout is not the action list: %v\n%s", err, out)
	}
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i], _ = a["action"].(string)
	}
	if got := strings.Join(names, ","); got != "set-viewport,goto,click,enter" {
		t.Errorf("actions: got %s", got)
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Error("--dry must not write anything")
	}
}

func TestConvertCommand_WritesFile(t *testing.T) {
	dir := t.TempDir()
	file := writeRecording(t, dir, "login.json", loginFlow)
	outDir := filepath.Join(dir, "out")
	if err := os.Mkdir(outDir, 0o755); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "convert", "-o", outDir, file)
	if err != nil {
		t.Fatal(err)
	}
	if out != "" {
		t.Errorf("nothing should be printed without --print, got %q", out)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "login.owl.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Errorf("written file is not JSON:\n%s", data)
	}
}

func TestConvertCommand_SummaryTable(t *testing.T) {
	dir := t.TempDir()
	file := writeRecording(t, dir, "login.json", loginFlow)
	outDir := filepath.Join(dir, "out")
	if err := os.Mkdir(outDir, 0o755); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "convert", "-o", outDir, "--summary", "--format", "table", file)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "login.json") {
		t.Errorf("summary should list the recording:\n%s", out)
	}
}

func TestConvertCommand_FailureExitsWithError(t *testing.T) {
	dir := t.TempDir()
	good := writeRecording(t, dir, "good.json", loginFlow)
	bad := writeRecording(t, dir, "bad.json", `{"steps": 1}`)

	_, err := run(t, "convert", "--dry", good, bad)
	if !errors.Is(err, errConvertFailed) {
		t.Errorf("err: got %v, want errConvertFailed", err)
	}
}

func TestConvertCommand_RequiresFiles(t *testing.T) {
	if _, err := run(t, "convert"); err == nil {
		t.Error("expected error without files")
	}
}

func TestConvertCommand_EmptyKeyConfigKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	file := writeRecording(t, dir, "keys.json", `{"steps":[{"type":"keyDown","key":"Enter"}]}`)
	conf := writeRecording(t, dir, "owl.yaml", "convert:\n  keys: {}\n")

	out, err := run(t, "convert", "--dry", "-c", conf, file)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"action": "enter"`) {
		t.Errorf("enter should still translate with an empty key table:\n%s", out)
	}
}
