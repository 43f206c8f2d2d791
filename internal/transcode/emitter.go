package transcode

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mj1618/owl-recorder/internal/action"
)

// writeAction emits one action as a comma-terminated object literal. Every
// option line and the object itself end in a comma; the closing bracket of
// the run is left dangling for the repair pass to clean up.
func writeAction(out *LineWriter, a action.Action) error {
	name, err := encodeValue(a.Name)
	if err != nil {
		return err
	}
	out.AppendLine("{")
	out.AppendLine(fmt.Sprintf(`"action": %s,`, name))
	out.AppendLine(`"options": {`)
	if a.Options != nil {
		for pair := a.Options.Oldest(); pair != nil; pair = pair.Next() {
			key, err := encodeValue(pair.Key)
			if err != nil {
				return err
			}
			value, err := encodeValue(pair.Value)
			if err != nil {
				return fmt.Errorf("option %s: %w", pair.Key, err)
			}
			out.AppendLine(fmt.Sprintf("%s: %s,", key, value))
		}
	}
	out.AppendLine("}")
	out.AppendLine("},")
	return nil
}

// encodeValue renders v as a JSON literal without HTML escaping, so
// selectors like `a > b` stay readable.
func encodeValue(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("json encode: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
