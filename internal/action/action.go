// Package action defines the Owloops action records the converter emits.
package action

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Names of the Owloops actions the converter produces.
const (
	Click       = "click"
	Input       = "input"
	Goto        = "goto"
	SetViewport = "set-viewport"
	Wait        = "wait"
)

// Options is an insertion-ordered set of action options.
type Options = orderedmap.OrderedMap[string, any]

// Action is one Owloops instruction.
type Action struct {
	Name    string
	Options *Options
}

// New returns an action with no options.
func New(name string) Action {
	return Action{Name: name, Options: orderedmap.New[string, any]()}
}

// Set adds or replaces an option, keeping the position of an existing key.
func (a Action) Set(key string, value any) Action {
	a.Options.Set(key, value)
	return a
}

// SetIf adds the option only when ok is true.
func (a Action) SetIf(ok bool, key string, value any) Action {
	if ok {
		a.Options.Set(key, value)
	}
	return a
}

// SetString adds the option only when value is non-empty.
func (a Action) SetString(key, value string) Action {
	return a.SetIf(value != "", key, value)
}

// Get returns the value of an option.
func (a Action) Get(key string) (any, bool) {
	if a.Options == nil {
		return nil, false
	}
	return a.Options.Get(key)
}

type wireAction struct {
	Action  string          `json:"action"`
	Options json.RawMessage `json:"options"`
}

// UnmarshalJSON reads an emitted {"action": ..., "options": {...}} record,
// preserving option order.
func (a *Action) UnmarshalJSON(data []byte) error {
	var wire wireAction
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	opts := orderedmap.New[string, any]()
	if len(wire.Options) > 0 {
		if err := json.Unmarshal(wire.Options, opts); err != nil {
			return fmt.Errorf("action %s options: %w", wire.Action, err)
		}
	}
	a.Name = wire.Action
	a.Options = opts
	return nil
}
