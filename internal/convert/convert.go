// Package convert runs the whole pipeline for recordings: decode, transcode
// to Owloops actions, repair the emitted text, and export the result.
package convert

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mj1618/owl-recorder/internal/action"
	"github.com/mj1618/owl-recorder/internal/observability"
	"github.com/mj1618/owl-recorder/internal/recording"
	"github.com/mj1618/owl-recorder/internal/repair"
	"github.com/mj1618/owl-recorder/internal/transcode"
)

// NoRecordingsMessage is logged when there is nothing to convert.
const NoRecordingsMessage = "No recordings found. Please create and upload one before trying again."

// Options tune a single conversion.
type Options struct {
	// SelectorAttribute, when set, replaces the recording's own hint.
	SelectorAttribute string
	// Keys is the supported-key table; nil means transcode.DefaultKeymap.
	Keys transcode.Keymap
	// Logger receives informational messages and forwarded warnings.
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Result describes one converted recording.
type Result struct {
	Source    string                  `yaml:"source,omitempty"     json:"source,omitempty"`
	Title     string                  `yaml:"title,omitempty"      json:"title,omitempty"`
	Steps     int                     `yaml:"steps"                json:"steps"`
	Actions   int                     `yaml:"actions"              json:"actions"`
	Empty     bool                    `yaml:"empty,omitempty"      json:"empty,omitempty"`
	WrittenTo string                  `yaml:"written_to,omitempty" json:"written_to,omitempty"`
	Warnings  []observability.Warning `yaml:"warnings,omitempty"   json:"warnings,omitempty"`
	Error     string                  `yaml:"error,omitempty"      json:"error,omitempty"`
	Output    string                  `yaml:"-"                    json:"-"`

	err error
}

// Err returns the error that stopped this conversion, if any.
func (r *Result) Err() error { return r.err }

// OK reports whether the conversion finished without error.
func (r *Result) OK() bool { return r.err == nil }

func (r *Result) fail(err error) *Result {
	r.err = err
	r.Error = err.Error()
	return r
}

// Convert turns recorder JSON into the Owloops action list. Empty content is
// not an error: it logs NoRecordingsMessage and returns an empty Output.
func Convert(content []byte, opts Options) (*Result, error) {
	log := opts.logger()
	res := &Result{}

	if len(bytes.TrimSpace(content)) == 0 {
		log.Info(NoRecordingsMessage)
		res.Empty = true
		return res, nil
	}

	flow, err := recording.Parse(content)
	if err != nil {
		return nil, err
	}
	res.Title = flow.Title
	res.Steps = len(flow.Steps)
	if opts.SelectorAttribute != "" {
		flow.SelectorAttribute = opts.SelectorAttribute
	}

	diag := observability.NewCollector(log)
	raw, err := transcode.Stringify(flow, transcode.NewOwloops(opts.Keys, diag))
	res.Warnings = diag.Warnings()
	if err != nil {
		return nil, fmt.Errorf("failed to stringify recording: %w", err)
	}

	out, err := repair.Run(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to repair output: %w", err)
	}

	var actions []action.Action
	if err := json.Unmarshal([]byte(out), &actions); err != nil {
		return nil, fmt.Errorf("%w: %v", repair.ErrMalformedOutput, err)
	}
	for i, a := range actions {
		if err := checkAction(a); err != nil {
			return nil, fmt.Errorf("%w: action %d: %v", repair.ErrMalformedOutput, i+1, err)
		}
	}
	res.Actions = len(actions)
	res.Output = out
	return res, nil
}

// checkAction verifies an emitted record names its action and that actions
// addressing an element carry the selector they address it by.
func checkAction(a action.Action) error {
	if a.Name == "" {
		return errors.New("missing action name")
	}
	switch a.Name {
	case action.Click, action.Input, action.Wait:
		if v, ok := a.Get("querySelector"); !ok || v == "" {
			return fmt.Errorf("%s without querySelector", a.Name)
		}
	}
	return nil
}
