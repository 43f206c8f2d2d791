// Package transcode turns recorder steps into Owloops action text. The
// Owloops extension owns the per-step rules; Stringify and StringifyStep
// drive an extension's hooks over a flow or a single step.
package transcode

import (
	"fmt"

	"github.com/mj1618/owl-recorder/internal/recording"
)

// Extension is the set of hooks a stringifier calls while walking a flow.
type Extension interface {
	BeforeAllSteps(out *LineWriter, flow *recording.Recording) error
	AfterAllSteps(out *LineWriter, flow *recording.Recording) error
	StringifyStep(out *LineWriter, step recording.Step, flow *recording.Recording) error
}

// Stringify renders a whole flow with ext.
func Stringify(flow *recording.Recording, ext Extension) (string, error) {
	out := &LineWriter{}
	if err := ext.BeforeAllSteps(out, flow); err != nil {
		return "", fmt.Errorf("before all steps: %w", err)
	}
	for i, step := range flow.Steps {
		if err := ext.StringifyStep(out, step, flow); err != nil {
			return "", fmt.Errorf("step %d (%s): %w", i+1, step.Kind(), err)
		}
	}
	if err := ext.AfterAllSteps(out, flow); err != nil {
		return "", fmt.Errorf("after all steps: %w", err)
	}
	return out.String(), nil
}

// StringifyStep renders one step with ext, outside of any flow.
func StringifyStep(step recording.Step, ext Extension) (string, error) {
	out := &LineWriter{}
	if err := ext.StringifyStep(out, step, &recording.Recording{}); err != nil {
		return "", fmt.Errorf("%s step: %w", step.Kind(), err)
	}
	return out.String(), nil
}
