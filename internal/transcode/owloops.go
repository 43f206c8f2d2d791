package transcode

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mj1618/owl-recorder/internal/action"
	"github.com/mj1618/owl-recorder/internal/observability"
	"github.com/mj1618/owl-recorder/internal/recording"
	"github.com/mj1618/owl-recorder/internal/selector"
)

const preferredQuerySelector = "querySelector"

// Owloops is the Extension that emits the Owloops action list.
type Owloops struct {
	keys Keymap
	diag observability.Diagnostics
}

// NewOwloops returns an Owloops extension. A nil keymap means DefaultKeymap;
// a nil diag discards warnings.
func NewOwloops(keys Keymap, diag observability.Diagnostics) *Owloops {
	if keys == nil {
		keys = DefaultKeymap()
	}
	if diag == nil {
		diag = zap.NewNop()
	}
	return &Owloops{keys: keys, diag: diag}
}

// BeforeAllSteps opens the action array.
func (o *Owloops) BeforeAllSteps(out *LineWriter, _ *recording.Recording) error {
	out.AppendLine("[")
	return nil
}

// AfterAllSteps closes the action array.
func (o *Owloops) AfterAllSteps(out *LineWriter, _ *recording.Recording) error {
	out.AppendLine("]")
	return nil
}

// StringifyStep writes the step's action, if any, followed by a blank line.
func (o *Owloops) StringifyStep(out *LineWriter, step recording.Step, flow *recording.Recording) error {
	if a, ok := o.Translate(step, flow); ok {
		if err := writeAction(out, a); err != nil {
			return err
		}
	}
	// TODO: translate AssertedEvents once Owloops has an assertion action.
	out.AppendLine("")
	return nil
}

// Translate maps one step to at most one action. Steps that cannot be
// exported report through the diagnostics sink and yield false.
func (o *Owloops) Translate(step recording.Step, flow *recording.Recording) (action.Action, bool) {
	hint := ""
	if flow != nil {
		hint = flow.SelectorAttribute
	}

	switch s := step.(type) {
	case recording.ClickStep:
		return o.click(s.Selectors, hint, s.OffsetX, s.OffsetY, func(a action.Action) action.Action {
			return a.Set("rightClick", s.Button == recording.ButtonSecondary)
		})
	case recording.DoubleClickStep:
		return o.click(s.Selectors, hint, s.OffsetX, s.OffsetY, func(a action.Action) action.Action {
			return a.Set("doubleClick", true)
		})
	case recording.ChangeStep:
		return change(s, hint)
	case recording.NavigateStep:
		return action.New(action.Goto).Set("url", s.URL), true
	case recording.SetViewportStep:
		return action.New(action.SetViewport).Set("width", s.Width).Set("height", s.Height), true
	case recording.KeyDownStep:
		name, ok := o.keys.Lookup(s.Key)
		if !ok {
			return action.Action{}, false
		}
		return action.New(name), true
	case recording.WaitForElementStep:
		return o.waitForElement(s)
	case recording.KeyUpStep, recording.ScrollStep, recording.HoverStep:
		// Owloops has no counterpart for these yet.
		return action.Action{}, false
	default:
		o.diag.Warn(fmt.Sprintf("Owloops does not currently handle migrating steps of type: %s. Please check the output to see how this might affect your test.", step.Kind()),
			zap.String("type", string(step.Kind())))
		return action.Action{}, false
	}
}

// click builds click and double-click actions; flag adds the option that
// distinguishes the two, placed right after querySelector.
func (o *Owloops) click(groups recording.Selectors, hint string, offsetX, offsetY float64, flag func(action.Action) action.Action) (action.Action, bool) {
	res := selector.Resolve(groups, hint)
	if !res.OK() {
		var first selector.Group
		if len(groups) > 0 {
			first = groups[0]
		}
		o.diag.Warn(fmt.Sprintf("The click on %s was not able to be exported to Owloops. Please adjust your selectors and try again.", strings.Join(first, ",")),
			zap.Strings("selectors", first))
		return action.Action{}, false
	}

	a := action.New(action.Click).Set("querySelector", res.Primary)
	a = flag(a)
	a = a.Set("preferredSelector", preferredQuerySelector)
	a = fallbacks(a, res)
	return a.
		SetIf(offsetX != 0, "offsetX", offsetX).
		SetIf(offsetY != 0, "offsetY", offsetY), true
}

func change(s recording.ChangeStep, hint string) (action.Action, bool) {
	res := selector.Resolve(s.Selectors, hint)
	if !res.OK() {
		return action.Action{}, false
	}
	a := action.New(action.Input).
		Set("querySelector", res.Primary).
		Set("preferredSelector", preferredQuerySelector).
		Set("type", "input").
		Set("value", s.Value)
	return fallbacks(a, res), true
}

func (o *Owloops) waitForElement(s recording.WaitForElementStep) (action.Action, bool) {
	var first string
	if len(s.Selectors) > 0 {
		first = s.Selectors[0].First()
	}
	if first == "" {
		o.diag.Warn("The wait for element step has no selector and was not exported to Owloops.")
		return action.Action{}, false
	}
	return action.New(action.Wait).
		Set("for", preferredQuerySelector).
		Set("querySelector", first), true
}

func fallbacks(a action.Action, res selector.Resolution) action.Action {
	return a.
		SetString("ariaSelector", res.Aria).
		SetString("xpathSelector", res.XPath).
		SetString("textSelector", res.Text)
}
