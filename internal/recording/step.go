// Package recording models Chrome DevTools Recorder user flows as typed
// steps and decodes them from the recorder's JSON export.
package recording

import "github.com/mj1618/owl-recorder/internal/selector"

// StepKind is the recorder's step type tag.
type StepKind string

const (
	KindClick             StepKind = "click"
	KindDoubleClick       StepKind = "doubleClick"
	KindHover             StepKind = "hover"
	KindChange            StepKind = "change"
	KindKeyDown           StepKind = "keyDown"
	KindKeyUp             StepKind = "keyUp"
	KindNavigate          StepKind = "navigate"
	KindScroll            StepKind = "scroll"
	KindSetViewport       StepKind = "setViewport"
	KindWaitForElement    StepKind = "waitForElement"
	KindWaitForExpression StepKind = "waitForExpression"
	KindClose             StepKind = "close"
	KindCustomStep        StepKind = "customStep"
)

// Mouse buttons as recorded on click steps.
const (
	ButtonPrimary   = "primary"
	ButtonAuxiliary = "auxiliary"
	ButtonSecondary = "secondary"
	ButtonBack      = "back"
	ButtonForward   = "forward"
)

// Step is one recorded action. Each kind is its own struct carrying only
// the fields that kind uses.
type Step interface {
	Kind() StepKind
	Common() Base
}

// AssertedEvent is an expectation the recorder attached to a step.
type AssertedEvent struct {
	Type  string `json:"type"`
	URL   string `json:"url,omitempty"`
	Title string `json:"title,omitempty"`
}

// Base holds the fields every step may carry.
type Base struct {
	Target         string          `json:"target,omitempty"`
	Frame          []int           `json:"frame,omitempty"`
	Timeout        int             `json:"timeout,omitempty"`
	AssertedEvents []AssertedEvent `json:"assertedEvents,omitempty"`
}

// Common returns the shared step fields.
func (b Base) Common() Base { return b }

// ClickStep is a single mouse click on an element.
type ClickStep struct {
	Base
	Selectors  Selectors `json:"selectors"`
	OffsetX    float64   `json:"offsetX"`
	OffsetY    float64   `json:"offsetY"`
	Button     string    `json:"button,omitempty"`
	DeviceType string    `json:"deviceType,omitempty"`
	Duration   int       `json:"duration,omitempty"`
}

// DoubleClickStep is a double mouse click on an element.
type DoubleClickStep struct {
	Base
	Selectors Selectors `json:"selectors"`
	OffsetX   float64   `json:"offsetX"`
	OffsetY   float64   `json:"offsetY"`
	Button    string    `json:"button,omitempty"`
}

// HoverStep moves the pointer over an element.
type HoverStep struct {
	Base
	Selectors Selectors `json:"selectors"`
}

// ChangeStep sets the value of an input-like element.
type ChangeStep struct {
	Base
	Selectors Selectors `json:"selectors"`
	Value     string    `json:"value"`
}

// KeyDownStep presses a key.
type KeyDownStep struct {
	Base
	Key string `json:"key"`
}

// KeyUpStep releases a key.
type KeyUpStep struct {
	Base
	Key string `json:"key"`
}

// NavigateStep loads a URL.
type NavigateStep struct {
	Base
	URL string `json:"url"`
}

// ScrollStep scrolls the page, or an element when Selectors is set.
type ScrollStep struct {
	Base
	Selectors Selectors `json:"selectors,omitempty"`
	X         float64   `json:"x,omitempty"`
	Y         float64   `json:"y,omitempty"`
}

// SetViewportStep resizes the viewport.
type SetViewportStep struct {
	Base
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	DeviceScaleFactor float64 `json:"deviceScaleFactor,omitempty"`
	IsMobile          bool    `json:"isMobile,omitempty"`
	HasTouch          bool    `json:"hasTouch,omitempty"`
	IsLandscape       bool    `json:"isLandscape,omitempty"`
}

// WaitForElementStep waits until an element matches.
type WaitForElementStep struct {
	Base
	Selectors Selectors `json:"selectors"`
	Operator  string    `json:"operator,omitempty"`
	Count     int       `json:"count,omitempty"`
	Visible   *bool     `json:"visible,omitempty"`
}

// WaitForExpressionStep waits until a page expression is truthy.
type WaitForExpressionStep struct {
	Base
	Expression string `json:"expression"`
}

// CloseStep closes the target page.
type CloseStep struct {
	Base
}

// CustomStep is a recorder extension step.
type CustomStep struct {
	Base
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// UnknownStep keeps the tag of a step type this package does not model.
type UnknownStep struct {
	Base
	Type string `json:"type"`
}

func (ClickStep) Kind() StepKind             { return KindClick }
func (DoubleClickStep) Kind() StepKind       { return KindDoubleClick }
func (HoverStep) Kind() StepKind             { return KindHover }
func (ChangeStep) Kind() StepKind            { return KindChange }
func (KeyDownStep) Kind() StepKind           { return KindKeyDown }
func (KeyUpStep) Kind() StepKind             { return KindKeyUp }
func (NavigateStep) Kind() StepKind          { return KindNavigate }
func (ScrollStep) Kind() StepKind            { return KindScroll }
func (SetViewportStep) Kind() StepKind       { return KindSetViewport }
func (WaitForElementStep) Kind() StepKind    { return KindWaitForElement }
func (WaitForExpressionStep) Kind() StepKind { return KindWaitForExpression }
func (CloseStep) Kind() StepKind             { return KindClose }
func (CustomStep) Kind() StepKind            { return KindCustomStep }
func (s UnknownStep) Kind() StepKind         { return StepKind(s.Type) }

// Recording is a recorder user flow.
type Recording struct {
	Title             string
	SelectorAttribute string
	Timeout           int
	Steps             []Step
}

// Selectors is the list of selector groups on a step. On the wire each
// entry is either a single selector string or an array of them.
type Selectors []selector.Group
