package recording

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mj1618/owl-recorder/internal/selector"
)

// ErrInvalidRecording is returned when recorder JSON cannot be decoded into
// a user flow.
var ErrInvalidRecording = errors.New("invalid recording")

// placeholderKey is given to key steps the recorder exported without a key,
// which it does for some composed input events.
const placeholderKey = "key"

type wireRecording struct {
	Title             string            `json:"title"`
	SelectorAttribute string            `json:"selectorAttribute"`
	Timeout           int               `json:"timeout"`
	Steps             []json.RawMessage `json:"steps"`
}

// Parse decodes a recorder JSON export.
func Parse(data []byte) (*Recording, error) {
	var wire wireRecording
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecording, err)
	}
	if wire.Steps == nil {
		return nil, fmt.Errorf("%w: missing steps", ErrInvalidRecording)
	}

	rec := &Recording{
		Title:             wire.Title,
		SelectorAttribute: wire.SelectorAttribute,
		Timeout:           wire.Timeout,
		Steps:             make([]Step, 0, len(wire.Steps)),
	}
	for i, raw := range wire.Steps {
		step, err := ParseStep(raw)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		rec.Steps = append(rec.Steps, step)
	}
	return rec, nil
}

// ParseStep decodes a single recorder step object.
func ParseStep(data []byte) (Step, error) {
	var head struct {
		Type StepKind `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecording, err)
	}
	if head.Type == "" {
		return nil, fmt.Errorf("%w: step has no type", ErrInvalidRecording)
	}

	var (
		step Step
		err  error
	)
	switch head.Type {
	case KindClick:
		step, err = decode[ClickStep](data)
	case KindDoubleClick:
		step, err = decode[DoubleClickStep](data)
	case KindHover:
		step, err = decode[HoverStep](data)
	case KindChange:
		step, err = decode[ChangeStep](data)
	case KindKeyDown:
		var s KeyDownStep
		s, err = decode[KeyDownStep](data)
		if s.Key == "" {
			s.Key = placeholderKey
		}
		step = s
	case KindKeyUp:
		var s KeyUpStep
		s, err = decode[KeyUpStep](data)
		if s.Key == "" {
			s.Key = placeholderKey
		}
		step = s
	case KindNavigate:
		step, err = decode[NavigateStep](data)
	case KindScroll:
		step, err = decode[ScrollStep](data)
	case KindSetViewport:
		step, err = decode[SetViewportStep](data)
	case KindWaitForElement:
		step, err = decode[WaitForElementStep](data)
	case KindWaitForExpression:
		step, err = decode[WaitForExpressionStep](data)
	case KindClose:
		step, err = decode[CloseStep](data)
	case KindCustomStep:
		step, err = decode[CustomStep](data)
	default:
		step, err = decode[UnknownStep](data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s step: %v", ErrInvalidRecording, head.Type, err)
	}
	return step, nil
}

func decode[T any](data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}

// UnmarshalJSON accepts each entry as either a string or an array of strings.
func (s *Selectors) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = nil
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("selectors: %w", err)
	}
	groups := make(Selectors, 0, len(entries))
	for _, entry := range entries {
		var single string
		if err := json.Unmarshal(entry, &single); err == nil {
			groups = append(groups, selector.Group{single})
			continue
		}
		var group []string
		if err := json.Unmarshal(entry, &group); err != nil {
			return fmt.Errorf("selectors: entry must be a string or an array of strings: %w", err)
		}
		groups = append(groups, selector.Group(group))
	}
	*s = groups
	return nil
}
