// Package selector picks the locator an Owloops action should use from the
// equivalent selector groups a recorder captured for one element.
package selector

import "strings"

// Prefixes that tag non-structural selector groups.
const (
	AriaPrefix  = "aria/"
	XPathPrefix = "xpath/"
	TextPrefix  = "text/"
)

// Group is an ordered list of equivalent selector strings for one element.
type Group []string

// First returns the group's first selector, or "" for an empty group.
func (g Group) First() string {
	if len(g) == 0 {
		return ""
	}
	return g[0]
}

// Kind classifies a selector group by its prefix convention.
type Kind int

const (
	KindStructural Kind = iota
	KindAria
	KindXPath
	KindText
)

// KindOf reports the kind of g, judged by its first selector.
func KindOf(g Group) Kind {
	first := g.First()
	switch {
	case strings.HasPrefix(first, AriaPrefix):
		return KindAria
	case strings.HasPrefix(first, XPathPrefix):
		return KindXPath
	case strings.HasPrefix(first, TextPrefix):
		return KindText
	default:
		return KindStructural
	}
}

// Resolution is the outcome of Resolve. Primary is empty when no structural
// selector exists; Aria, XPath and Text are passed through to the runner as
// fallbacks and play no part in choosing Primary.
type Resolution struct {
	Primary string
	Aria    string
	XPath   string
	Text    string
}

// OK reports whether a primary selector was found.
func (r Resolution) OK() bool {
	return r.Primary != ""
}

// Resolve picks the primary selector from groups. Aria groups are never
// primary. When hint is set, the first non-aria group containing hint wins;
// otherwise the first non-aria group does. groups is not modified.
func Resolve(groups []Group, hint string) Resolution {
	var res Resolution
	var preferred string

	for _, g := range groups {
		first := g.First()
		if first == "" {
			continue
		}
		kind := KindOf(g)
		switch kind {
		case KindAria:
			if res.Aria == "" {
				res.Aria = first
			}
			continue
		case KindXPath:
			if res.XPath == "" {
				res.XPath = first
			}
		case KindText:
			if res.Text == "" {
				res.Text = first
			}
		}

		if res.Primary == "" {
			res.Primary = first
		}
		if hint != "" && preferred == "" && strings.Contains(first, hint) {
			preferred = first
		}
	}

	if preferred != "" {
		res.Primary = preferred
	}
	return res
}
