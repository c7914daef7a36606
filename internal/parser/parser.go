// Package parser decodes the Thought/Action/Answer text protocol a model
// follows in the ReAct loop. Every function here is pure.
package parser

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	ThoughtMarker = "Thought:"
	ActionMarker  = "Action:"
	AnswerMarker  = "Answer:"
)

// ActionKind tells an explicit "Action: none" apart from no usable action at all.
type ActionKind int

const (
	ActionAbsent ActionKind = iota
	ActionNone
	ActionCall
)

func (k ActionKind) String() string {
	switch k {
	case ActionNone:
		return "none"
	case ActionCall:
		return "call"
	default:
		return "absent"
	}
}

// Action is a decoded `Action:` line. Name and Arg are set only for ActionCall.
type Action struct {
	Kind ActionKind
	Name string
	Arg  string
}

// Turn is the structured view of one assistant reply.
type Turn struct {
	Thought *string
	Action  Action
	Answer  *string
}

// callPattern matches name("arg") or name('arg') at the start of the action content.
var callPattern = regexp.MustCompile(`^(\w+)\(["']([^"']+)["']\)`)

// Parse runs every extraction over text. The fields are independent; deciding
// which one wins is up to the caller.
func Parse(text string) Turn {
	turn := Turn{Action: ExtractAction(text)}
	if thought, ok := ExtractThought(text); ok {
		turn.Thought = &thought
	}
	if answer, ok := ExtractAnswer(text); ok {
		turn.Answer = &answer
	}
	return turn
}

// ExtractThought returns the text between the first Thought: marker and the
// next Answer: marker (or the end of text).
func ExtractThought(text string) (string, bool) {
	rest, ok := after(text, ThoughtMarker)
	if !ok {
		return "", false
	}
	if end := strings.Index(rest, AnswerMarker); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest), true
}

// ExtractAnswer returns everything after the first Answer: marker.
func ExtractAnswer(text string) (string, bool) {
	rest, ok := after(text, AnswerMarker)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// ExtractAction decodes the first Action: marker. Leading whitespace after the
// marker may span a line break; the content itself ends at the next newline.
func ExtractAction(text string) Action {
	rest, ok := after(text, ActionMarker)
	if !ok {
		return Action{}
	}
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	content := strings.TrimSpace(rest)

	if strings.EqualFold(content, "none") {
		return Action{Kind: ActionNone}
	}
	m := callPattern.FindStringSubmatch(content)
	if m == nil {
		return Action{}
	}
	return Action{Kind: ActionCall, Name: m[1], Arg: m[2]}
}

func after(text, marker string) (string, bool) {
	i := strings.Index(text, marker)
	if i < 0 {
		return "", false
	}
	return text[i+len(marker):], true
}
