package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractThoughtAndAnswer(t *testing.T) {
	cases := []struct {
		name       string
		in         string
		thought    string
		hasThought bool
		answer     string
		hasAnswer  bool
	}{
		{"both", "Thought: simple math\nAnswer: 4", "simple math", true, "4", true},
		{"padded", "  Thought:   padded thought  \n\n Answer:   padded answer \n", "padded thought", true, "padded answer", true},
		{"answer only", "Answer: Paris", "", false, "Paris", true},
		{"thought only", "Thought: need data\nAction: web_search(\"x\")", "need data\nAction: web_search(\"x\")", true, "", false},
		{"multiline answer", "Thought: t\nAnswer: line one\nline two", "t", true, "line one\nline two", true},
		{"empty answer", "Thought: t\nAnswer:", "t", true, "", true},
		{"neither", "I am not following the format", "", false, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			thought, ok := ExtractThought(tc.in)
			require.Equal(t, tc.hasThought, ok)
			require.Equal(t, tc.thought, thought)

			answer, ok := ExtractAnswer(tc.in)
			require.Equal(t, tc.hasAnswer, ok)
			require.Equal(t, tc.answer, answer)
		})
	}
}

func TestExtractAction(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Action
	}{
		{"double quotes", `Thought: x` + "\n" + `Action: web_search("Tokyo weather")`, Action{Kind: ActionCall, Name: "web_search", Arg: "Tokyo weather"}},
		{"single quotes", `Action: web_search('Tokyo weather')`, Action{Kind: ActionCall, Name: "web_search", Arg: "Tokyo weather"}},
		{"trailing text", `Action: web_search("btc price") [STOP AND WAIT]`, Action{Kind: ActionCall, Name: "web_search", Arg: "btc price"}},
		{"other tool", `Action: calculator("2+2")`, Action{Kind: ActionCall, Name: "calculator", Arg: "2+2"}},
		{"none", "Thought: nothing to do\nAction: none", Action{Kind: ActionNone}},
		{"none upper", "Action:   NONE  ", Action{Kind: ActionNone}},
		{"marker on its own line", "Action:\nweb_search(\"q\")", Action{Kind: ActionCall, Name: "web_search", Arg: "q"}},
		{"no marker", "Thought: x\nAnswer: y", Action{}},
		{"bad shape", `Action: search for tokyo`, Action{}},
		{"empty arg", `Action: web_search("")`, Action{}},
		{"unquoted arg", `Action: web_search(tokyo)`, Action{}},
		{"first marker wins", "Action: none\nAction: web_search(\"q\")", Action{Kind: ActionNone}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ExtractAction(tc.in))
		})
	}
}

func TestNoneSentinelDiffersFromAbsent(t *testing.T) {
	none := ExtractAction("Action: none")
	absent := ExtractAction("Thought: nothing")
	require.NotEqual(t, none, absent)
	require.Equal(t, ActionNone, none.Kind)
	require.Equal(t, ActionAbsent, absent.Kind)
	require.Equal(t, "none", none.Kind.String())
	require.Equal(t, "absent", absent.Kind.String())
}

func TestParse(t *testing.T) {
	turn := Parse("Thought: need data\nAction: web_search(\"Tokyo weather\")")
	require.NotNil(t, turn.Thought)
	require.Nil(t, turn.Answer)
	require.Equal(t, ActionCall, turn.Action.Kind)
	require.Equal(t, "Tokyo weather", turn.Action.Arg)

	turn = Parse("Thought: both\nAction: web_search(\"x\")\nAnswer: 42")
	require.NotNil(t, turn.Answer)
	require.Equal(t, "42", *turn.Answer)
	require.Equal(t, "both\nAction: web_search(\"x\")", *turn.Thought)
	require.Equal(t, ActionCall, turn.Action.Kind)

	turn = Parse("gibberish")
	require.Nil(t, turn.Thought)
	require.Nil(t, turn.Answer)
	require.Equal(t, ActionAbsent, turn.Action.Kind)
}
