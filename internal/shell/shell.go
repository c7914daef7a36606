// Package shell is the interactive prompt around the agent.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"

	"github.com/comigor/react-go/internal/agent"
	"github.com/comigor/react-go/internal/history"
	"github.com/comigor/react-go/internal/logger"
	"github.com/comigor/react-go/pkg/tools"
)

// Asker answers one query.
type Asker interface {
	Process(ctx context.Context, query string) (agent.Result, error)
}

// ExampleQueries are listed by "help".
var ExampleQueries = []string{
	"What is 2 + 2?",
	"Why is the sky blue?",
	"What's the capital of Japan?",
	"Explain how airplanes fly",
	"What's 15% of 250?",
}

// TestQueries are listed by "test" and picked by number.
var TestQueries = []string{
	"What's the weather in Tokyo today?",
	"What is 2 + 2?",
	"What's the current price of Bitcoin?",
	"Explain what photosynthesis is",
}

const (
	rule          = "------------------------------------------------------------"
	observedLimit = 300
	clearScreen   = "\033[H\033[2J"
)

// Shell reads queries line by line and prints answers.
type Shell struct {
	asker   Asker
	store   *history.Store
	session string
	model   string
	in      io.Reader
	out     io.Writer
}

// New creates a shell. store may be nil, which disables the history command.
func New(asker Asker, store *history.Store, model string, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		asker:   asker,
		store:   store,
		session: history.NewSession(),
		model:   model,
		in:      in,
		out:     out,
	}
}

// StepHooks prints each model reply and search to out as the loop runs.
func StepHooks(out io.Writer) agent.Hooks {
	return agent.Hooks{
		OnReply: func(round int, reply string) {
			fmt.Fprintf(out, "\nStep %d:\n%s\n", round, reply)
		},
		OnSearch: func(query string, obs tools.Observation) {
			fmt.Fprintf(out, "\nSearching: '%s'...\n", query)
			fmt.Fprintf(out, "\nResults found:\n%s\n", truncate(obs.Text, observedLimit))
		},
	}
}

// Run loops until quit, EOF or ctx is cancelled.
func (s *Shell) Run(ctx context.Context) error {
	s.banner()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
		close(lines)
	}()

	for {
		fmt.Fprintf(s.out, "\n%s: ", ancli.ColoredMessage(ancli.CYAN, "You"))
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out, "\n\nInterrupted! Goodbye!")
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(s.out, "\nGoodbye!")
				return <-readErr
			}
			if quit := s.handle(ctx, line); quit {
				return nil
			}
		}
	}
}

func (s *Shell) banner() {
	fmt.Fprintln(s.out, strings.Repeat("=", len(rule)))
	fmt.Fprintln(s.out, "ReAct Agent - Web Search Enabled")
	fmt.Fprintf(s.out, "Model: %s\n", s.model)
	fmt.Fprintf(s.out, "Tools: %s\n", tools.WebSearchName)
	fmt.Fprintln(s.out, strings.Repeat("=", len(rule)))
	fmt.Fprintln(s.out, "Commands: 'quit' to exit | 'help' for examples | 'test' for test queries | 'history' | 'clear'")
}

// handle processes one input line. A panic is logged and the shell keeps going.
func (s *Shell) handle(ctx context.Context, line string) (quit bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.L.Error("shell iteration panicked", "panic", r)
			fmt.Fprintf(s.out, "\nError: %v\n", r)
			quit = false
		}
	}()

	input := strings.TrimSpace(line)
	switch strings.ToLower(input) {
	case "":
		return false
	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "\nGoodbye!")
		return true
	case "help":
		fmt.Fprintln(s.out, "\nExample queries:")
		for _, q := range ExampleQueries {
			fmt.Fprintf(s.out, "  - %s\n", q)
		}
		return false
	case "test":
		fmt.Fprintln(s.out, "\nTest Queries:")
		for i, q := range TestQueries {
			fmt.Fprintf(s.out, "%d. %s\n", i+1, q)
		}
		fmt.Fprintln(s.out, "\nPick a number or type your own query:")
		return false
	case "clear":
		fmt.Fprint(s.out, clearScreen)
		s.banner()
		return false
	case "history":
		s.printHistory()
		return false
	}

	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > len(TestQueries) {
			fmt.Fprintln(s.out, "Invalid number")
			return false
		}
		input = TestQueries[n-1]
		fmt.Fprintf(s.out, "Selected: %s\n", input)
	}

	s.ask(ctx, input)
	return false
}

func (s *Shell) ask(ctx context.Context, query string) {
	fmt.Fprintln(s.out, "\n"+strings.Repeat("=", len(rule)))
	fmt.Fprintf(s.out, "Query: %s\n", query)
	fmt.Fprintln(s.out, strings.Repeat("=", len(rule)))

	res, err := s.asker.Process(ctx, query)
	if err != nil {
		logger.L.Error("query failed", "query", query, "error", err)
		fmt.Fprintf(s.out, "\nError: %v\n", err)
		return
	}

	if res.Thought != "" {
		fmt.Fprintf(s.out, "\nThought: %s\n", res.Thought)
	}
	fmt.Fprintf(s.out, "\nFinal: %s\n\n", res.Answer)
	fmt.Fprintln(s.out, rule)

	if s.store != nil {
		s.store.Save(history.Record{
			SessionID: s.session,
			Query:     query,
			Thought:   res.Thought,
			Answer:    res.Answer,
		})
	}
}

func (s *Shell) printHistory() {
	if s.store == nil {
		fmt.Fprintln(s.out, "History is disabled")
		return
	}
	records := s.store.List(s.session)
	if len(records) == 0 {
		fmt.Fprintln(s.out, "No queries yet")
		return
	}
	ancli.PrintOK(fmt.Sprintf("found '%v' queries in this session\n", len(records)))
	for i, r := range records {
		fmt.Fprintf(s.out, "%d. %s\n   -> %s\n", i+1, r.Query, r.Answer)
	}
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}
