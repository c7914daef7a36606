package agent

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/comigor/react-go/internal/config"
	"github.com/comigor/react-go/internal/llm"
	"github.com/comigor/react-go/internal/logger"
	"github.com/comigor/react-go/internal/parser"
	"github.com/comigor/react-go/pkg/tools"

	"github.com/qmuntal/stateless" // FSM library
	"github.com/sashabaranov/go-openai"
)

// FSM States
type FSMState string

const (
	StateIdle          FSMState = "Idle"
	StateAwaitingModel FSMState = "AwaitingModel"
	StateParsing       FSMState = "Parsing"
	StateInvokingTool  FSMState = "InvokingTool"
	StateReprompting   FSMState = "Reprompting"
	StateDone          FSMState = "Done"      // Terminal: answer found
	StateAborted       FSMState = "Aborted"   // Terminal: no answer and no usable action
	StateExhausted     FSMState = "Exhausted" // Terminal: round budget used up
	StateFailed        FSMState = "Failed"    // Terminal: model call failed
)

// FSM Triggers
type FSMTrigger string

const (
	TriggerStart            FSMTrigger = "Start"
	TriggerModelReplied     FSMTrigger = "ModelReplied"
	TriggerModelFailed      FSMTrigger = "ModelFailed"
	TriggerBudgetExhausted  FSMTrigger = "BudgetExhausted"
	TriggerAnswerFound      FSMTrigger = "AnswerFound"
	TriggerToolRequested    FSMTrigger = "ToolRequested"
	TriggerDeclined         FSMTrigger = "Declined"
	TriggerUnrecognized     FSMTrigger = "Unrecognized"
	TriggerObservationAdded FSMTrigger = "ObservationAdded"
	TriggerReprompted       FSMTrigger = "Reprompted"
)

// Outcome names how a query ended without error.
type Outcome string

const (
	OutcomeDone      Outcome = "done"
	OutcomeAborted   Outcome = "aborted"
	OutcomeExhausted Outcome = "exhausted"
)

// ErrNoChoices is returned when the model replies with an empty choice list.
var ErrNoChoices = errors.New("model returned no choices")

// Result is the outcome of one query.
type Result struct {
	Answer      string
	Thought     string // thought of the last reply, if any
	Outcome     Outcome
	Rounds      int
	SearchCalls int
	Messages    []openai.ChatCompletionMessage
}

// Hooks let callers watch a query as it runs. Nil fields are skipped.
type Hooks struct {
	OnReply  func(round int, reply string)
	OnSearch func(query string, obs tools.Observation)
}

// Option configures an Agent.
type Option func(*Agent)

// WithHooks installs progress callbacks.
func WithHooks(h Hooks) Option {
	return func(a *Agent) { a.hooks = h }
}

// WithSystemPrompt replaces SystemPrompt.
func WithSystemPrompt(prompt string) Option {
	return func(a *Agent) { a.systemPrompt = prompt }
}

// Agent runs the ReAct loop. It keeps no per-query state and is safe to share.
type Agent struct {
	llmClient    llm.Client
	searcher     tools.Searcher
	model        string
	maxRounds    int
	systemPrompt string
	hooks        Hooks
}

// New creates a new agent.
func New(llmClient llm.Client, searcher tools.Searcher, appCfg config.Config, opts ...Option) *Agent {
	a := &Agent{
		llmClient:    llmClient,
		searcher:     searcher,
		model:        appCfg.LLM.Model,
		maxRounds:    appCfg.Agent.MaxRounds,
		systemPrompt: SystemPrompt,
	}
	if a.model == "" {
		a.model = config.DefaultModel
	}
	if a.maxRounds <= 0 {
		a.maxRounds = config.DefaultMaxRounds
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Process answers one query. A nil error with OutcomeAborted or
// OutcomeExhausted carries FallbackAnswer; only a failed model call is an error.
func (a *Agent) Process(ctx context.Context, query string) (Result, error) {
	// FSM context data
	type fsmContext struct {
		messages    []openai.ChatCompletionMessage
		reply       string
		turn        parser.Turn
		answer      string
		thought     string
		round       int
		searchCalls int
		lastError   error
	}

	fsmCtx := &fsmContext{
		messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: a.systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
	}

	fsm := stateless.NewStateMachine(StateIdle)

	fsm.Configure(StateIdle).
		Permit(TriggerStart, StateAwaitingModel)

	// State: AwaitingModel
	// Action: send the whole history to the model, one round per entry.
	fsm.Configure(StateAwaitingModel).
		OnEntry(func(ctx context.Context, _ ...any) error {
			if fsmCtx.round >= a.maxRounds {
				logger.L.Warn("round budget exhausted", "maxRounds", a.maxRounds)
				return fsm.FireCtx(ctx, TriggerBudgetExhausted)
			}
			fsmCtx.round++
			logger.L.Debug("FSM: Entering StateAwaitingModel", "round", fsmCtx.round, "messages", len(fsmCtx.messages))

			resp, err := a.llmClient.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
				Model:    a.model,
				Messages: fsmCtx.messages,
				// go-openai drops a literal 0 through omitempty.
				Temperature: math.SmallestNonzeroFloat32,
			})
			if err != nil {
				logger.L.Error("LLM call failed", "round", fsmCtx.round, "error", err)
				fsmCtx.lastError = fmt.Errorf("model call failed in round %d: %w", fsmCtx.round, err)
				return fsm.FireCtx(ctx, TriggerModelFailed)
			}
			if len(resp.Choices) == 0 {
				fsmCtx.lastError = fmt.Errorf("round %d: %w", fsmCtx.round, ErrNoChoices)
				return fsm.FireCtx(ctx, TriggerModelFailed)
			}

			fsmCtx.reply = resp.Choices[0].Message.Content
			fsmCtx.messages = append(fsmCtx.messages, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: fsmCtx.reply,
			})
			logger.L.Debug("LLM response received", "round", fsmCtx.round, "reply", fsmCtx.reply)
			if a.hooks.OnReply != nil {
				a.hooks.OnReply(fsmCtx.round, fsmCtx.reply)
			}
			return fsm.FireCtx(ctx, TriggerModelReplied)
		}).
		Permit(TriggerModelReplied, StateParsing).
		Permit(TriggerBudgetExhausted, StateExhausted).
		Permit(TriggerModelFailed, StateFailed)

	// State: Parsing
	// Action: decode the reply and pick the next step. An answer wins over an action.
	fsm.Configure(StateParsing).
		OnEntry(func(ctx context.Context, _ ...any) error {
			turn := parser.Parse(fsmCtx.reply)
			fsmCtx.turn = turn
			fsmCtx.thought = ""
			if turn.Thought != nil {
				fsmCtx.thought = *turn.Thought
			}

			switch {
			case turn.Answer != nil:
				fsmCtx.answer = *turn.Answer
				return fsm.FireCtx(ctx, TriggerAnswerFound)
			case turn.Action.Kind == parser.ActionCall && turn.Action.Name == tools.WebSearchName && turn.Action.Arg != "":
				return fsm.FireCtx(ctx, TriggerToolRequested)
			case turn.Action.Kind == parser.ActionNone:
				return fsm.FireCtx(ctx, TriggerDeclined)
			default:
				logger.L.Warn("no action or answer found", "round", fsmCtx.round, "action", turn.Action.Kind.String(), "name", turn.Action.Name)
				return fsm.FireCtx(ctx, TriggerUnrecognized)
			}
		}).
		Permit(TriggerAnswerFound, StateDone).
		Permit(TriggerToolRequested, StateInvokingTool).
		Permit(TriggerDeclined, StateReprompting).
		Permit(TriggerUnrecognized, StateAborted)

	// State: InvokingTool
	// Action: run the search and hand its text back as a user turn, errors included.
	fsm.Configure(StateInvokingTool).
		OnEntry(func(ctx context.Context, _ ...any) error {
			query := fsmCtx.turn.Action.Arg
			logger.L.Info("searching", "round", fsmCtx.round, "query", query)

			obs := a.searcher.Search(ctx, query)
			fsmCtx.searchCalls++
			if obs.Failed {
				logger.L.Warn("search returned failure text", "query", query, "observation", obs.Text)
			}
			if a.hooks.OnSearch != nil {
				a.hooks.OnSearch(query, obs)
			}

			fsmCtx.messages = append(fsmCtx.messages, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(ObservationTemplate, obs.Text),
			})
			return fsm.FireCtx(ctx, TriggerObservationAdded)
		}).
		Permit(TriggerObservationAdded, StateAwaitingModel)

	// State: Reprompting
	// Action: the model declined to act without answering; ask for the answer.
	fsm.Configure(StateReprompting).
		OnEntry(func(ctx context.Context, _ ...any) error {
			logger.L.Debug("FSM: Entering StateReprompting", "round", fsmCtx.round)
			fsmCtx.messages = append(fsmCtx.messages, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: RepromptMessage,
			})
			return fsm.FireCtx(ctx, TriggerReprompted)
		}).
		Permit(TriggerReprompted, StateAwaitingModel)

	fsm.Configure(StateDone)
	fsm.Configure(StateAborted)
	fsm.Configure(StateExhausted)
	fsm.Configure(StateFailed)

	// Transitions fired from OnEntry are queued, so this returns once a terminal state is reached.
	if err := fsm.FireCtx(ctx, TriggerStart); err != nil {
		logger.L.Error("FSM run failed", "error", err)
		return Result{}, fmt.Errorf("FSM error: %w", err)
	}

	currentState, err := fsm.State(ctx)
	if err != nil {
		logger.L.Error("FSM error when retrieving state", "error", err)
		return Result{}, fmt.Errorf("FSM internal error: %w", err)
	}

	result := Result{
		Thought:     fsmCtx.thought,
		Rounds:      fsmCtx.round,
		SearchCalls: fsmCtx.searchCalls,
		Messages:    fsmCtx.messages,
	}

	switch currentState {
	case StateDone:
		result.Answer = fsmCtx.answer
		result.Outcome = OutcomeDone
	case StateAborted:
		result.Answer = FallbackAnswer
		result.Outcome = OutcomeAborted
	case StateExhausted:
		result.Answer = FallbackAnswer
		result.Outcome = OutcomeExhausted
	case StateFailed:
		if fsmCtx.lastError == nil {
			fsmCtx.lastError = errors.New("FSM ended in StateFailed without a specific error")
		}
		return result, fsmCtx.lastError
	default:
		return result, fmt.Errorf("FSM ended in an unexpected state: %v", currentState)
	}

	logger.L.Info("query finished", "outcome", result.Outcome, "rounds", result.Rounds, "searches", result.SearchCalls)
	return result, nil
}
