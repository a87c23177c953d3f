// Package assistant answers free-text career questions with a language model,
// using the user's career analysis as context.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/career-guide/internal/analysis"
	"github.com/jonathan/career-guide/internal/llm"
	"github.com/jonathan/career-guide/internal/logging"
	"github.com/jonathan/career-guide/internal/prompts"
	"github.com/jonathan/career-guide/internal/types"
)

const promptFile = "assistant.json"

// Analyzer produces the analysis used as context for a user's question.
type Analyzer interface {
	Analyze(ctx context.Context, userID uuid.UUID, opts analysis.AnalyzeOptions) (*types.CareerAnalysis, error)
}

// History records question and reply pairs.
type History interface {
	SaveChatExchange(ctx context.Context, userID uuid.UUID, message, response string) error
}

// ChatMessage is one stored chat_history row.
type ChatMessage struct {
	Message   string    `json:"message"`
	IsUser    bool      `json:"isUser"`
	CreatedAt time.Time `json:"createdAt"`
}

// Reply is the assistant's answer. Fallback is set when the model produced no
// usable text and a canned reply was returned instead.
type Reply struct {
	Response string `json:"response"`
	Fallback bool   `json:"fallback,omitempty"`
}

// Assistant wires the analysis service to an LLM client.
type Assistant struct {
	analyzer Analyzer
	client   llm.Client
	history  History
	logger   *logging.Logger
	tier     llm.ModelTier

	template      string
	noAnalysis    string
	fallbackReply string
	errorReply    string
}

// New creates an Assistant. history and logger may be nil.
func New(analyzer Analyzer, client llm.Client, history History, logger *logging.Logger) *Assistant {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Assistant{
		analyzer:      analyzer,
		client:        client,
		history:       history,
		logger:        logger,
		tier:          llm.TierStandard,
		template:      prompts.MustGet(promptFile, "career-assistant"),
		noAnalysis:    prompts.MustGet(promptFile, "no-analysis-context"),
		fallbackReply: prompts.MustGet(promptFile, "fallback-reply"),
		errorReply:    prompts.MustGet(promptFile, "error-reply"),
	}
}

// Ask answers question for the user. Model failures produce a fallback reply
// rather than an error; failures loading the user's data are returned.
func (a *Assistant) Ask(ctx context.Context, userID uuid.UUID, question string) (*Reply, error) {
	result, err := a.analyzer.Analyze(ctx, userID, analysis.AnalyzeOptions{UseCachedScores: true})
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis context: %w", err)
	}

	contextJSON, err := a.BuildContext(result)
	if err != nil {
		return nil, err
	}

	prompt := prompts.Format(a.template, map[string]string{
		"Context":  contextJSON,
		"Question": question,
	})

	reply := &Reply{}
	text, err := a.client.GenerateContent(ctx, prompt, a.tier)
	switch {
	case err != nil:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		a.logger.Warn("assistant generation failed", "user_id", userID.String(), "error", err)
		reply.Response = a.errorReply
		reply.Fallback = true
	case strings.TrimSpace(text) == "":
		reply.Response = a.fallbackReply
		reply.Fallback = true
	default:
		reply.Response = strings.TrimSpace(text)
	}

	if a.history != nil {
		if err := a.history.SaveChatExchange(ctx, userID, question, reply.Response); err != nil {
			a.logger.Warn("failed to save chat history", "user_id", userID.String(), "error", err)
		}
	}
	return reply, nil
}

// BuildContext renders the analysis as the JSON context block of the prompt.
// A nil analysis yields a note asking the user to add skills.
func (a *Assistant) BuildContext(result *types.CareerAnalysis) (string, error) {
	if result == nil {
		return a.noAnalysis, nil
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal analysis context: %w", err)
	}
	return string(data), nil
}
