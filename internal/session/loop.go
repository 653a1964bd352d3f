package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/themobileprof/dialchat-cli/internal/conversation"
	"github.com/themobileprof/dialchat-cli/pkg/llm"
)

// DefaultSystemPrompt is used when no system prompt is entered at startup.
const DefaultSystemPrompt = "You are a helpful assistant."

// exitCommand terminates the loop, matched case-insensitively.
const exitCommand = "exit"

// Config holds everything a session loop needs.
type Config struct {
	Client llm.Client
	Stream bool      // use StreamCompletion instead of GetCompletion
	Input  io.Reader // line-oriented user input
	Output io.Writer // prompts, status and error reporting
	Prompt bool      // print interactive prompts ("You: ", "Assistant: ")
}

// Loop drives a single conversation: it reads user input, dispatches the
// configured client and applies the result, rolling the conversation back
// when a turn fails. Exactly one turn is in flight at a time.
type Loop struct {
	client llm.Client
	conv   *conversation.Conversation
	in     *bufio.Scanner
	out    io.Writer
	stream bool
	prompt bool
}

// NewLoop creates a session loop with a fresh conversation.
func NewLoop(config Config) *Loop {
	return &Loop{
		client: config.Client,
		conv:   conversation.New(),
		in:     bufio.NewScanner(config.Input),
		out:    config.Output,
		stream: config.Stream,
		prompt: config.Prompt,
	}
}

// History returns a copy of the conversation so far.
func (l *Loop) History() []llm.Message {
	return l.conv.Messages()
}

// printf writes interactive decoration; suppressed when input is piped.
func (l *Loop) printf(format string, args ...any) {
	if !l.prompt {
		return
	}
	fmt.Fprintf(l.out, format, args...)
}

// Run drives the conversation until the exit command or end of input.
func (l *Loop) Run(ctx context.Context) error {
	l.printf("Enter system prompt (or press Enter to use default):\n> ")

	systemPrompt := DefaultSystemPrompt
	if l.in.Scan() {
		if input := strings.TrimSpace(l.in.Text()); input != "" {
			systemPrompt = input
		}
	} else if err := l.in.Err(); err != nil {
		return err
	}
	l.conv.Add(llm.Message{Role: llm.RoleSystem, Content: systemPrompt})

	l.printf("\nSystem prompt set: %s\n", systemPrompt)
	l.printf("\nChat started. Type 'exit' to quit.\n\n")

	for {
		l.printf("You: ")
		if !l.in.Scan() {
			return l.in.Err()
		}

		input := strings.TrimSpace(l.in.Text())
		if strings.EqualFold(input, exitCommand) {
			l.printf("Goodbye!\n")
			return nil
		}

		// Blank input: no state mutation, no dispatch
		if input == "" {
			continue
		}

		// The in-flight request already reflects the new turn
		l.conv.Add(llm.Message{Role: llm.RoleUser, Content: input})

		l.printf("Assistant: ")
		reply, err := l.dispatch(ctx)
		if err != nil {
			// Remove the just-added user message so the history never
			// keeps a user turn with no assistant turn
			l.conv.Rollback()
			fmt.Fprintf(l.out, "\nError: %v\n", err)
			continue
		}

		l.conv.Add(reply)
	}
}

func (l *Loop) dispatch(ctx context.Context) (llm.Message, error) {
	if l.stream {
		return l.client.StreamCompletion(ctx, l.conv.Messages())
	}
	return l.client.GetCompletion(ctx, l.conv.Messages())
}
