package dial

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/themobileprof/dialchat-cli/pkg/llm"
)

// Client implements the llm.Client interface on top of the go-openai
// library. DIAL is wire compatible with the Azure OpenAI API (api-key
// header, /openai/deployments/<name>/chat/completions path), so request
// construction, transport and response decoding are delegated to the
// library.
type Client struct {
	client     *openai.Client
	deployment string
	out        io.Writer
}

// Ensure Client implements llm.Client
var _ llm.Client = (*Client)(nil)

// NewClient creates a new library-backed DIAL client. It fails before any
// network activity when the API key is empty.
func NewClient(config Config) (*Client, error) {
	if err := config.applyDefaults(); err != nil {
		return nil, err
	}

	cfg := openai.DefaultAzureConfig(config.APIKey, config.Endpoint)
	// Deployment names are used verbatim; the default mapper strips dots
	cfg.AzureModelMapperFunc = func(model string) string { return model }
	cfg.HTTPClient = &http.Client{Timeout: config.Timeout}

	return &Client{
		client:     openai.NewClientWithConfig(cfg),
		deployment: config.Deployment,
		out:        config.Output,
	}, nil
}

func toChatMessages(messages []llm.Message) []openai.ChatCompletionMessage {
	converted := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		converted[i] = openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}
	return converted
}

// requestError converts a go-openai error, keeping the HTTP status code
// when the library exposes one.
func requestError(op string, err error) *llm.RequestError {
	reqErr := &llm.RequestError{Op: op, Err: err}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		reqErr.StatusCode = apiErr.HTTPStatusCode
		reqErr.Body = apiErr.Message
	}
	return reqErr
}

// GetCompletion implements llm.Client.GetCompletion
func (c *Client) GetCompletion(ctx context.Context, messages []llm.Message) (llm.Message, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.deployment,
		Messages: toChatMessages(messages),
	})
	if err != nil {
		return llm.Message{}, requestError("completion", err)
	}

	if len(resp.Choices) == 0 {
		return llm.Message{}, &llm.RequestError{Op: "completion", Err: llm.ErrNoChoices}
	}

	content := resp.Choices[0].Message.Content
	fmt.Fprintln(c.out, content)

	return llm.Message{Role: llm.RoleAI, Content: content}, nil
}

// StreamCompletion implements llm.Client.StreamCompletion
func (c *Client) StreamCompletion(ctx context.Context, messages []llm.Message) (llm.Message, error) {
	stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    c.deployment,
		Messages: toChatMessages(messages),
		Stream:   true,
	})
	if err != nil {
		return llm.Message{}, requestError("stream", err)
	}
	defer stream.Close()

	// The library decodes events and folds [DONE] into io.EOF; fragments
	// are consumed sequentially, so emission order matches arrival order
	var full strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return llm.Message{}, requestError("stream", err)
		}

		if len(chunk.Choices) == 0 {
			continue
		}
		fragment := chunk.Choices[0].Delta.Content
		if fragment == "" {
			continue
		}

		fmt.Fprint(c.out, fragment)
		full.WriteString(fragment)
	}
	fmt.Fprintln(c.out)

	return llm.Message{Role: llm.RoleAI, Content: full.String()}, nil
}
