package dial

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/themobileprof/dialchat-cli/pkg/llm"
)

// HTTPClient implements the llm.Client interface against the DIAL API
// using raw HTTP requests. Unlike Client it builds every request by hand
// and logs the full exchange (with the API key redacted), which makes it
// useful for inspecting what actually goes over the wire.
type HTTPClient struct {
	apiKey     string
	endpoint   string
	deployment string
	httpClient *http.Client
	out        io.Writer
	logger     *log.Logger
	timeout    time.Duration
}

// Ensure HTTPClient implements llm.Client
var _ llm.Client = (*HTTPClient)(nil)

// Config holds configuration shared by both DIAL client implementations.
type Config struct {
	APIKey     string
	Endpoint   string        // Default: https://ai-proxy.lab.epam.com
	Deployment string        // Default: gpt-4
	Timeout    time.Duration // Default: 120s
	Output     io.Writer     // Sink for assistant text. Default: os.Stdout
	Logger     *log.Logger   // Default: log.Default()
}

const (
	defaultEndpoint   = "https://ai-proxy.lab.epam.com"
	defaultDeployment = "gpt-4"
	defaultTimeout    = 120 * time.Second
)

func (c *Config) applyDefaults() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return &llm.ConfigError{Field: "APIKey", Reason: "must not be empty"}
	}
	if c.Endpoint == "" {
		c.Endpoint = defaultEndpoint
	}
	if c.Deployment == "" {
		c.Deployment = defaultDeployment
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.Output == nil {
		c.Output = os.Stdout
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
	return nil
}

// NewHTTPClient creates a new direct DIAL client. It fails before any
// network activity when the API key is empty.
func NewHTTPClient(config Config) (*HTTPClient, error) {
	if err := config.applyDefaults(); err != nil {
		return nil, err
	}

	// Connection reuse across turns of the same session
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	return &HTTPClient{
		apiKey:     config.APIKey,
		endpoint:   strings.TrimRight(config.Endpoint, "/"),
		deployment: config.Deployment,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
		out:     config.Output,
		logger:  config.Logger,
		timeout: config.Timeout,
	}, nil
}

func (c *HTTPClient) completionURL() string {
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions", c.endpoint, c.deployment)
}

func (c *HTTPClient) newRequest(ctx context.Context, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.completionURL(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.apiKey)
	return req, nil
}

// logRequest logs the outbound request with the API key redacted. Purely
// observational; it never changes what is sent.
func (c *HTTPClient) logRequest(req *http.Request, body []byte) {
	c.logger.Printf("request: %s %s", req.Method, req.URL)
	for name := range req.Header {
		value := req.Header.Get(name)
		if strings.EqualFold(name, "Api-Key") {
			value = "[REDACTED]"
		}
		c.logger.Printf("request header: %s: %s", name, value)
	}
	c.logger.Printf("request body: %s", body)
}

// GetCompletion implements llm.Client.GetCompletion
func (c *HTTPClient) GetCompletion(ctx context.Context, messages []llm.Message) (llm.Message, error) {
	body, err := json.Marshal(llm.ChatRequest{Messages: messages})
	if err != nil {
		return llm.Message{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := c.newRequest(ctx, body)
	if err != nil {
		return llm.Message{}, err
	}
	c.logRequest(req, body)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return llm.Message{}, &llm.RequestError{Op: "completion", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.Message{}, &llm.RequestError{Op: "completion", Err: err}
	}

	c.logger.Printf("response: status %d", resp.StatusCode)
	c.logger.Printf("response body: %s", respBody)

	if resp.StatusCode != http.StatusOK {
		return llm.Message{}, &llm.RequestError{
			Op:         "completion",
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	var chatResp llm.ChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return llm.Message{}, &llm.RequestError{Op: "completion", Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if len(chatResp.Choices) == 0 {
		return llm.Message{}, &llm.RequestError{Op: "completion", Err: llm.ErrNoChoices}
	}

	content := chatResp.Choices[0].Message.Content
	fmt.Fprintln(c.out, content)

	return llm.Message{Role: llm.RoleAI, Content: content}, nil
}

// StreamCompletion implements llm.Client.StreamCompletion
func (c *HTTPClient) StreamCompletion(ctx context.Context, messages []llm.Message) (llm.Message, error) {
	body, err := json.Marshal(llm.ChatRequest{Messages: messages, Stream: true})
	if err != nil {
		return llm.Message{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := c.newRequest(ctx, body)
	if err != nil {
		return llm.Message{}, err
	}
	c.logRequest(req, body)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return llm.Message{}, &llm.RequestError{Op: "stream", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Printf("response: status %d", resp.StatusCode)
		c.logger.Printf("response body: %s", respBody)
		return llm.Message{}, &llm.RequestError{
			Op:         "stream",
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	c.logger.Printf("response: status %d (streaming)", resp.StatusCode)

	// Fragments are pulled, emitted and accumulated by a single sequential
	// consumer, so emission order matches arrival order
	var full strings.Builder
	dec := NewDecoder(resp.Body)
	for {
		fragment, err := dec.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return llm.Message{}, &llm.RequestError{Op: "stream", Err: err}
		}
		fmt.Fprint(c.out, fragment)
		full.WriteString(fragment)
	}
	fmt.Fprintln(c.out)

	c.logger.Printf("response body: %s", full.String())

	return llm.Message{Role: llm.RoleAI, Content: full.String()}, nil
}
