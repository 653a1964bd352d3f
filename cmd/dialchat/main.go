package main

import (
	"context"
	"log"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/themobileprof/dialchat-cli/internal/config"
	"github.com/themobileprof/dialchat-cli/internal/session"
	"github.com/themobileprof/dialchat-cli/pkg/dial"
	"github.com/themobileprof/dialchat-cli/pkg/llm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	client, err := newClient(cfg)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	interactive := isatty.IsTerminal(os.Stdin.Fd())

	loop := session.NewLoop(session.Config{
		Client: client,
		Stream: cfg.Stream,
		Input:  os.Stdin,
		Output: os.Stdout,
		Prompt: interactive,
	})

	if err := loop.Run(context.Background()); err != nil {
		log.Fatalf("Session error: %v", err)
	}
}

func newClient(cfg config.Config) (llm.Client, error) {
	clientConfig := dial.Config{
		APIKey:     cfg.APIKey,
		Endpoint:   cfg.Endpoint,
		Deployment: cfg.Deployment,
	}

	if cfg.Client == config.ClientHTTP {
		return dial.NewHTTPClient(clientConfig)
	}
	return dial.NewClient(clientConfig)
}
