package app

import (
	"fmt"

	"github.com/timewell/timewell-backend/internal/logger"
	"github.com/timewell/timewell-backend/internal/platform/openai"
)

type Clients struct {
	OpenAI openai.Client
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	openaiClient, err := openai.NewClient(log, openai.Config{
		Model:          cfg.CoachModel,
		Temperature:    cfg.CoachTemperature,
		MaxTokens:      cfg.CoachMaxTokens,
		TimeoutSeconds: cfg.CoachTimeoutSeconds,
	})
	if err != nil {
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}
	return Clients{OpenAI: openaiClient}, nil
}
