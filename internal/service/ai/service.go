package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/insightwave/interviewer/backend/internal/config"
)

// Service wraps the external chat model. Callers treat it as optional:
// a nil *Service means no credentials were configured and every consumer
// falls back to its deterministic path.
type Service struct {
	chatModel model.BaseChatModel
}

// NewService creates the model from configuration.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}
	return &Service{chatModel: chatModel}, nil
}

// NewServiceWithModel wires an existing model instance; used by tests to
// substitute a stub.
func NewServiceWithModel(chatModel model.BaseChatModel) *Service {
	return &Service{chatModel: chatModel}
}

// CallOptions tune a single completion. Zero values mean "leave the
// model's configured default alone".
type CallOptions struct {
	Temperature float32
	MaxTokens   int
	Model       string
}

// Complete runs one system+user exchange and returns the trimmed reply.
func (s *Service) Complete(ctx context.Context, system, user string, opts CallOptions) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user),
	}

	var callOpts []model.Option
	if opts.Temperature > 0 {
		callOpts = append(callOpts, model.WithTemperature(opts.Temperature))
	}
	if opts.MaxTokens > 0 {
		callOpts = append(callOpts, model.WithMaxTokens(opts.MaxTokens))
	}
	if opts.Model != "" {
		callOpts = append(callOpts, model.WithModel(opts.Model))
	}

	response, err := s.chatModel.Generate(ctx, messages, callOpts...)
	if err != nil {
		return "", fmt.Errorf("run completion: %w", err)
	}
	if response == nil || strings.TrimSpace(response.Content) == "" {
		return "", fmt.Errorf("empty model response")
	}

	return strings.TrimSpace(response.Content), nil
}
