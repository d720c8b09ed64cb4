package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"gridadventure/internal/debug"
	"gridadventure/internal/game"
	"gridadventure/internal/observability"
)

const DefaultBaseURL = "http://localhost:1234/v1/"

var (
	// ErrTransport covers connection failures and non-2xx responses.
	ErrTransport = errors.New("chat completion request failed")
	// ErrMalformedResponse means the reply had no choices[0].message.content.
	ErrMalformedResponse = errors.New("malformed chat completion response")
)

type Config struct {
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	Settings game.ModelSettings
}

// Service sends whole transcripts to an OpenAI-compatible chat completion
// endpoint, one synchronous request per call and no retries.
type Service struct {
	client   *openai.Client
	settings game.ModelSettings
	baseURL  string
	debug    *debug.Logger
	tracer   trace.Tracer
}

func NewService(cfg Config, debug *debug.Logger) *Service {
	baseURL := normalizeBaseURL(cfg.BaseURL)
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	client := openai.NewClient(opts...)
	return &Service{
		client:   &client,
		settings: cfg.Settings,
		baseURL:  baseURL,
		debug:    debug,
		tracer:   otel.Tracer("llm-service"),
	}
}

func (s *Service) Settings() game.ModelSettings {
	return s.settings
}

func (s *Service) Send(ctx context.Context, transcript []game.Message) (game.Message, error) {
	ctx, span := s.tracer.Start(ctx, "llm.chat_completion",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			observability.CreateGenAIAttributes("openai", s.settings.Model, s.settings.MaxTokens, s.settings.Temperature)...,
		),
	)
	defer span.End()

	span.SetAttributes(
		attribute.Int("gen_ai.request.message_count", len(transcript)),
		attribute.String("langfuse.observation.type", "generation"),
		attribute.String("server.address", s.baseURL),
	)
	if sid := observability.SessionIDFromContext(ctx); sid != "" {
		span.SetAttributes(attribute.String("session.id", sid))
	}

	messages, err := toParams(transcript)
	if err != nil {
		span.RecordError(err)
		return game.Message{}, err
	}

	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(s.settings.Model),
		Messages:    messages,
		Temperature: openai.Float(s.settings.Temperature),
		MaxTokens:   openai.Int(s.settings.MaxTokens),
	}

	s.debug.Printf("Chat completion - model: %s, messages: %d, base URL: %s", s.settings.Model, len(messages), s.baseURL)

	startTime := time.Now()
	resp, err := s.client.Chat.Completions.New(ctx, params, option.WithJSONSet("stream", s.settings.Stream))
	if err != nil {
		span.SetAttributes(attribute.String("error.type", "llm_completion_error"))
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat completion failed")
		s.debug.Printf("Chat completion error: %v", err)

		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return game.Message{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return game.Message{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("%w: no choices returned", ErrMalformedResponse)
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed response")
		return game.Message{}, err
	}
	choice := resp.Choices[0]
	if !choice.Message.JSON.Content.Valid() {
		err := fmt.Errorf("%w: first choice has no message content", ErrMalformedResponse)
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed response")
		return game.Message{}, err
	}

	content := choice.Message.Content
	duration := time.Since(startTime)

	span.SetAttributes(
		attribute.Int64("gen_ai.usage.input_tokens", resp.Usage.PromptTokens),
		attribute.Int64("gen_ai.usage.output_tokens", resp.Usage.CompletionTokens),
		attribute.Int64("response_time_ms", duration.Milliseconds()),
		attribute.String("langfuse.observation.output", content),
	)
	span.AddEvent("gen_ai.choice", trace.WithAttributes(
		attribute.String("gen_ai.system", "openai"),
		attribute.String("content", content),
	))

	s.debug.Printf("Chat completion response length: %d, finish_reason: %s, duration: %v", len(content), choice.FinishReason, duration)

	return game.Message{Role: game.RoleAssistant, Content: content}, nil
}

func toParams(transcript []game.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(transcript))
	for i, msg := range transcript {
		switch msg.Role {
		case game.RoleSystem:
			messages = append(messages, openai.SystemMessage(msg.Content))
		case game.RoleUser:
			messages = append(messages, openai.UserMessage(msg.Content))
		case game.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			return nil, fmt.Errorf("message %d has unsupported role %q", i, msg.Role)
		}
	}
	return messages, nil
}

// normalizeBaseURL accepts either the API root or the full
// .../chat/completions endpoint and returns the root with a trailing slash.
func normalizeBaseURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return DefaultBaseURL
	}
	u = strings.TrimSuffix(u, "/")
	u = strings.TrimSuffix(u, "/chat/completions")
	return u + "/"
}
