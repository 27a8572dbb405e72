package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trip-assistant/internal/conversation"
	"github.com/sells-group/trip-assistant/internal/dialog"
	"github.com/sells-group/trip-assistant/internal/extract"
	"github.com/sells-group/trip-assistant/internal/itinerary"
	"github.com/sells-group/trip-assistant/internal/llm"
	"github.com/sells-group/trip-assistant/internal/planner"
	"github.com/sells-group/trip-assistant/internal/provider"
	"github.com/sells-group/trip-assistant/internal/resilience"
	"github.com/sells-group/trip-assistant/internal/store"
	anthropicpkg "github.com/sells-group/trip-assistant/pkg/anthropic"
	"github.com/sells-group/trip-assistant/pkg/assistants"
	"github.com/sells-group/trip-assistant/pkg/gemini"
	"github.com/sells-group/trip-assistant/pkg/serpapi"
)

// assistantEnv holds the store, controller and clients needed by the serve
// and chat commands.
type assistantEnv struct {
	Store      store.Store
	Controller *conversation.Controller
	Breakers   *resilience.ServiceBreakers
	closers    []func() error
}

// Close releases resources held by the environment.
func (e *assistantEnv) Close() {
	for _, c := range e.closers {
		_ = c()
	}
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func secs(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// initStore opens the configured store and migrates it.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// initAssistant validates config for mode, then builds the store, the LLM
// backend, the providers and the controller. Callers should defer
// env.Close().
func initAssistant(ctx context.Context, mode string) (*assistantEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	env := &assistantEnv{Store: st}

	gen, closeGen, err := initGenerator(ctx)
	if err != nil {
		env.Close()
		return nil, err
	}
	if closeGen != nil {
		env.closers = append(env.closers, closeGen)
	}

	env.Breakers = resilience.NewServiceBreakers(
		resilience.FromCircuitConfig(cfg.Providers.FailureThreshold, cfg.Providers.ResetTimeoutSecs),
	)
	set, err := initProviders(gen, env.Breakers)
	if err != nil {
		env.Close()
		return nil, err
	}

	env.Controller = conversation.New(conversation.Deps{
		Store:       st,
		Extractor:   initExtractor(gen),
		Dialog:      initDialog(gen),
		Planner:     planner.NewAggregator(set, secs(cfg.Providers.TimeoutSecs)),
		Synthesizer: itinerary.NewSynthesizer(gen, secs(cfg.Planner.SynthesisTimeoutSecs)),
		FollowUp:    itinerary.NewFollowUp(gen, secs(cfg.Planner.FollowUpTimeoutSecs), cfg.Planner.PromptHistory),
	},
		conversation.WithHistoryLimit(cfg.Store.HistoryLimit),
		conversation.WithHorizon(cfg.Planner.HorizonDays),
		conversation.WithCurrency(cfg.SerpAPI.Currency),
	)

	zap.L().Info("assistant ready",
		zap.String("store", cfg.Store.Driver),
		zap.String("llm", cfg.LLM.Provider),
		zap.String("extractor", cfg.Planner.Extractor),
		zap.String("dialog", cfg.Planner.Dialog),
		zap.String("providers", cfg.Providers.Mode),
	)
	return env, nil
}

// initGenerator builds the text-generation backend. The returned closer may
// be nil.
func initGenerator(ctx context.Context) (llm.Generator, func() error, error) {
	retry := resilience.FromRetryConfig(cfg.LLM.RetryAttempts, cfg.LLM.RetryBackoffMs, 0)

	switch cfg.LLM.Provider {
	case "gemini":
		client, err := gemini.NewClient(ctx, cfg.Gemini.Key, cfg.Gemini.Model)
		if err != nil {
			return nil, nil, eris.Wrap(err, "init gemini")
		}
		return llm.NewGeminiGenerator(client, cfg.Gemini.MaxTokens, retry), client.Close, nil
	default:
		client := anthropicpkg.NewClient(cfg.Anthropic.Key)
		return llm.NewAnthropicGenerator(client, cfg.Anthropic.Model, cfg.Anthropic.ExtractionModel, cfg.Anthropic.MaxTokens, retry), nil, nil
	}
}

func initExtractor(gen llm.Generator) extract.Engine {
	opts := []extract.Option{extract.WithHorizon(cfg.Planner.HorizonDays)}
	rules := extract.NewRuleExtractor(opts...)

	switch cfg.Planner.Extractor {
	case "rules":
		return rules
	case "llm":
		return extract.NewLLMExtractor(gen, secs(cfg.Planner.ExtractionTimeoutSecs), opts...)
	default:
		return extract.NewHybrid(extract.NewLLMExtractor(gen, secs(cfg.Planner.ExtractionTimeoutSecs), opts...), rules)
	}
}

func initDialog(gen llm.Generator) dialog.Context {
	switch cfg.Planner.Dialog {
	case "template":
		return dialog.Template{}
	case "thread":
		client := assistants.NewClient(cfg.OpenAI.Key, assistants.WithBaseURL(cfg.OpenAI.BaseURL))
		return dialog.NewThread(client, cfg.OpenAI.AssistantID, assistants.WithPollTimeout(secs(cfg.OpenAI.PollTimeout)))
	default:
		return dialog.NewLocal(gen, cfg.Planner.PromptHistory, secs(cfg.LLM.TimeoutSecs))
	}
}

func initProviders(gen llm.Generator, breakers *resilience.ServiceBreakers) (provider.Set, error) {
	if cfg.Providers.Mode == "fixture" {
		fx, err := provider.LoadFixtures(cfg.Providers.FixturePath)
		if err != nil {
			return provider.Set{}, eris.Wrap(err, "load provider fixtures")
		}
		zap.L().Warn("using fixture providers", zap.String("path", cfg.Providers.FixturePath))
		return fx.Set(), nil
	}

	client := serpapi.NewClient(cfg.SerpAPI.Key,
		serpapi.WithBaseURL(cfg.SerpAPI.BaseURL),
		serpapi.WithRateLimit(cfg.SerpAPI.RatePerSec),
		serpapi.WithCurrency(cfg.SerpAPI.Currency),
	)
	return provider.NewSerpAPI(client, provider.NewAirportResolver(gen), breakers, cfg.SerpAPI.Currency).Set(), nil
}
