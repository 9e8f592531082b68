// Package app assembles the pipeline from configuration. Strategy selection
// happens here, once: an API credential switches both the embedding and the
// reasoning strategy to their remote variants.
package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/SohamAjmera/Agent-Pipeline/internal/agent"
	"github.com/SohamAjmera/Agent-Pipeline/internal/config"
	"github.com/SohamAjmera/Agent-Pipeline/internal/embedding"
	embopenai "github.com/SohamAjmera/Agent-Pipeline/internal/embedding/openai"
	"github.com/SohamAjmera/Agent-Pipeline/internal/embedding/tfidf"
	"github.com/SohamAjmera/Agent-Pipeline/internal/index"
	"github.com/SohamAjmera/Agent-Pipeline/internal/kb"
	"github.com/SohamAjmera/Agent-Pipeline/internal/llm"
	llmopenai "github.com/SohamAjmera/Agent-Pipeline/internal/llm/openai"
	"github.com/SohamAjmera/Agent-Pipeline/internal/pricetool"
	"github.com/SohamAjmera/Agent-Pipeline/internal/reasoner"
	"github.com/SohamAjmera/Agent-Pipeline/internal/retriever"
)

// NewLogger builds the process logger; debug selects the development config.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// Build wires a controller from config: loads the knowledge base, builds the
// similarity index, and selects the remote or local strategies based on
// credential presence.
func Build(cfg *config.Config, logger *zap.Logger) (*agent.Controller, error) {
	apiKey := cfg.APIKey()
	timeout := time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second

	var emb embedding.Embedder
	var chat llm.ChatModel
	if apiKey != "" {
		client, err := embopenai.NewClient(embopenai.Config{
			BaseURL: cfg.OpenAI.BaseURL,
			APIKey:  apiKey,
			Model:   cfg.OpenAI.EmbeddingModel,
			Timeout: timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("embedding client: %w", err)
		}
		emb = client
		chatClient, err := llmopenai.NewClient(llmopenai.Config{
			BaseURL: cfg.OpenAI.BaseURL,
			APIKey:  apiKey,
			Model:   cfg.OpenAI.LLMModel,
			Timeout: timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("chat client: %w", err)
		}
		chat = chatClient
	} else {
		emb = tfidf.New()
	}
	logger.Info("strategy selected",
		zap.String("embedder", emb.Name()),
		zap.Bool("llm", chat != nil))

	tool, err := pricetool.NewFromCSV(cfg.Paths.PricesCSV)
	if err != nil {
		return nil, err
	}

	ret := retriever.New(index.New(emb))
	ctrl := agent.New(ret, reasoner.New(chat, cfg.PromptVersion), tool, agent.Options{
		TopK:       cfg.TopK,
		ResultsDir: cfg.Paths.ResultsDir,
		Logger:     logger,
	})

	docs, err := kb.Load(cfg.Paths.KBDir)
	if err != nil {
		return nil, err
	}
	if err := ctrl.Reindex(docs); err != nil {
		return nil, err
	}
	return ctrl, nil
}
