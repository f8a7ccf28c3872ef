package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"compass/internal/config"
	"compass/internal/domain"
	"compass/internal/embedding/openai"
	"compass/internal/embedding/tfidf"
	"compass/internal/generation"
	"compass/internal/service"
	"compass/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/compass/config.yaml if not provided)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	emb, gen, err := assemble(cfg)
	if err != nil {
		log.Fatalf("failed to assemble components: %v", err)
	}

	boot := service.NewBootstrap(cfg, emb, gen)
	res, err := boot.Resources(context.Background())
	if err != nil {
		log.Fatalf("initialization failed: %v", err)
	}

	summary := fmt.Sprintf("%d products · %d customers · %s embedder", len(res.Documents), res.Profiles.Len(), emb.Name())
	m := tui.New(res.Engine, summary)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}

// assemble builds the embedder and generator selected by the config.
func assemble(cfg *config.AppConfig) (domain.Embedder, domain.Generator, error) {
	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "tfidf", "":
		emb = tfidf.NewEmbedder()
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			return nil, nil, fmt.Errorf("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, nil, err
		}
		emb = client
	default:
		return nil, nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}

	gen, err := generation.NewClient(generation.Config{
		BaseURL:     cfg.Generator.BaseURL,
		APIKeyEnv:   cfg.Generator.APIKeyEnv,
		Model:       cfg.Generator.Model,
		Temperature: cfg.Generator.Temperature,
		Timeout:     time.Duration(cfg.Generator.TimeoutSecs) * time.Second,
	})
	if err != nil {
		return nil, nil, err
	}
	return emb, gen, nil
}
