// compass-cli produces a single recommendation from the command line, for
// scripting and for smoke-testing a deployment without the TUI.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"compass/internal/config"
	"compass/internal/domain"
	"compass/internal/embedding/openai"
	"compass/internal/embedding/tfidf"
	"compass/internal/errs"
	"compass/internal/generation"
	"compass/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "", "Path to YAML config file")
	customerID := flag.Int("customer", 0, "Customer ID to recommend a product for")
	flag.Parse()
	if *customerID <= 0 {
		fmt.Println("Usage: compass-cli [--config=config.yaml] --customer=125")
		os.Exit(1)
	}

	var cfg *config.AppConfig
	var err error
	if *cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(*cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	emb, gen, err := assemble(cfg)
	if err != nil {
		log.Fatalf("failed to assemble components: %v", err)
	}

	ctx := context.Background()
	boot := service.NewBootstrap(cfg, emb, gen)
	res, err := boot.Resources(ctx)
	if err != nil {
		log.Fatalf("initialization failed: %v", err)
	}

	result, err := res.Engine.Recommend(ctx, *customerID)
	if err != nil {
		if errs.IsNotFound(err) {
			fmt.Fprintf(os.Stderr, "no customer with ID %d\n", *customerID)
			os.Exit(1)
		}
		log.Fatalf("recommendation failed: %v", err)
	}

	fmt.Printf("--- Recommendation for customer %d ---\n\n", *customerID)
	fmt.Println(result.Text)
	fmt.Println("\nRetrieved products:")
	for i, doc := range result.Retrieved {
		fmt.Printf("%d. %s\n", i+1, doc.Text)
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
