package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/dealdesk/memopipe/internal/config"
	"github.com/dealdesk/memopipe/internal/core"
	"github.com/dealdesk/memopipe/internal/core/contextual"
	"github.com/dealdesk/memopipe/internal/core/memo"
	"github.com/dealdesk/memopipe/internal/index"
	"github.com/dealdesk/memopipe/internal/llm"
	"github.com/dealdesk/memopipe/internal/websearch"
)

// memo runs the whole pipeline over one deck text file and prints the
// investment memo, writing the profile JSON next to it.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	if len(os.Args) < 2 {
		log.Fatalf("usage: %s <deck-text-file>", os.Args[0])
	}

	deck, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to read deck: %v", err)
	}

	cfg := config.Default()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		cfg, err = config.Load(path)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}

	ctx := context.Background()
	client, embedder, err := llm.NewPipelineClient(ctx, cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	idx := index.NewMemoryIndex(embedder)
	asm := contextual.NewAssembler(idx, nil)
	if cfg.Search.Enabled {
		asm.Searcher = websearch.NewClient()
	}

	pipeline := core.NewPipeline(client, idx, asm, cfg.Prompts)

	profile, err := pipeline.Run(ctx, string(deck))
	if err != nil {
		var stepErr *core.StepError
		if errors.As(err, &stepErr) {
			log.Fatalf("Pipeline aborted at step %q: %v", stepErr.Step, stepErr.Err)
		}
		log.Fatalf("Pipeline failed: %v", err)
	}

	summary := memo.NewNarrator(client, cfg.Prompts.ExecutiveSummary).ExecutiveSummary(ctx, profile)
	fmt.Println(memo.Markdown(profile, summary))

	out, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		log.Fatalf("Failed to serialize profile: %v", err)
	}
	if err := os.WriteFile("profile.json", out, 0o644); err != nil {
		log.Fatalf("Failed to write profile.json: %v", err)
	}
	log.Println("Wrote profile.json")
}
