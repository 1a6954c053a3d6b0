package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dealdesk/memopipe/internal/config"
	"github.com/dealdesk/memopipe/internal/core"
	"github.com/dealdesk/memopipe/internal/core/contextual"
	"github.com/dealdesk/memopipe/internal/core/memo"
	"github.com/dealdesk/memopipe/internal/core/model"
	"github.com/dealdesk/memopipe/internal/index"
	"github.com/dealdesk/memopipe/internal/llm"
	"github.com/dealdesk/memopipe/internal/websearch"
)

// MemoRunner is what the handlers need from the pipeline; tests substitute
// a scripted implementation.
type MemoRunner interface {
	Run(ctx context.Context, deckText string) (*model.StartupProfile, error)
}

type Server struct {
	Pipeline MemoRunner
	Narrator *memo.Narrator
}

func NewServer() *Server {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Warning: could not load %s, using defaults: %v", cfgPath, err)
		cfg = config.Default()
	}

	// Env vars win over the file for deploy-time overrides.
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_EMBEDDING_MODEL"); v != "" {
		cfg.LLM.EmbeddingModel = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("MEMGRAPH_URI"); v != "" {
		cfg.Index.Provider = "memgraph"
		cfg.Index.URI = v
		cfg.Index.User = os.Getenv("MEMGRAPH_USER")
		cfg.Index.Password = os.Getenv("MEMGRAPH_PASSWORD")
	}

	client, embedder, err := llm.NewPipelineClient(context.Background(), cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	var idx index.DocumentIndex
	switch cfg.Index.Provider {
	case "memgraph":
		mg, err := index.NewMemgraphIndex(cfg.Index.URI, cfg.Index.User, cfg.Index.Password, embedder)
		if err != nil {
			log.Fatalf("Failed to connect to Memgraph: %v", err)
		}
		if err := mg.BuildIndices(context.Background()); err != nil {
			log.Printf("Warning: could not build Memgraph indices: %v", err)
		}
		idx = mg
	default:
		idx = index.NewMemoryIndex(embedder)
	}

	asm := contextual.NewAssembler(idx, nil)
	if cfg.Search.Enabled {
		asm.Searcher = websearch.NewClient()
	}
	if cfg.Search.KLocal > 0 {
		asm.KLocal = cfg.Search.KLocal
	}
	if cfg.Search.KWeb > 0 {
		asm.KWeb = cfg.Search.KWeb
	}
	if cfg.Search.PageChars > 0 {
		asm.PerPageChars = cfg.Search.PageChars
	}
	if cfg.Search.MaxContextChars > 0 {
		asm.MaxChars = cfg.Search.MaxContextChars
	}
	if cfg.Search.FetchTimeoutSeconds > 0 {
		asm.FetchTimeout = time.Duration(cfg.Search.FetchTimeoutSeconds) * time.Second
	}
	if cfg.Search.Rerank {
		asm.Reranker = llm.NewSimpleLLMReranker(client)
	}

	return &Server{
		Pipeline: core.NewPipeline(client, idx, asm, cfg.Prompts),
		Narrator: memo.NewNarrator(client, cfg.Prompts.ExecutiveSummary),
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.POST("/memos", s.CreateMemo)
	r.POST("/memos/markdown", s.CreateMemoMarkdown)

	return r
}

type CreateMemoRequest struct {
	DeckText string `json:"deck_text"`
}

func (s *Server) CreateMemo(c *gin.Context) {
	profile, ok := s.runPipeline(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) CreateMemoMarkdown(c *gin.Context) {
	profile, ok := s.runPipeline(c)
	if !ok {
		return
	}

	summary := ""
	if s.Narrator != nil {
		summary = s.Narrator.ExecutiveSummary(c.Request.Context(), profile)
	}
	c.String(http.StatusOK, memo.Markdown(profile, summary))
}

func (s *Server) runPipeline(c *gin.Context) (*model.StartupProfile, bool) {
	var req CreateMemoRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DeckText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deck_text is required"})
		return nil, false
	}

	profile, err := s.Pipeline.Run(c.Request.Context(), req.DeckText)
	if err != nil {
		log.Printf("Pipeline failed: %v", err)
		var stepErr *core.StepError
		if errors.As(err, &stepErr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "pipeline failed", "step": stepErr.Step})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "pipeline failed"})
		return nil, false
	}
	return profile, true
}
