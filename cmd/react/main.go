package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/comigor/react-go/internal/agent"
	"github.com/comigor/react-go/internal/config"
	"github.com/comigor/react-go/internal/history"
	"github.com/comigor/react-go/internal/llm"
	"github.com/comigor/react-go/internal/logger"
	"github.com/comigor/react-go/internal/mcpserver"
	"github.com/comigor/react-go/internal/server"
	"github.com/comigor/react-go/internal/shell"
	"github.com/comigor/react-go/pkg/tools"
)

var version = "dev"

const usage = `usage: react [shell|serve|mcp]

  shell  interactive prompt (default)
  serve  HTTP endpoint: POST / with the query as body
  mcp    MCP server over stdio`

func main() {
	mode := "shell"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.L.Warn("failed to load .env", "error", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.L.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.LogLevel)

	llmClient := llm.NewClient(cfg.LLM)
	webSearch := tools.NewWebSearchTool(cfg.Search)

	switch mode {
	case "shell":
		err = runShell(cfg, llmClient, webSearch)
	case "serve":
		err = runServer(cfg, agent.New(llmClient, webSearch, *cfg))
	case "mcp":
		err = mcpserver.ServeStdio(mcpserver.New(agent.New(llmClient, webSearch, *cfg), version, webSearch))
	case "-h", "--help", "help":
		fmt.Println(usage)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.L.Error("exited with error", "mode", mode, "error", err)
		os.Exit(1)
	}
}

func runShell(cfg *config.Config, llmClient llm.Client, searcher tools.Searcher) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := history.Open(cfg.History.DBPath)
	defer store.Close()

	a := agent.New(llmClient, searcher, *cfg, agent.WithHooks(shell.StepHooks(os.Stdout)))
	return shell.New(a, store, cfg.LLM.Model, os.Stdin, os.Stdout).Run(ctx)
}

func runServer(cfg *config.Config, a *agent.Agent) error {
	serverAddr := cfg.Server.Addr()
	logger.L.Info("starting server", "address", serverAddr)
	return http.ListenAndServe(serverAddr, server.NewHandler(a))
}
