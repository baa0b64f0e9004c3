// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/recall"
	"github.com/poiesic/recall/config"
	"github.com/poiesic/recall/core"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "recall",
		Usage: "Session-scoped document question answering",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				Value:   "config.yaml",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the storage directory (overrides config)",
			},
			&cli.StringFlag{
				Name:  "ai-host",
				Usage: "OpenAI-compatible service host URL (overrides config)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "upload",
				Usage:     "Store a text file as a session's document and index it",
				ArgsUsage: "<session-id> <file>",
				Action:    uploadCommand,
			},
			{
				Name:      "ask",
				Usage:     "Ask a question about a session's document",
				ArgsUsage: "<session-id> <question>",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of chunks to retrieve",
						Value: 3,
					},
				},
			},
			{
				Name:      "history",
				Usage:     "Show a session's recent conversation turns",
				ArgsUsage: "<session-id>",
				Action:    historyCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of turns to show",
						Value: 20,
					},
				},
			},
			{
				Name:      "delete",
				Usage:     "Remove a session's document, index entries and history",
				ArgsUsage: "<session-id>",
				Action:    deleteCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openEngine builds an Engine from the config file and flag overrides.
func openEngine(c *cli.Context) (*recall.Engine, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if db := c.String("db"); db != "" {
		cfg.StorePath = db
	}
	if host := c.String("ai-host"); host != "" {
		cfg.AI.EmbeddingHost = host
		cfg.AI.GenerationHost = host
	}

	return recall.Open(cfg.StorePath, recall.WithConfig(cfg))
}

func uploadCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: recall upload <session-id> <file>")
	}
	sessionID := c.Args().Get(0)
	path := c.Args().Get(1)

	text, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx := c.Context
	doc := &core.Document{SessionID: sessionID, Text: string(text)}
	if err := engine.Documents().PutDocument(ctx, doc); err != nil {
		return err
	}
	if err := engine.Ingest(ctx, sessionID); err != nil {
		return fmt.Errorf("indexing document: %w", err)
	}

	count, err := engine.Index().Count(ctx, sessionID)
	if err != nil {
		return err
	}
	fmt.Printf("Indexed %s: %d chunks\n", path, count)
	return nil
}

func askCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: recall ask <session-id> <question>")
	}
	sessionID := c.Args().Get(0)
	question := c.Args().Get(1)

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx := c.Context
	answer, err := engine.AskTopK(ctx, sessionID, question, c.Int("top-k"))
	if err != nil {
		return err
	}
	fmt.Println(answer)

	// Record the exchange so later questions carry the conversation.
	now := time.Now().UTC()
	err = engine.History().AppendTurns(ctx, sessionID,
		core.Turn{Role: core.RoleUser, Content: question, Timestamp: now},
		core.Turn{Role: core.RoleAssistant, Content: answer, Timestamp: now},
	)
	if err != nil {
		slog.Warn("failed to record conversation turns", "session", sessionID, "err", err)
	}
	return nil
}

func historyCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: recall history <session-id>")
	}
	sessionID := c.Args().Get(0)

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	turns, err := engine.History().RecentTurns(c.Context, sessionID, c.Int("limit"))
	if err != nil {
		return err
	}

	// RecentTurns is newest-first; print chronologically.
	for i := len(turns) - 1; i >= 0; i-- {
		turn := turns[i]
		fmt.Printf("[%s] %s: %s\n",
			turn.Timestamp.Format(time.RFC3339), turn.Role, turn.Content)
	}
	return nil
}

func deleteCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: recall delete <session-id>")
	}
	sessionID := c.Args().Get(0)

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.DeleteSession(c.Context, sessionID); err != nil {
		return err
	}
	fmt.Printf("Deleted session %s\n", sessionID)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
