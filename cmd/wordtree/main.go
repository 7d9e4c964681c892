// Copyright 2025 The wordtree Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the wordtree prompt and batch pipe.

wordtree loads a word list into a ternary search tree and suggests words for
whatever is typed at its prompt, ranked by edit distance. A query that is
not in the dictionary is shortened until it matches, and every word below
the match is offered:

	> cat
	(1) ca|r
	(1) ca|rt

The part before the separator is what matched the dictionary, the part after
it is the completion.

# Usage

Start the prompt with the dictionary from the config file:

	wordtree

Use another word list and enable debug logging:

	wordtree -dict /usr/share/dict/words -d

Answer queries from another process, one line in, one msgpack response out:

	wordtree -batch < queries.txt

# Dictionaries

A dictionary is either a text file with one word per line, or a directory of
binary chunks named dict_0001.bin, dict_0002.bin, ... which are loaded in
order until dict.max_words is reached. The tree never rebalances, so the
insertion order shapes lookups: -order balanced inserts medians first.

# Configuration

The config file lives in the user's config directory as wordtree.toml and is
created with defaults on first run:

	[dict]
	path = "dict.txt"
	order = "input"
	max_nodes = 0

	[suggest]
	limit = 24
	separator = "|"

	[log]
	verbosity = "info"

Flags given on the command line override the file.

# Command Line Flags

	-version
	    Show current version
	-config string
	    Path to a config file
	-dict string
	    Word list file or chunk directory
	-d  Enable debug mode with detailed logging
	-batch
	    Answer stdin queries with msgpack responses instead of the prompt
	-limit int
	    Number of suggestions to return
	-order string
	    Insertion order: input, shuffle or balanced
	-max-nodes int
	    Node pool capacity, 0 for unbounded
	-no-filter
	    Disable prompt input filtering
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/wordtree/internal/cli"
	"github.com/bastiangx/wordtree/internal/logger"
	"github.com/bastiangx/wordtree/internal/utils"
	"github.com/bastiangx/wordtree/pkg/batch"
	"github.com/bastiangx/wordtree/pkg/config"
	"github.com/bastiangx/wordtree/pkg/dictionary"
	"github.com/bastiangx/wordtree/pkg/suggest"
	"github.com/bastiangx/wordtree/pkg/tst"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "wordtree"
	gh      = "https://github.com/bastiangx/wordtree"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires config, dictionary and completer together and hands over to
// the prompt or the batch pipe.
func main() {
	sigHandler()
	defaults := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to a config file")
	dictPath := flag.String("dict", defaults.Dict.Path, "Word list file or chunk directory")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	batchMode := flag.Bool("batch", false, "Answer stdin queries with msgpack responses")
	limit := flag.Int("limit", defaults.Suggest.Limit, "Number of suggestions to return")
	order := flag.String("order", defaults.Dict.Order, "Insertion order: input, shuffle or balanced")
	maxNodes := flag.Int("max-nodes", defaults.Dict.MaxNodes, "Node pool capacity (0 for unbounded)")
	noFilter := flag.Bool("no-filter", defaults.CLI.NoFilter, "Disable prompt input filtering")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	}

	cfg, usedConfig, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Explicit flags win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dict":
			cfg.Dict.Path = *dictPath
		case "limit":
			cfg.Suggest.Limit = *limit
		case "order":
			cfg.Dict.Order = *order
		case "max-nodes":
			cfg.Dict.MaxNodes = *maxNodes
		case "no-filter":
			cfg.CLI.NoFilter = *noFilter
		}
	})
	cfg.Validate()

	if !*debugMode {
		if err := logger.SetVerbosity(cfg.Log.Verbosity); err != nil {
			log.Warnf("%v", err)
		}
	}
	log.Debugf("Using config: %s", config.GetActiveConfigPath(usedConfig))

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}
	if *debugMode {
		log.Debug("Runtime", "info", pathResolver.GetRuntimeInfo())
	}

	completer := suggest.NewCompleterWithPool(tst.NewPool(cfg.Dict.MaxNodes), suggest.Options{
		Limit:       cfg.Suggest.Limit,
		MaxDistance: cfg.Suggest.MaxDistance,
		Separator:   cfg.Suggest.Separator,
		RestoreCase: cfg.Suggest.RestoreCase,
		CacheSize:   cfg.Suggest.CacheSize,
	})

	loader := loadDictionary(pathResolver.GetDictPath(cfg.Dict.Path), cfg, completer)

	if *batchMode {
		processor := batch.NewProcessor(completer, cfg.Suggest.Limit, cfg.CLI.MaxLen)
		if err := processor.Run(os.Stdin, os.Stdout); err != nil {
			log.Fatalf("Batch error: %v", err)
		}
		return
	}

	log.SetReportTimestamp(false)
	log.Debug("Input info:",
		"minLen", cfg.CLI.MinLen,
		"maxLen", cfg.CLI.MaxLen,
		"limit", cfg.Suggest.Limit,
		"noFilter", cfg.CLI.NoFilter)

	inputHandler := cli.NewInputHandler(completer, cli.Options{
		Prompt:   cfg.CLI.Prompt,
		MinLen:   cfg.CLI.MinLen,
		MaxLen:   cfg.CLI.MaxLen,
		Limit:    cfg.Suggest.Limit,
		NoFilter: cfg.CLI.NoFilter,
	})
	if loader != nil {
		inputHandler.SetChunkLoader(loader)
	}
	if err := inputHandler.Start(); err != nil {
		log.Fatalf("CLI error: %v", err)
	}
}

// loadDictionary fills the completer. A pool that runs out part way keeps
// the words loaded so far; any other failure leaves an empty dictionary that
// can still be grown with :add.
func loadDictionary(path string, cfg *config.Config, completer *suggest.Completer) *dictionary.ChunkLoader {
	format, _ := dictionary.ParseFormat(cfg.Dict.Format)
	order, _ := dictionary.ParseOrder(cfg.Dict.Order)
	opts := dictionary.Options{
		Order:       order,
		Seed:        uint64(cfg.Dict.Seed),
		MaxWords:    cfg.Dict.MaxWords,
		FoldAccents: cfg.Dict.FoldAccents,
	}

	stats, loader, err := dictionary.Open(path, format, completer, opts)
	switch {
	case errors.Is(err, tst.ErrPoolExhausted):
		log.Warnf("Dictionary truncated at %d words: %v", stats.Inserted, err)
	case err != nil:
		log.Errorf("Failed to load dictionary: %v", err)
		log.Warn("Running with an empty dictionary...")
		return nil
	}

	nodes := completer.Stats()["nodes"]
	log.Info("Dictionary loaded",
		"path", utils.GetAbsolutePath(path),
		"words", stats.Inserted,
		"nodes", nodes,
		"duplicates", stats.Duplicates,
		"took", stats.Elapsed)
	if stats.Truncated {
		log.Infof("Stopped at dict.max_words=%d", cfg.Dict.MaxWords)
	}
	return loader
}

// printVersion shows the version banner.
func printVersion() {
	l := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Printf("[ %s ] Suggests words by edit distance", AppName)
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}
