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
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/quarry"
	"github.com/poiesic/quarry/core"
	"github.com/poiesic/quarry/ingestion"
	"github.com/poiesic/quarry/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
)

var errQueryRequired = errors.New("query is required")

func indexCommand(c *cli.Context) error {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.Int("report-interval") <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}

	store, err := quarry.OpenStore(cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	docsPath := c.String("docs")
	source := ingestion.SourceFunc[quarry.Entry](func(context.Context) ([]quarry.Entry, error) {
		return readEntries(docsPath)
	})

	indexer, err := quarry.NewIndexer(store, source,
		ingestion.WithPoolSize(c.Int("workers")),
		ingestion.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
		ingestion.WithProgress(c.App.ErrWriter, c.Int("report-interval")),
		ingestion.WithLogger(slog.Default()),
	)
	if err != nil {
		return fmt.Errorf("failed to create indexer: %w", err)
	}
	defer indexer.Release()

	fmt.Fprintf(c.App.ErrWriter, "Database: %s\n", cfg.Storage.Dir)
	fmt.Fprintf(c.App.ErrWriter, "Docs: %s\n", docsPath)
	fmt.Fprintln(c.App.ErrWriter)

	report, err := indexer.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "run %s: fetched=%d upserted=%d removed=%d failed=%d in %s\n",
		report.RunID, report.Fetched, report.Upserted, report.Removed, report.Failed, report.Elapsed)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	raw := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(raw) == "" {
		return errQueryRequired
	}

	opts, err := queryOptions(c)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	store, err := quarry.OpenStore(cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	registry := prometheus.NewRegistry()
	monitor, err := metrics.New(registry)
	if err != nil {
		return err
	}

	catalog, err := quarry.NewCatalog(store, cfg,
		quarry.WithLogger(slog.Default()),
		quarry.WithMonitor(monitor))
	if err != nil {
		return fmt.Errorf("failed to create catalog: %w", err)
	}

	result, err := catalog.Search(ctx, raw, opts...)
	if path := c.String("metrics-file"); path != "" {
		if werr := prometheus.WriteToTextfile(path, registry); werr != nil {
			slog.Warn("error writing metrics", "path", path, "err", werr)
		}
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "%s (%s)\n", result.Summary, result.Mode)
	for i, item := range result.Items {
		fmt.Fprintf(w, "%d. [%s] %s (%s) score=%d\n", i+1, item.Doc.Category, item.Doc.Title, item.Doc.ID, item.Score)
	}
	if len(result.Suggestions) > 0 {
		fmt.Fprintf(w, "Try: %s\n", strings.Join(result.Suggestions, ", "))
	}
	return nil
}

func classifyCommand(c *cli.Context) error {
	raw := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(raw) == "" {
		return errQueryRequired
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	classifier, err := cfg.BuildClassifier()
	if err != nil {
		return err
	}
	keywords, err := cfg.BuildKeywords()
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, classifier.Classify(raw))
	if categories := keywords.InferFromQuery(raw); len(categories) > 0 {
		fmt.Fprintf(c.App.Writer, "categories: %s\n", strings.Join(categories, ", "))
	}
	return nil
}

func loadConfig(c *cli.Context) (*quarry.Config, error) {
	cfg := quarry.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := quarry.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if c.IsSet("db") {
		cfg.Storage.Dir = c.String("db")
	}
	return cfg, nil
}

func queryOptions(c *cli.Context) ([]core.QueryOption, error) {
	opts := []core.QueryOption{core.WithMaxResults(c.Int("limit"))}

	if m := c.String("mode"); m != "" {
		mode, err := core.ParseMode(m)
		if err != nil {
			return nil, err
		}
		opts = append(opts, core.WithMode(mode))
	}

	filters, err := parseFilters(c.StringSlice("filter"))
	if err != nil {
		return nil, err
	}
	if len(filters) > 0 {
		opts = append(opts, core.WithFilters(filters))
	}
	return opts, nil
}

// parseFilters turns key=value pairs into query filters.
func parseFilters(pairs []string) (map[string]any, error) {
	filters := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid filter %q: expected key=value", pair)
		}
		filters[key] = strings.TrimSpace(value)
	}
	return filters, nil
}

// readEntries parses a JSON-lines file. Blank lines are skipped.
func readEntries(path string) ([]quarry.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []quarry.Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var e quarry.Entry
		if err := json.Unmarshal([]byte(text), &e); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
