package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"time"

	"ai-blog-summarizer-be/internal/bootstrap"
	"ai-blog-summarizer-be/internal/config"
	"ai-blog-summarizer-be/internal/pkg/logger"
	"ai-blog-summarizer-be/pkg/utils"

	"github.com/fatih/color"
)

// Runs the summarization pipeline once, synchronously, on a file or stdin.
func main() {
	model := flag.String("model", "", "model id (empty selects by text length)")
	memory := flag.Bool("memory", false, "use the in-memory cache instead of Redis")
	flag.Parse()

	input, err := readInput(flag.Arg(0))
	if err != nil {
		color.Red("Failed to read input: %v", err)
		os.Exit(1)
	}

	cfg := config.Load()
	if *memory {
		cfg.Summarizer.CacheBackend = "memory"
	}
	cfg.Summarizer.QueueBackend = "channel"

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Summarizer.JobTimeout)
	defer cancel()

	container, err := bootstrap.NewContainer(ctx, nil, cfg, logger.NewNopLogger())
	if err != nil {
		log.Fatalf("Unable to bootstrap: %v", err)
	}
	defer container.Close()

	color.Cyan("🚀 Summarizing %d words\n", utils.CountWords(input))

	start := time.Now()
	res, err := container.Pipeline.Summarize(ctx, input, *model)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}

	color.Yellow("\nSummary (%s, %s)", res.Source, time.Since(start).Round(time.Millisecond))
	color.White(res.Summary)

	color.Green("\nwords=%d chunks=%d failed_chunks=%d ratio=%.2f model=%s",
		res.WordCount, res.Chunks, res.FailedChunks, res.Ratio, res.Model)
	if res.Similarity > 0 {
		color.Green("semantic similarity=%.4f", res.Similarity)
	}
}

func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}
