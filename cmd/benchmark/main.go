package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"scriptscan/config"
	"scriptscan/internal/adapter/cache"
	"scriptscan/internal/adapter/fs"
	"scriptscan/internal/adapter/memstore"
	"scriptscan/internal/usecase"
)

func main() {
	root := flag.String("dir", ".", "Directory to scan")
	rounds := flag.Int("n", 3, "Number of warm rounds")
	flag.Parse()

	cfg, err := config.LoadFromDir(*root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	st := memstore.NewMemoryStore()
	uc := usecase.NewScanUseCase(
		st,
		fs.NewWalker(cfg.Scan.Includes, cfg.Scan.Excludes),
		fs.NewResolver(*root),
		usecase.ScanOptions{
			Directive: cfg.Scan.Directive,
			Cache:     cache.NewReportCache(cfg.Cache.MemoryEntries),
			Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		},
	)

	fmt.Println("SCAN BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))

	start := time.Now()
	cold, err := uc.Scan(context.Background(), *root, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Scan error: %v\n", err)
		os.Exit(1)
	}
	coldTime := time.Since(start)

	stats, _ := st.GetStats()
	fmt.Printf("Files:        %d (%d errors)\n", stats.TotalSources, len(cold.Errors))
	fmt.Printf("Lines:        %d\n", stats.TotalLines)
	fmt.Printf("Unterminated: %d\n", stats.Unterminated)
	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("Cold scan:    %v (%s)\n", coldTime, rate(stats.TotalLines, coldTime))

	var warmTotal time.Duration
	for i := 0; i < *rounds; i++ {
		start = time.Now()
		warm, err := uc.Scan(context.Background(), *root, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Scan error: %v\n", err)
			os.Exit(1)
		}
		elapsed := time.Since(start)
		warmTotal += elapsed
		fmt.Printf("Warm scan %d:  %v (%d cached, %d rescanned)\n", i+1, elapsed, warm.FilesCached, warm.FilesScanned)
	}

	if *rounds > 0 {
		avg := warmTotal / time.Duration(*rounds)
		fmt.Println(strings.Repeat("=", 70))
		fmt.Printf("Average warm: %v\n", avg)
		if avg > 0 {
			fmt.Printf("Speedup:      %.1fx\n", float64(coldTime)/float64(avg))
		}
	}
}

func rate(lines int, d time.Duration) string {
	if d <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.0f lines/s", float64(lines)/d.Seconds())
}
