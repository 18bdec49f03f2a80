//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"
	"time"

	"scriptscan/internal/adapter/cache"
	"scriptscan/internal/adapter/memstore"
	"scriptscan/internal/adapter/source"
	"scriptscan/internal/domain"
	"scriptscan/internal/usecase"
)

const directive = "using"

var (
	store    *memstore.MemoryStore
	resolver *memstore.MemoryResolver
	reports  *cache.ReportCache
)

func init() {
	store = memstore.NewMemoryStore()
	resolver = memstore.NewMemoryResolver(nil)
	reports = cache.NewReportCache(64)
}

func main() {
	c := make(chan struct{})

	js.Global().Set("scriptscanAdd", js.FuncOf(addContent))
	js.Global().Set("scriptscanLines", js.FuncOf(classifyLines))
	js.Global().Set("scriptscanClear", js.FuncOf(clearAll))
	js.Global().Set("scriptscanStats", js.FuncOf(getStats))

	<-c
}

// addContent scans a file and keeps it for later scriptscanLines calls.
func addContent(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeError("usage: scriptscanAdd(filename, content)")
	}

	filename := source.NormalizeIdentifier(args[0].String())
	content := args[1].String()
	resolver.Put(filename, content)

	report, ok := reports.Get(source.Digest(content))
	if !ok {
		src, err := source.Open(resolver, filename)
		if err != nil {
			return makeError(err.Error())
		}
		report = usecase.ScanSource(src, directive)
		reports.Put(report)
	}
	report.Path = filename

	store.PutReport(report)
	store.PutSource(domain.Source{Path: report.Path, Digest: report.Digest, ModTime: time.Now()})
	updateStats()

	return makeResult(map[string]interface{}{
		"report": report,
	})
}

func classifyLines(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: scriptscanLines(filename)")
	}

	src, err := source.Open(resolver, args[0].String())
	if err != nil {
		return makeError(err.Error())
	}
	defer src.Close()

	lines := make([]map[string]interface{}, 0)
	for {
		line, ok := src.NextLine()
		if !ok {
			break
		}
		lines = append(lines, map[string]interface{}{
			"number":     line.Number,
			"kind":       line.Kind.String(),
			"inComment":  line.InComment,
			"sawComment": line.SawComment,
			"text":       line.Text,
		})
	}

	return makeResult(map[string]interface{}{
		"lines":        lines,
		"digest":       src.Digest(),
		"unterminated": src.Unterminated(),
	})
}

func clearAll(this js.Value, args []js.Value) interface{} {
	store = memstore.NewMemoryStore()
	resolver = memstore.NewMemoryResolver(nil)
	reports.Invalidate()
	return makeResult(map[string]interface{}{
		"success": true,
	})
}

func getStats(this js.Value, args []js.Value) interface{} {
	stats, _ := store.GetStats()
	sources, _ := store.ListSources()

	filenames := make([]string, len(sources))
	for i, src := range sources {
		filenames[i] = src.Path
	}

	return makeResult(map[string]interface{}{
		"totalSources": stats.TotalSources,
		"totalLines":   stats.TotalLines,
		"unterminated": stats.Unterminated,
		"files":        filenames,
	})
}

func updateStats() {
	sources, _ := store.ListSources()
	stats := domain.Stats{TotalSources: len(sources)}
	for _, src := range sources {
		report, err := store.GetReport(src.Digest)
		if err != nil {
			continue
		}
		stats.TotalLines += report.Lines
		if report.Unterminated {
			stats.Unterminated++
		}
	}
	store.UpdateStats(stats)
}

func makeError(msg string) interface{} {
	result, _ := json.Marshal(map[string]interface{}{
		"error": msg,
	})
	return string(result)
}

func makeResult(data map[string]interface{}) interface{} {
	result, _ := json.Marshal(data)
	return string(result)
}
