package bench

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/WannesMalfait/Second-Best--Solver/internal/board"
	"github.com/WannesMalfait/Second-Best--Solver/internal/engine"
	"github.com/WannesMalfait/Second-Best--Solver/internal/storage"
)

// Result summarizes a single benchmark-file replay.
type Result struct {
	File         string
	Threads      int
	Positions    int
	TotalNodes   uint64
	TotalElapsed time.Duration
}

// RunFile replays every position in the file at path across threads
// workers, searching each to depth plies. Each worker owns its own
// Position and transposition table; positions are handed out from a
// shared channel so no mutable state crosses goroutine boundaries.
func RunFile(path string, threads, depth int) (Result, error) {
	lines, err := readLines(path)
	if err != nil {
		return Result{}, err
	}

	jobs := make(chan string)
	go func() {
		defer close(jobs)
		for _, line := range lines {
			jobs <- line
		}
	}()

	var (
		wg         sync.WaitGroup
		totalNodes uint64
		mu         sync.Mutex
		firstErr   error
	)
	start := time.Now()

	if threads < 1 {
		threads = 1
	}
	for i := 0; i < threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for line := range jobs {
				pos := board.NewPosition()
				if err := pos.ParseAndPlayMoves(strings.Fields(line)); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("position %q: %w", line, err)
					}
					mu.Unlock()
					continue
				}
				eng := engine.NewEngine(pos, engine.NewTable())
				eng.Search(depth)
				mu.Lock()
				totalNodes += eng.Nodes()
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return Result{}, firstErr
	}
	return Result{
		File:         path,
		Threads:      threads,
		Positions:    len(lines),
		TotalNodes:   totalNodes,
		TotalElapsed: time.Since(start),
	}, nil
}

// RunAll discovers every benchmark file under storage.BenchmarksDir and
// replays each across threads workers, searching each file's positions to
// the max depth baked into its file name by Criteria.FileName. Files whose
// name doesn't match that format are skipped.
func RunAll(threads int) ([]Result, error) {
	entries, err := os.ReadDir(storage.BenchmarksDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		criteria, err := ParseCriteriaFromFileName(entry.Name())
		if err != nil {
			continue
		}
		path := filepath.Join(storage.BenchmarksDir, entry.Name())
		result, err := RunFile(path, threads, criteria.MaxDepth)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}
