// Package bench generates and replays benchmark files: fixed sets of
// positions meeting a given move-count/search-depth profile, used to
// track search performance and correctness across engine changes.
package bench

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/WannesMalfait/Second-Best--Solver/internal/board"
	"github.com/WannesMalfait/Second-Best--Solver/internal/engine"
	"github.com/WannesMalfait/Second-Best--Solver/internal/movegen"
	"github.com/WannesMalfait/Second-Best--Solver/internal/storage"
)

// Criteria bounds what a generated benchmark position must satisfy: its
// move count must fall within [MinMoves, MaxMoves], and searching it to
// MaxDepth must prove a forced win or loss at least MinDepth moves out
// (positions solvable too shallowly are considered uninteresting).
type Criteria struct {
	MinMoves, MaxMoves int
	MinDepth, MaxDepth int
}

// FileName is the benchmark file name encoding criteria, matching the
// format read back by ParseCriteriaFromFileName.
func (c Criteria) FileName() string {
	return fmt.Sprintf("bench_%d-%d_%d-%d", c.MinMoves, c.MaxMoves, c.MinDepth, c.MaxDepth)
}

// ParseCriteriaFromFileName recovers the Criteria encoded in a benchmark
// file's name by FileName, so RunAll can recover the search depth a
// replayed file was generated for without a caller having to repeat it.
func ParseCriteriaFromFileName(name string) (Criteria, error) {
	var c Criteria
	_, err := fmt.Sscanf(filepath.Base(name), "bench_%d-%d_%d-%d", &c.MinMoves, &c.MaxMoves, &c.MinDepth, &c.MaxDepth)
	if err != nil {
		return Criteria{}, fmt.Errorf("%q is not a benchmark file name: %w", name, err)
	}
	return c, nil
}

// GenerateFile produces n distinct random positions satisfying criteria
// and writes them, one board.Position.Serialize() line per position, to
// storage.BenchmarksDir joined with criteria's file name. It returns the
// path written, or "" when n <= 0. It tries successive seeds until n
// positions are found and has no attempt limit: if too few positions
// satisfy criteria, it does not return.
func GenerateFile(n int, criteria Criteria) (string, error) {
	var positions []string
	seed := int64(0)
	for len(positions) < n {
		seed++
		pos := board.NewPosition()
		eng := engine.NewEngine(pos, engine.NewTable())
		line, _, ok := generateRandomPosition(pos, eng, criteria, seed)
		if !ok {
			continue
		}
		if !contains(positions, line) {
			positions = append(positions, line)
		}
	}
	if len(positions) == 0 {
		return "", nil
	}
	if err := os.MkdirAll(storage.BenchmarksDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(storage.BenchmarksDir, criteria.FileName())
	if err := os.WriteFile(path, []byte(strings.Join(positions, "\n")), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// generateRandomPosition recursively extends pos with randomly chosen
// legal moves (backtracking over the choice when a branch turns out not
// to satisfy criteria) until it finds one that does, or exhausts every
// line reachable from the current position. On success it returns the
// satisfying line's serialization with the position left exactly as it
// was when the match was found; on failure pos is restored to the state
// it had on entry.
func generateRandomPosition(pos *board.Position, eng *engine.Engine, criteria Criteria, seed int64) (string, int64, bool) {
	if pos.NumMoves() > criteria.MaxMoves {
		return "", seed, false
	}
	if pos.NumMoves() < criteria.MinMoves {
		if pos.GameOver() {
			return "", seed, false
		}
	} else {
		score := eng.Search(criteria.MaxDepth)
		outcome, movesToGo := engine.DecodeEval(score, pos.NumMoves())
		if outcome != engine.Undetermined {
			if movesToGo >= criteria.MinDepth {
				return pos.Serialize(), seed, true
			}
			return "", seed, false
		}
	}

	moves := movegen.All(pos)
	for len(moves) > 0 {
		idx, nextSeed := nextRand(seed)
		seed = nextSeed
		i := int(idx % int64(len(moves)))
		m := moves[i]

		pos.MakeMove(m.ToMove(pos))
		if line, s, ok := generateRandomPosition(pos, eng, criteria, seed); ok {
			return line, s, true
		} else {
			seed = s
		}
		pos.UnmakeMove()
		moves = append(moves[:i], moves[i+1:]...)
	}
	return "", seed, false
}

// nextRand is a linear congruential generator: deterministic and
// reproducible across runs given the same seed, which matters for
// regenerating the exact same benchmark file when investigating a
// regression.
func nextRand(seed int64) (int64, int64) {
	const a, c, m = 1103515245, 12345, 1 << 31
	seed = (a*seed + c) % m
	if seed < 0 {
		seed += m
	}
	return seed >> 4, seed
}

func contains(lines []string, line string) bool {
	for _, l := range lines {
		if l == line {
			return true
		}
	}
	return false
}
