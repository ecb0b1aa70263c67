// Package cli implements the line-based command protocol the solver is
// driven with: a REPL read from stdin, one command per line, usable
// interactively or by a program writing to its stdin. The GUI in this
// repository calls the engine directly and does not use it.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/WannesMalfait/Second-Best--Solver/internal/bench"
	"github.com/WannesMalfait/Second-Best--Solver/internal/board"
	"github.com/WannesMalfait/Second-Best--Solver/internal/engine"
	"github.com/WannesMalfait/Second-Best--Solver/internal/storage"
)

const defaultEvalDepth = 5

// CLI holds the state a session of commands operates on: the position
// being built up, the table the engine reuses across "eval" calls, and
// an in-flight search that "stop" can interrupt.
type CLI struct {
	pos *board.Position
	tt  *engine.Table
	out io.Writer

	store *storage.Storage

	mu        sync.Mutex
	curEngine *engine.Engine
}

// New builds a CLI over the starting position, writing output to out.
func New(out io.Writer) *CLI {
	return &CLI{
		pos: board.NewPosition(),
		tt:  engine.NewTable(),
		out: out,
	}
}

// Run reads commands from in, one per line, until "quit"/"exit" or EOF.
func (c *CLI) Run(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if c.execute(line) {
			return
		}
	}
}

// execute runs one command line and reports whether the session should
// end. Malformed input is reported to the user, never treated as a
// fatal error - only plumbing failures (e.g. a write to out failing)
// would be that, and none of the commands below can cause one.
func (c *CLI) execute(line string) (quit bool) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "quit", "exit":
		return true
	case "show", "display":
		fmt.Fprint(c.out, c.pos.Show())
	case "set-pos":
		pos := board.NewPosition()
		if err := pos.ParseAndPlayMoves(args); err != nil {
			c.displayErrorHelp(err)
			return false
		}
		c.pos = pos
		c.tt = engine.NewTable()
		fmt.Fprint(c.out, c.pos.Show())
	case "play":
		if err := c.pos.ParseAndPlayMoves(args); err != nil {
			c.displayErrorHelp(err)
			return false
		}
		fmt.Fprint(c.out, c.pos.Show())
	case "eval":
		c.handleEval(args)
	case "stop":
		c.handleStop()
	case "gen-bench":
		c.handleGenBench(args)
	case "bench":
		c.handleBench(args)
	default:
		fmt.Fprintf(c.out, "unrecognized command: %s\n", cmd)
	}
	return false
}

func (c *CLI) displayErrorHelp(err error) {
	fmt.Fprintln(c.out, err.Error())
}

func (c *CLI) handleEval(args []string) {
	depth := defaultEvalDepth
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(c.out, "invalid depth %q\n", args[0])
			return
		}
		depth = d
	}

	eng := engine.NewEngine(c.pos, c.tt)
	eng.OnInfo = func(info engine.Info) {
		fmt.Fprintf(c.out, "info depth %d score %d nodes %d knps %d (%s total time)\n",
			info.Depth, info.Score, info.Nodes, engine.Knps(info.Nodes, info.Elapsed), info.Elapsed)
		if len(info.PV) > 0 {
			tokens := make([]string, len(info.PV))
			for i, m := range info.PV {
				tokens[i] = m.String()
			}
			fmt.Fprintf(c.out, "pv %s\n", strings.Join(tokens, " "))
		}
	}

	c.mu.Lock()
	c.curEngine = eng
	c.mu.Unlock()

	score := eng.Search(depth)

	c.mu.Lock()
	c.curEngine = nil
	c.mu.Unlock()

	fmt.Fprintln(c.out, engine.ExplainEval(c.pos.CurrentPlayer(), score, c.pos.NumMoves()))
}

// handleStop interrupts whatever "eval" search is in progress. handleEval
// runs its search synchronously, so Run does not read the next line until
// "eval" has finished: a "stop" read by Run finds no search in progress.
// It only takes effect when another goroutine calls execute while "eval"
// is running; nothing in this repository does.
func (c *CLI) handleStop() {
	c.mu.Lock()
	eng := c.curEngine
	c.mu.Unlock()
	if eng != nil {
		eng.Stop()
	}
}

func (c *CLI) handleGenBench(args []string) {
	if len(args) != 5 {
		fmt.Fprintln(c.out, "usage: gen-bench <n> <min-moves> <max-moves> <min-depth> <max-depth>")
		return
	}
	n, err1 := strconv.Atoi(args[0])
	minMoves, err2 := strconv.Atoi(args[1])
	maxMoves, err3 := strconv.Atoi(args[2])
	minDepth, err4 := strconv.Atoi(args[3])
	maxDepth, err5 := strconv.Atoi(args[4])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		fmt.Fprintln(c.out, "gen-bench arguments must all be integers")
		return
	}

	criteria := bench.Criteria{MinMoves: minMoves, MaxMoves: maxMoves, MinDepth: minDepth, MaxDepth: maxDepth}
	path, err := bench.GenerateFile(n, criteria)
	if err != nil {
		fmt.Fprintf(c.out, "gen-bench failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "wrote %d position(s) to %s\n", n, path)
}

func (c *CLI) handleBench(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "usage: bench <threads>")
		return
	}
	threads, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintln(c.out, "bench threads must be an integer")
		return
	}

	results, err := bench.RunAll(threads)
	if err != nil {
		fmt.Fprintf(c.out, "bench failed: %v\n", err)
		return
	}
	if len(results) == 0 {
		fmt.Fprintln(c.out, "no benchmark files found")
		return
	}

	var totalPositions int
	var totalNodes uint64
	var totalElapsed time.Duration
	for _, result := range results {
		fmt.Fprintf(c.out, "%s: replayed %d position(s) on %d thread(s): %d total nodes, %s, %d knps\n",
			result.File, result.Positions, result.Threads, result.TotalNodes, result.TotalElapsed, engine.Knps(result.TotalNodes, result.TotalElapsed))
		totalPositions += result.Positions
		totalNodes += result.TotalNodes
		totalElapsed += result.TotalElapsed

		if c.store == nil {
			continue
		}
		run := storage.BenchRun{
			File:         result.File,
			Threads:      result.Threads,
			Positions:    result.Positions,
			TotalNodes:   result.TotalNodes,
			TotalElapsed: result.TotalElapsed,
		}
		if err := c.store.RecordBenchRun(run); err != nil {
			fmt.Fprintf(c.out, "warning: could not record bench run for %s: %v\n", result.File, err)
		}
	}
	fmt.Fprintf(c.out, "total: %d position(s), %d nodes, %s, %d knps\n",
		totalPositions, totalNodes, totalElapsed, engine.Knps(totalNodes, totalElapsed))
}

// AttachStorage gives the CLI a statistics store to record "bench" runs
// into. Without one, "bench" still runs and reports its result, just
// without persisting it.
func (c *CLI) AttachStorage(s *storage.Storage) {
	c.store = s
}
