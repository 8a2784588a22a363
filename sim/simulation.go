// Package sim advances a grid through Conway generations.
package sim

import (
	"context"
	"log/slog"
	"runtime"
	"slices"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/cgol/model"
)

// DefaultHistorySize is how many past generations are remembered for stagnation
// detection.
const DefaultHistorySize = 5

var ErrNilGrid = errors.New("simulation needs an initial grid")

// Simulation owns the current generation and its counter. It is not safe for
// concurrent use.
type Simulation struct {
	current     *model.Grid
	currentHash string
	generation  int

	workers     int
	pool        *model.GridPool
	history     []string // hashes of recent previous generations, oldest first
	historySize int
	logger      *slog.Logger
}

// Option configures a Simulation
type Option func(*Simulation)

// WithWorkers sets how many goroutines evaluate rows in each step. Values below 1
// mean a single worker.
func WithWorkers(n int) Option {
	return func(s *Simulation) {
		s.workers = max(1, n)
	}
}

// WithPool recycles generation buffers through pool. Views returned by CurrentGrid
// are only valid until the next Step when pooling is on.
func WithPool(pool *model.GridPool) Option {
	return func(s *Simulation) {
		s.pool = pool
	}
}

// WithHistory sets how many previous generations IsStagnant compares against; 0
// disables stagnation tracking.
func WithHistory(n int) Option {
	return func(s *Simulation) {
		s.historySize = max(0, n)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulation) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New wraps initial in a simulation at generation 0. The simulation takes
// ownership of initial; callers must not mutate it afterwards.
func New(initial *model.Grid, opts ...Option) (*Simulation, error) {
	if initial == nil {
		return nil, errors.WithStack(ErrNilGrid)
	}

	s := &Simulation{
		current:     initial,
		workers:     runtime.NumCPU(),
		historySize: DefaultHistorySize,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Step computes the next generation into a fresh buffer, then swaps it in and
// bumps the counter. The current grid is never written during the pass.
func (s *Simulation) Step() {
	width, height := s.current.Dimensions()

	next := s.pool.Get(width, height)
	if err := s.current.NextGeneration(next, s.workers); err != nil {
		panic(errors.Wrap(err, "[Step] engine defect"))
	}

	if s.historySize > 0 {
		s.history = append(s.history, s.hash())
		if len(s.history) > s.historySize {
			s.history = s.history[len(s.history)-s.historySize:]
		}
	}

	prev := s.current
	s.current = next
	s.currentHash = ""
	s.generation++
	s.pool.Put(prev)

	s.logger.Log(context.Background(), slog.LevelDebug, "generation complete",
		"generation", s.generation, "workers", s.workers)
}

// StepN runs n steps
func (s *Simulation) StepN(n int) {
	for range n {
		s.Step()
	}
}

// CurrentGeneration returns how many steps have completed
func (s *Simulation) CurrentGeneration() int {
	return s.generation
}

// CurrentGrid returns a read-only view of the current generation
func (s *Simulation) CurrentGrid() model.GridView {
	return s.current
}

// Snapshot returns a private copy of the current generation
func (s *Simulation) Snapshot() *model.Grid {
	return s.current.Clone()
}

// IsStagnant reports whether the current generation repeats one of the
// remembered previous generations: a still life or an oscillator whose period
// fits in the history.
func (s *Simulation) IsStagnant() bool {
	if len(s.history) == 0 {
		return false
	}
	return slices.Contains(s.history, s.hash())
}

// IsExtinct reports whether no cell is alive
func (s *Simulation) IsExtinct() bool {
	return s.current.CountLivingCells() == 0
}

func (s *Simulation) hash() string {
	if s.currentHash == "" {
		s.currentHash = s.current.Hash()
	}
	return s.currentHash
}
