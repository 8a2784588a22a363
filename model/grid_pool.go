package model

import "sync"

// GridPool recycles next-generation buffers between steps. Buffers are bucketed
// by board size, so a recycled grid is only ever handed back for the size it was
// allocated with and never needs resizing.
//
// A nil *GridPool is valid: Get allocates and Put drops the grid.
type GridPool struct {
	mu      sync.Mutex
	buckets map[Point]*sync.Pool
}

func NewGridPool() *GridPool {
	return &GridPool{buckets: make(map[Point]*sync.Pool)}
}

func (p *GridPool) bucket(width, height int) *sync.Pool {
	key := Point{X: width, Y: height}

	p.mu.Lock()
	defer p.mu.Unlock()

	b, ok := p.buckets[key]
	if !ok {
		b = &sync.Pool{New: func() any { return newGrid(width, height) }}
		p.buckets[key] = b
	}
	return b
}

// Get returns an all-dead grid of the given dimensions. Callers validate the
// dimensions; the pool only serves sizes of grids that already exist.
func (p *GridPool) Get(width, height int) *Grid {
	if p == nil {
		return newGrid(width, height)
	}
	return p.bucket(width, height).Get().(*Grid)
}

// Put clears g and keeps it for the next Get of the same size
func (p *GridPool) Put(g *Grid) {
	if p == nil || g == nil {
		return
	}
	g.Clear()
	p.bucket(g.width, g.height).Put(g)
}
