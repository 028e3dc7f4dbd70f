// Package graph builds the per session signal graph: two sine generators,
// a stereo combiner, a fade in envelope, an analysis tap and the sink that
// feeds the audio engine.
package graph

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gopxl/beep/v2"
)

// Kind is the role of a stage in the graph.
type Kind int

const (
	KindGenerate Kind = iota
	KindCombine
	KindEnvelope
	KindTap
	KindSink
)

func (k Kind) String() string {
	switch k {
	case KindGenerate:
		return "generate"
	case KindCombine:
		return "combine"
	case KindEnvelope:
		return "envelope"
	case KindTap:
		return "tap"
	case KindSink:
		return "sink"
	default:
		return "unknown"
	}
}

// Stage is a named node of the graph.
type Stage struct {
	Name     string
	Kind     Kind
	Streamer beep.Streamer // nil for the sink
}

// Edge connects the output of one stage to the input of another.
type Edge struct {
	From, To string
}

var (
	errDuplicateStage = errors.New("duplicate stage")
	errUnknownStage   = errors.New("unknown stage")
	errBackEdge       = errors.New("edge must point to a later stage")
	errFrozen         = errors.New("graph already connected")
)

// Graph is a directed acyclic graph of stages. Edges may only point from an
// earlier stage to a later one, so insertion order is a topological order.
// A graph is connected once and torn down once.
type Graph struct {
	mu        sync.Mutex
	stages    []Stage
	index     map[string]int
	edges     []Edge
	connected bool
	teardown  []func()
	once      sync.Once
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{index: make(map[string]int)}
}

// Add appends a stage.
func (g *Graph) Add(name string, kind Kind, s beep.Streamer) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.connected {
		return errFrozen
	}
	if _, ok := g.index[name]; ok {
		return fmt.Errorf("%w: %s", errDuplicateStage, name)
	}
	g.index[name] = len(g.stages)
	g.stages = append(g.stages, Stage{Name: name, Kind: kind, Streamer: s})
	return nil
}

// Link adds an edge between two existing stages.
func (g *Graph) Link(from, to string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.connected {
		return errFrozen
	}
	fi, ok := g.index[from]
	if !ok {
		return fmt.Errorf("%w: %s", errUnknownStage, from)
	}
	ti, ok := g.index[to]
	if !ok {
		return fmt.Errorf("%w: %s", errUnknownStage, to)
	}
	if fi >= ti {
		return fmt.Errorf("%w: %s -> %s", errBackEdge, from, to)
	}
	g.edges = append(g.edges, Edge{From: from, To: to})
	return nil
}

// Connect checks that every stage is wired and freezes the graph. Sources
// must be generators and there must be exactly one sink, reachable from
// every stage.
func (g *Graph) Connect() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.connected {
		return errFrozen
	}

	ins := make(map[string]int)
	outs := make(map[string]int)
	for _, e := range g.edges {
		outs[e.From]++
		ins[e.To]++
	}

	sinks := 0
	for _, s := range g.stages {
		switch {
		case s.Kind == KindGenerate && ins[s.Name] > 0:
			return fmt.Errorf("generator %s has an input", s.Name)
		case s.Kind != KindGenerate && ins[s.Name] == 0:
			return fmt.Errorf("stage %s has no input", s.Name)
		case s.Kind == KindSink:
			sinks++
			if outs[s.Name] > 0 {
				return fmt.Errorf("sink %s has an output", s.Name)
			}
		case outs[s.Name] == 0:
			return fmt.Errorf("stage %s is not connected to the sink", s.Name)
		}
	}
	if sinks != 1 {
		return fmt.Errorf("graph needs exactly one sink, has %d", sinks)
	}

	g.connected = true
	return nil
}

// OnDisconnect registers fn to run when the graph is torn down. Functions
// run in reverse registration order.
func (g *Graph) OnDisconnect(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.teardown = append(g.teardown, fn)
}

// Disconnect tears the graph down. Only the first call has any effect.
func (g *Graph) Disconnect() {
	g.once.Do(func() {
		g.mu.Lock()
		fns := g.teardown
		g.teardown = nil
		g.connected = false
		g.mu.Unlock()

		for i := len(fns) - 1; i >= 0; i-- {
			fns[i]()
		}
	})
}

// Connected reports whether the graph is wired and not yet torn down.
func (g *Graph) Connected() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.connected
}

// Stages returns the stages in insertion order.
func (g *Graph) Stages() []Stage {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Stage, len(g.stages))
	copy(out, g.stages)
	return out
}

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []Edge {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Count returns how many stages of kind the graph holds.
func (g *Graph) Count(kind Kind) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, s := range g.stages {
		if s.Kind == kind {
			n++
		}
	}
	return n
}
