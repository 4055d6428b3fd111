package walker

import (
	"math/rand"

	"github.com/vovakirdan/walksim/internal/core"
)

// MemoryCapacity is the number of visited cells a Memory walker remembers.
const MemoryCapacity = 1000

// history is a bounded FIFO of visited positions with O(1) membership.
type history struct {
	cells  []core.Point
	head   int // index of the oldest entry
	size   int
	counts map[core.Point]int
}

func newHistory(capacity int) *history {
	return &history{
		cells:  make([]core.Point, capacity),
		counts: make(map[core.Point]int, capacity),
	}
}

// push appends p, evicting the oldest entry when full.
func (h *history) push(p core.Point) {
	if h.size == len(h.cells) {
		oldest := h.cells[h.head]
		if h.counts[oldest]--; h.counts[oldest] == 0 {
			delete(h.counts, oldest)
		}
		h.cells[h.head] = p
		h.head = (h.head + 1) % len(h.cells)
	} else {
		h.cells[(h.head+h.size)%len(h.cells)] = p
		h.size++
	}
	h.counts[p]++
}

func (h *history) contains(p core.Point) bool {
	return h.counts[p] > 0
}

func (h *history) len() int {
	return h.size
}

func (h *history) clear() {
	h.head = 0
	h.size = 0
	clear(h.counts)
}

// Memory avoids the axis neighbours it has already visited.
type Memory struct {
	Base
	memory *history
}

// NewMemory creates a Memory walker with an empty history.
func NewMemory() *Memory {
	return &Memory{memory: newHistory(MemoryCapacity)}
}

// Kind returns KindMemory.
func (w *Memory) Kind() Kind { return KindMemory }

// Remembers reports whether p is in the walker's history.
func (w *Memory) Remembers(p core.Point) bool {
	return w.memory.contains(p)
}

// MemoryLen returns the number of remembered cells.
func (w *Memory) MemoryLen() int {
	return w.memory.len()
}

// candidates returns the axis neighbours not present in the history.
func (w *Memory) candidates() []core.Point {
	out := make([]core.Point, 0, len(axisSteps))
	for _, d := range axisSteps {
		if next := w.pos.Add(d); !w.memory.contains(next) {
			out = append(out, next)
		}
	}
	return out
}

// Move steps to a random unvisited neighbour and remembers it. If every
// neighbour is remembered it takes a random axis step ignoring memory.
func (w *Memory) Move(rng *rand.Rand) {
	if options := w.candidates(); len(options) > 0 {
		w.SetPosition(options[rng.Intn(len(options))])
		w.memory.push(w.pos)
		return
	}
	w.step(randomAxisStep(rng))
}

// RefreshMemory records the current position after an external move.
func (w *Memory) RefreshMemory() {
	w.memory.push(w.pos)
}

// Reset returns the walker to the origin and forgets its history.
func (w *Memory) Reset() {
	w.Base.Reset()
	w.memory.clear()
}
