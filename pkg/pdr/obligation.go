package pdr

import (
	"container/heap"

	"github.com/gitrdm/gopdr/pkg/conjfml"
)

// Frame is a ConjFml over-approximating the states reachable in at most k
// steps from I; Trace is the growing sequence F_0..F_{n+1}.
type Frame = *conjfml.ConjFml
type Trace = []Frame

// Obligation is a proof obligation: "show cube is unreachable at level."
// Min-priority by Level, tie-broken by cube size - spec.md §9's "Obligation
// priority" note: the level ordering is essential for correctness, the
// size tie-break is only a heuristic.
type Obligation struct {
	Level int
	Cube  *conjfml.ConjFml
}

// obligationHeap implements container/heap.Interface. No ecosystem
// priority-queue package appears anywhere in the retrieval pack, so this
// follows the stdlib container/heap pattern directly - the idiomatic
// choice the corpus itself would reach for.
type obligationHeap []Obligation

func (h obligationHeap) Len() int { return len(h) }

func (h obligationHeap) Less(i, j int) bool {
	if h[i].Level != h[j].Level {
		return h[i].Level < h[j].Level
	}
	return h[i].Cube.Less(h[j].Cube)
}

func (h obligationHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *obligationHeap) Push(x any) { *h = append(*h, x.(Obligation)) }

func (h *obligationHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// ObligationQueue is the min-priority queue block() drains per call.
type ObligationQueue struct {
	h obligationHeap
}

// newObligationQueue returns an empty queue.
func newObligationQueue() *ObligationQueue {
	return &ObligationQueue{h: obligationHeap{}}
}

// Push schedules ob.
func (q *ObligationQueue) Push(ob Obligation) { heap.Push(&q.h, ob) }

// Pop removes and returns the lowest-level (size-tie-broken) obligation.
// ok is false if the queue is empty.
func (q *ObligationQueue) Pop() (Obligation, bool) {
	if len(q.h) == 0 {
		return Obligation{}, false
	}
	return heap.Pop(&q.h).(Obligation), true
}

// Len reports the number of pending obligations.
func (q *ObligationQueue) Len() int { return len(q.h) }
