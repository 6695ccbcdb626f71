package engine

import "container/heap"

// frontierItem is a SearchState plus its insertion sequence, which breaks
// distance ties in FIFO order.
type frontierItem struct {
	state SearchState
	seq   int
}

// frontier implements heap.Interface as a min-heap on cumulative distance.
type frontier []frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].state.Distance != f[j].state.Distance {
		return f[i].state.Distance < f[j].state.Distance
	}
	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) {
	*f = append(*f, x.(frontierItem))
}

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = frontierItem{} // drop the path reference
	*f = old[:n-1]
	return item
}

// stateQueue wraps the heap with a running sequence counter.
type stateQueue struct {
	items frontier
	seq   int
}

func newStateQueue() *stateQueue {
	q := &stateQueue{items: make(frontier, 0, 16)}
	heap.Init(&q.items)
	return q
}

func (q *stateQueue) Len() int { return q.items.Len() }

func (q *stateQueue) push(s SearchState) {
	heap.Push(&q.items, frontierItem{state: s, seq: q.seq})
	q.seq++
}

func (q *stateQueue) pop() SearchState {
	return heap.Pop(&q.items).(frontierItem).state
}
