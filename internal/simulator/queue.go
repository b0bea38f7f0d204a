package simulator

import (
	"container/heap"
	"sync"
	"time"
)

const (
	StepPlaceOrder   = "PlaceOrder"
	StepPrepareOrder = "PrepareOrder"
	StepOrderReady   = "OrderReady"
	StepDeliverOrder = "DeliverOrder"
	StepPayOrder     = "PayOrder"
	StepCancelOrder  = "CancelOrder"
)

// Step is one scheduled action against an order at a simulated time.
type Step struct {
	Time    time.Time
	Type    string
	OrderID int64
	seq     int
}

// StepQueue is a priority queue of steps ordered by time, then by insertion.
type StepQueue struct {
	steps stepHeap
	next  int
	mutex sync.Mutex
}

type stepHeap []*Step

func (h stepHeap) Len() int { return len(h) }
func (h stepHeap) Less(i, j int) bool {
	if h[i].Time.Equal(h[j].Time) {
		return h[i].seq < h[j].seq
	}
	return h[i].Time.Before(h[j].Time)
}
func (h stepHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *stepHeap) Push(x interface{}) {
	*h = append(*h, x.(*Step))
}

func (h *stepHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

func NewStepQueue() *StepQueue {
	return &StepQueue{}
}

func (q *StepQueue) Enqueue(step *Step) {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	step.seq = q.next
	q.next++
	heap.Push(&q.steps, step)
}

// Dequeue removes and returns the earliest step, or nil when empty.
func (q *StepQueue) Dequeue() *Step {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	if len(q.steps) == 0 {
		return nil
	}
	return heap.Pop(&q.steps).(*Step)
}

func (q *StepQueue) Peek() *Step {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	if len(q.steps) == 0 {
		return nil
	}
	return q.steps[0]
}

func (q *StepQueue) Len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	return len(q.steps)
}
