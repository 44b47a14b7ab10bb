package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/utils/container"
)

func TestPriorityQueueHeapOrder(t *testing.T) {
	q := container.NewPriorityQueue[string]()
	q.HeapPush("c", 3)
	q.HeapPush("a", 1)
	q.HeapPush("d", 4)
	q.HeapPush("b", 2)
	assert.Equal(t, 4, q.Len())
	assert.Equal(t, "a", q.First())

	got := make([]string, 0, 4)
	for q.Len() > 0 {
		v, _ := q.HeapPop()
		got = append(got, v)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, got)
}

func TestPriorityQueueHeapify(t *testing.T) {
	q := container.NewPriorityQueue[int]()
	for i, p := range []float64{5, 0.5, 2, 9} {
		q.Push(i, p)
	}
	q.Heapify()
	v, p := q.HeapPop()
	assert.Equal(t, 1, v)
	assert.Equal(t, 0.5, p)
}
