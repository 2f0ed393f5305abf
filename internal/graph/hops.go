package graph

import (
	"container/heap"
	"slices"
)

// WithinHops returns all airports reachable from origin within maxHops
// route segments, mapped to their distance in hops. The origin maps to 0.
func (a AdjacencyMap) WithinHops(origin int32, maxHops int) map[int32]int {
	result := make(map[int32]int)
	result[origin] = 0

	queue := []int32{origin}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		dist := result[current]
		if dist >= maxHops {
			continue
		}
		for neighbor := range a[current] {
			if _, visited := result[neighbor]; !visited {
				result[neighbor] = dist + 1
				queue = append(queue, neighbor)
			}
		}
	}
	return result
}

// HopCount returns the fewest route segments from origin to dest, or -1 if
// dest is unreachable.
func (a AdjacencyMap) HopCount(origin, dest int32) int {
	if origin == dest {
		return 0
	}
	seen := map[int32]int{origin: 0}
	queue := []int32{origin}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for neighbor := range a[current] {
			if _, ok := seen[neighbor]; ok {
				continue
			}
			seen[neighbor] = seen[current] + 1
			if neighbor == dest {
				return seen[neighbor]
			}
			queue = append(queue, neighbor)
		}
	}
	return -1
}

// ShortestRoute finds the itinerary from origin to dest with the least total
// great-circle distance. Airports without a known location are not routed
// through. Returns the airport sequence (origin first), its length in km,
// and false if no itinerary exists.
func (a AdjacencyMap) ShortestRoute(origin, dest int32, locations map[int32]Location) ([]int32, float64, bool) {
	if _, ok := locations[origin]; !ok {
		return nil, 0, false
	}
	if _, ok := locations[dest]; !ok {
		return nil, 0, false
	}
	if origin == dest {
		return []int32{origin}, 0, true
	}

	dist := map[int32]float64{origin: 0}
	prev := make(map[int32]int32)

	pq := &priorityQueue{{airportID: origin, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		item := heap.Pop(pq).(pqItem)
		if item.airportID == dest {
			return buildPath(prev, origin, dest), item.dist, true
		}
		if d, ok := dist[item.airportID]; ok && item.dist > d {
			continue
		}
		from := locations[item.airportID]
		for neighbor := range a[item.airportID] {
			to, ok := locations[neighbor]
			if !ok {
				continue
			}
			nd := item.dist + DistanceKm(from, to)
			if d, ok := dist[neighbor]; !ok || nd < d {
				dist[neighbor] = nd
				prev[neighbor] = item.airportID
				heap.Push(pq, pqItem{airportID: neighbor, dist: nd})
			}
		}
	}
	return nil, 0, false
}

func buildPath(prev map[int32]int32, origin, dest int32) []int32 {
	path := []int32{dest}
	for cur := dest; cur != origin; {
		cur = prev[cur]
		path = append(path, cur)
	}
	slices.Reverse(path)
	return path
}

// Priority queue for Dijkstra
type pqItem struct {
	airportID int32
	dist      float64
}

type priorityQueue []pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(pqItem)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
