package ai

import (
	"container/heap"

	"github.com/talgya/hexclash/internal/world"
)

type node struct {
	cell     world.Offset
	priority int
	seq      int
	index    int
}

type frontier []*node

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].priority != f[j].priority {
		return f[i].priority < f[j].priority
	}
	return f[i].seq < f[j].seq
}
func (f frontier) Swap(i, j int) {
	f[i], f[j] = f[j], f[i]
	f[i].index = i
	f[j].index = j
}
func (f *frontier) Push(x any) {
	n := x.(*node)
	n.index = len(*f)
	*f = append(*f, n)
}
func (f *frontier) Pop() any {
	old := *f
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*f = old[:len(old)-1]
	return n
}

// AStar returns the cells from start to goal, excluding start, moving
// through cells for which passable returns true. The goal itself need not
// be passable. It returns nil when no path exists.
func AStar(g *world.Grid, start, goal world.Offset, passable func(world.Offset) bool) []world.Offset {
	if start == goal {
		return nil
	}
	cost := map[world.Offset]int{start: 0}
	from := map[world.Offset]world.Offset{}
	open := &frontier{{cell: start}}
	seq := 0
	for open.Len() > 0 {
		cur := heap.Pop(open).(*node).cell
		if cur == goal {
			break
		}
		for _, n := range g.Neighbors(cur) {
			if n != goal && !passable(n) {
				continue
			}
			c := cost[cur] + 1
			if old, seen := cost[n]; seen && old <= c {
				continue
			}
			cost[n] = c
			from[n] = cur
			seq++
			heap.Push(open, &node{cell: n, priority: c + world.Distance(n, goal), seq: seq})
		}
	}
	if _, ok := cost[goal]; !ok {
		return nil
	}
	var path []world.Offset
	for c := goal; c != start; c = from[c] {
		path = append(path, c)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
