// Package bvh implements a surface-area-heuristic bounding volume hierarchy
// generic over any element exposing geom.Surface. One instance serves the
// renderer's nearest-hit queries over every primitive in a scene; a second,
// built over only the emissive subset, serves the light-sampling PDF
// estimator via EnumerateAllHits.
package bvh

import (
	stdmath "math"
	"sort"

	"pathtracer/geom"
)

// leafSize is the primitive-count threshold at or below which a node is
// always a leaf, regardless of SAH cost.
const leafSize = 4

// secondCrossingEps matches geom's ray-shift epsilon: the distance past a
// first hit at which the second-surface probe ray originates.
const secondCrossingEps = 1e-4

// node is an internal tree node. A leaf has left < 0 and owns the
// half-open primitive range [first, last) in the (permuted) item array. A
// non-leaf stores no primitives directly: first == last.
type node struct {
	box         geom.AABB
	left, right int
	first, last int
}

func (n node) isLeaf() bool { return n.left < 0 }

// BVH is a bounding volume hierarchy over items of type T. The item slice
// passed to Build is permuted in place during construction; indices
// returned by Intersect refer to the permuted order, stable thereafter.
type BVH[T geom.Surface] struct {
	nodes []node
	root  int
	items []T
}

// Build constructs a BVH over items top-down using the surface-area
// heuristic. Build takes ownership of items: the slice is reordered during
// construction and must not be used by the caller afterward except through
// the returned BVH.
//
// Build fails if any item's AABB has a non-finite or NaN center on any
// axis; a corrupted sort/partition key is treated as a construction error
// rather than silently producing an inconsistent tree.
func Build[T geom.Surface](items []T) (*BVH[T], error) {
	b := &BVH[T]{items: items}
	if len(items) == 0 {
		b.root = -1
		return b, nil
	}

	root, err := b.buildRange(0, len(items))
	if err != nil {
		return nil, err
	}
	b.root = root
	return b, nil
}

// Len returns the number of items owned by the BVH.
func (b *BVH[T]) Len() int { return len(b.items) }

// Item returns the item at a permuted index, as returned by Intersect.
func (b *BVH[T]) Item(index int) T { return b.items[index] }

func (b *BVH[T]) buildRange(lo, hi int) (int, error) {
	n := hi - lo
	boxes := make([]geom.AABB, n)
	union := geom.EmptyAABB()
	for i := 0; i < n; i++ {
		boxes[i] = b.items[lo+i].AABB()
		c := boxes[i].Center()
		if !c.IsFinite() {
			return 0, errNonFiniteKey
		}
		union = union.Union(boxes[i])
	}

	nodeIdx := len(b.nodes)
	b.nodes = append(b.nodes, node{box: union})

	if n <= leafSize {
		b.nodes[nodeIdx].left = -1
		b.nodes[nodeIdx].first = lo
		b.nodes[nodeIdx].last = hi
		return nodeIdx, nil
	}

	bestAxis := -1
	bestSplit := float32(0)
	bestCost := union.Area() * float32(n)

	for axis := 0; axis < 3; axis++ {
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		key := func(i int) float32 { return boxes[i].Min.At(axis) + boxes[i].Max.At(axis) }
		sort.SliceStable(order, func(i, j int) bool { return key(order[i]) < key(order[j]) })

		prefixArea := make([]float32, n+1)
		suffixArea := make([]float32, n+1)
		prefixBox := geom.EmptyAABB()
		suffixBox := geom.EmptyAABB()
		for i := 0; i < n; i++ {
			prefixBox = prefixBox.Union(boxes[order[i]])
			prefixArea[i+1] = prefixBox.Area()

			j := n - 1 - i
			suffixBox = suffixBox.Union(boxes[order[j]])
			suffixArea[j] = suffixBox.Area()
		}

		for i := 0; i <= n; i++ {
			cost := prefixArea[i]*float32(i) + suffixArea[i]*float32(n-i)
			if cost < bestCost && i > 0 && i < n {
				bestCost = cost
				bestAxis = axis
				bestSplit = key(order[i])
			}
		}
	}

	if bestAxis == -1 {
		b.nodes[nodeIdx].left = -1
		b.nodes[nodeIdx].first = lo
		b.nodes[nodeIdx].last = hi
		return nodeIdx, nil
	}

	splitAt := lo
	for j := lo; j < hi; j++ {
		c := b.items[j].AABB()
		if c.Min.At(bestAxis)+c.Max.At(bestAxis) < bestSplit {
			b.items[splitAt], b.items[j] = b.items[j], b.items[splitAt]
			splitAt++
		}
	}

	if splitAt == lo || splitAt == hi {
		b.nodes[nodeIdx].left = -1
		b.nodes[nodeIdx].first = lo
		b.nodes[nodeIdx].last = hi
		return nodeIdx, nil
	}

	left, err := b.buildRange(lo, splitAt)
	if err != nil {
		return 0, err
	}
	right, err := b.buildRange(splitAt, hi)
	if err != nil {
		return 0, err
	}
	b.nodes[nodeIdx].left = left
	b.nodes[nodeIdx].right = right
	b.nodes[nodeIdx].first = lo
	b.nodes[nodeIdx].last = lo
	return nodeIdx, nil
}

// Hit pairs an intersection with the permuted index of the item it hit.
type Hit struct {
	Index int
	geom.Hit
}

// Intersect returns the nearest strictly-positive-t hit along ray, if any.
func (b *BVH[T]) Intersect(ray geom.Ray) (Hit, bool) {
	if b.root < 0 {
		return Hit{}, false
	}
	return b.intersectNode(b.root, ray, Hit{}, false)
}

func (b *BVH[T]) intersectNode(nodeIdx int, ray geom.Ray, best Hit, found bool) (Hit, bool) {
	n := b.nodes[nodeIdx]

	if n.isLeaf() {
		for i := n.first; i < n.last; i++ {
			hit, ok := b.items[i].Intersect(ray)
			if ok && (!found || hit.T < best.T) {
				best, found = Hit{Index: i, Hit: hit}, true
			}
		}
		return best, found
	}

	left, right := n.left, n.right
	leftT := b.nodes[left].box.Intersect(ray)
	rightT := b.nodes[right].box.Intersect(ray)
	if rightT < leftT {
		left, right = right, left
		leftT, rightT = rightT, leftT
	}

	bestT := float32(stdmath.Inf(1))
	if found {
		bestT = best.T
	}

	if leftT < bestT {
		best, found = b.intersectNode(left, ray, best, found)
		if found {
			bestT = best.T
		}
	}
	if rightT < bestT {
		best, found = b.intersectNode(right, ray, best, found)
	}
	return best, found
}

// HitFunc receives every surface crossing EnumerateAllHits finds, in
// arbitrary order.
type HitFunc[T any] func(item T, ray geom.Ray, hit geom.Hit)

// EnumerateAllHits visits every leaf whose AABB the ray hits, with no
// ordering and no early termination — used by the light PDF estimator,
// which must sum contributions from every emissive surface a ray could
// cross, not just the nearest.
//
// For each primitive hit, it additionally probes a second ray shifted past
// the first hit by (t + eps) along the same direction, to pick up the far
// side of convex shapes; the callback receives that second crossing's true
// surface parameter (first-t + eps + second-t). This deliberately
// double-counts on non-convex lights, which the scenes this renderer
// supports never have.
func (b *BVH[T]) EnumerateAllHits(ray geom.Ray, fn HitFunc[T]) {
	if b.root < 0 {
		return
	}
	b.enumerateNode(b.root, ray, fn)
}

func (b *BVH[T]) enumerateNode(nodeIdx int, ray geom.Ray, fn HitFunc[T]) {
	n := b.nodes[nodeIdx]
	if stdmath.IsInf(float64(n.box.Intersect(ray)), 1) {
		return
	}

	if n.isLeaf() {
		for i := n.first; i < n.last; i++ {
			item := b.items[i]
			hit1, ok := item.Intersect(ray)
			if !ok {
				continue
			}
			fn(item, ray, hit1)

			ray2 := geom.Ray{Origin: ray.At(hit1.T + secondCrossingEps), Direction: ray.Direction}
			if hit2, ok2 := item.Intersect(ray2); ok2 {
				hit2.T = hit1.T + secondCrossingEps + hit2.T
				fn(item, ray, hit2)
			}
		}
		return
	}

	b.enumerateNode(n.left, ray, fn)
	b.enumerateNode(n.right, ray, fn)
}
