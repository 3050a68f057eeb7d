package bvh

import (
	"fmt"
	"sort"
)

// CheckPartitionCover verifies that the leaf ranges, taken together, cover
// every index in [0, Len()) exactly once — the invariant that makes
// permuted indices into the item array meaningful.
func (b *BVH[T]) CheckPartitionCover() error {
	if b.root < 0 {
		if b.Len() != 0 {
			return fmt.Errorf("bvh: empty tree over %d items", b.Len())
		}
		return nil
	}

	var ranges [][2]int
	b.collectLeafRanges(b.root, &ranges)
	sort.Slice(ranges, func(i, j int) bool { return ranges[i][0] < ranges[j][0] })

	want := 0
	for _, r := range ranges {
		if r[0] != want {
			return fmt.Errorf("bvh: gap or overlap before index %d (range starts at %d)", want, r[0])
		}
		if r[1] <= r[0] {
			return fmt.Errorf("bvh: empty leaf range [%d,%d)", r[0], r[1])
		}
		want = r[1]
	}
	if want != b.Len() {
		return fmt.Errorf("bvh: leaf ranges cover %d of %d items", want, b.Len())
	}
	return nil
}

func (b *BVH[T]) collectLeafRanges(nodeIdx int, out *[][2]int) {
	n := b.nodes[nodeIdx]
	if n.isLeaf() {
		*out = append(*out, [2]int{n.first, n.last})
		return
	}
	b.collectLeafRanges(n.left, out)
	b.collectLeafRanges(n.right, out)
}

// CheckContainment verifies that every internal node's AABB contains both
// of its children's AABBs, and that every leaf's AABB contains every
// primitive AABB it owns.
func (b *BVH[T]) CheckContainment() error {
	if b.root < 0 {
		return nil
	}
	return b.checkContainmentNode(b.root)
}

func (b *BVH[T]) checkContainmentNode(nodeIdx int) error {
	n := b.nodes[nodeIdx]

	if n.isLeaf() {
		for i := n.first; i < n.last; i++ {
			if !n.box.Contains(b.items[i].AABB()) {
				return fmt.Errorf("bvh: leaf AABB does not contain primitive %d", i)
			}
		}
		return nil
	}

	left, right := b.nodes[n.left], b.nodes[n.right]
	if !n.box.Contains(left.box) {
		return fmt.Errorf("bvh: node AABB does not contain left child")
	}
	if !n.box.Contains(right.box) {
		return fmt.Errorf("bvh: node AABB does not contain right child")
	}
	if err := b.checkContainmentNode(n.left); err != nil {
		return err
	}
	return b.checkContainmentNode(n.right)
}
