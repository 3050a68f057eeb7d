package bvh

import "errors"

// errNonFiniteKey is returned by Build when an item's AABB center is NaN
// or infinite, which would corrupt the axis sort/partition keys.
var errNonFiniteKey = errors.New("bvh: non-finite AABB center, cannot build")
