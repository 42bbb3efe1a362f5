// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dofmap implements C2: assigns dof(node_k,d) = 6*idx(node_k)+d
// and partitions the global DOF set into free and constrained subsets,
// both kept in ascending order. This ordering is an observable contract
// used by result recovery (spec.md §4.2).
package dofmap

import "github.com/elephantride/strumind/internal/model"

// Map holds the free/constrained partition of {0, ..., 6N-1} for a
// snapshot's node ordering.
type Map struct {
	NDOF        int
	Free        []int // ascending
	Constrained []int // ascending
	// posInFree/posInConstrained map a global dof index to its position
	// in Free/Constrained, or -1 if not present. Used by the reducer and
	// by result recovery to scatter/gather without linear search.
	posInFree        []int
	posInConstrained []int
}

// Build assigns DOF numbers to nodes (in snapshot order) and partitions
// them into free and constrained sets.
func Build(nodes []model.Node) *Map {
	ndof := 6 * len(nodes)
	m := &Map{
		NDOF:             ndof,
		posInFree:        make([]int, ndof),
		posInConstrained: make([]int, ndof),
	}
	for i := range m.posInFree {
		m.posInFree[i] = -1
		m.posInConstrained[i] = -1
	}
	for i, n := range nodes {
		for d := 0; d < 6; d++ {
			g := 6*i + d
			if n.Restraint[d] {
				m.posInConstrained[g] = len(m.Constrained)
				m.Constrained = append(m.Constrained, g)
			} else {
				m.posInFree[g] = len(m.Free)
				m.Free = append(m.Free, g)
			}
		}
	}
	return m
}

// DOF returns the global DOF index for node index idx (position in the
// snapshot's Nodes slice, not Node.ID) and local direction d in [0,5].
func DOF(idx, d int) int { return 6*idx + d }

// IsFree reports whether global dof g is free, and its position within Free.
func (m *Map) IsFree(g int) (pos int, ok bool) {
	p := m.posInFree[g]
	return p, p >= 0
}

// IsConstrained reports whether global dof g is constrained, and its
// position within Constrained.
func (m *Map) IsConstrained(g int) (pos int, ok bool) {
	p := m.posInConstrained[g]
	return p, p >= 0
}

// NFree and NConstrained are convenience accessors.
func (m *Map) NFree() int        { return len(m.Free) }
func (m *Map) NConstrained() int { return len(m.Constrained) }
