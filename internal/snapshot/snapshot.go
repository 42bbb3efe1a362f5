// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package snapshot implements C1: an immutable in-memory view of the
// model read from the store before a run. The source mixed ORM-backed
// objects into the solver loop (spec.md §9); here the snapshot is the
// single point where the store is touched, and every inner loop works
// off plain slices/maps instead.
package snapshot

import (
	"context"
	"math"

	"github.com/elephantride/strumind/internal/ferr"
	"github.com/elephantride/strumind/internal/model"
	"github.com/elephantride/strumind/internal/store"
)

// LengthEpsilon is the minimum element length accepted (spec.md §3).
const LengthEpsilon = 1e-9

// Snapshot is the read-only view of a project + analysis used by a run.
// Later writes to the store by other callers must not affect a run
// already holding a Snapshot (spec.md §4.1): this is satisfied trivially
// since Snapshot never re-reads the store after Load returns.
type Snapshot struct {
	Analysis *model.Analysis

	Nodes     []model.Node
	Elements  []model.Element
	Sections  map[int]model.Section
	Materials map[int]model.Material

	LoadCases    map[int]model.LoadCase
	Loads        []model.Load // all loads for the referenced load cases
	Combinations map[int]model.LoadCombination

	// NodeIndex maps a Node.ID to its position in Nodes, i.e. the
	// "idx" used by the DOF numbering dof(node_k,d) = 6*idx(node_k)+d.
	NodeIndex map[int]int
	// ElementIndex maps an Element.ID to its position in Elements.
	ElementIndex map[int]int
	// ElementLength is the pre-computed length of each element, indexed
	// like Elements.
	ElementLength []float64

	// LoadsByCase groups Loads by LoadCaseID for the assembler.
	LoadsByCase map[int][]model.Load
}

// Load reads everything needed for analysisID from st and returns an
// immutable Snapshot. It fails with ferr.ModelMissing if any referenced
// id is absent, or ferr.ModelInconsistent if element endpoints,
// sections or materials are dangling, or a property/length invariant is
// violated.
func Load(ctx context.Context, st store.Store, analysisID int) (*Snapshot, error) {
	an, err := st.LoadAnalysis(ctx, analysisID)
	if err != nil {
		return nil, ferr.Wrap(ferr.ModelMissing, err, "load analysis %d", analysisID)
	}

	md, err := st.LoadModel(ctx, an.ProjectID)
	if err != nil {
		return nil, ferr.Wrap(ferr.ModelMissing, err, "load model for project %d", an.ProjectID)
	}

	snap := &Snapshot{
		Analysis:     an,
		Nodes:        md.Nodes,
		Elements:     md.Elements,
		Sections:     make(map[int]model.Section, len(md.Sections)),
		Materials:    make(map[int]model.Material, len(md.Materials)),
		LoadCases:    make(map[int]model.LoadCase, len(md.LoadCases)),
		Combinations: make(map[int]model.LoadCombination, len(md.Combinations)),
		NodeIndex:    make(map[int]int, len(md.Nodes)),
		ElementIndex: make(map[int]int, len(md.Elements)),
		LoadsByCase:  make(map[int][]model.Load),
	}

	for i, n := range snap.Nodes {
		snap.NodeIndex[n.ID] = i
	}
	for i, e := range snap.Elements {
		snap.ElementIndex[e.ID] = i
	}
	for _, s := range md.Sections {
		snap.Sections[s.ID] = s
	}
	for _, m := range md.Materials {
		snap.Materials[m.ID] = m
	}
	for _, lc := range md.LoadCases {
		snap.LoadCases[lc.ID] = lc
	}
	for _, c := range md.Combinations {
		snap.Combinations[c.ID] = c
	}

	// restrict loads to the cases this analysis actually references,
	// directly or via a combination.
	wanted := wantedLoadCases(an, snap.Combinations)
	for _, l := range md.Loads {
		if wanted[l.LoadCase] {
			snap.Loads = append(snap.Loads, l)
			snap.LoadsByCase[l.LoadCase] = append(snap.LoadsByCase[l.LoadCase], l)
		}
	}

	if err := snap.validate(an, wanted); err != nil {
		return nil, err
	}

	snap.ElementLength = make([]float64, len(snap.Elements))
	for i, e := range snap.Elements {
		si, ok1 := snap.NodeIndex[e.StartNode]
		ei, ok2 := snap.NodeIndex[e.EndNode]
		if !ok1 || !ok2 {
			return nil, ferr.New(ferr.ModelInconsistent, "element %d references missing node", e.ID)
		}
		a, b := snap.Nodes[si], snap.Nodes[ei]
		dx, dy, dz := b.X-a.X, b.Y-a.Y, b.Z-a.Z
		L := math.Sqrt(dx*dx + dy*dy + dz*dz)
		if L < LengthEpsilon {
			return nil, ferr.New(ferr.ModelInconsistent, "element %d has zero length (L=%g < eps=%g)", e.ID, L, LengthEpsilon)
		}
		snap.ElementLength[i] = L
	}

	return snap, nil
}

func wantedLoadCases(an *model.Analysis, combos map[int]model.LoadCombination) map[int]bool {
	wanted := make(map[int]bool)
	for _, id := range an.LoadCaseIDs {
		wanted[id] = true
	}
	for _, cid := range an.LoadCombinationIDs {
		if c, ok := combos[cid]; ok {
			for _, t := range c.Terms {
				wanted[t.LoadCaseID] = true
			}
		}
	}
	return wanted
}

// validate checks referential integrity and property invariants that do
// not depend on element length (length is checked separately once
// coordinates are resolved).
func (s *Snapshot) validate(an *model.Analysis, wanted map[int]bool) error {
	for cid := range wanted {
		if _, ok := s.LoadCases[cid]; !ok {
			return ferr.New(ferr.ModelMissing, "load case %d referenced by analysis %d not found", cid, an.ID)
		}
	}
	for _, cid := range an.LoadCombinationIDs {
		if _, ok := s.Combinations[cid]; !ok {
			return ferr.New(ferr.ModelMissing, "load combination %d referenced by analysis %d not found", cid, an.ID)
		}
	}
	for _, e := range s.Elements {
		if e.StartNode == e.EndNode {
			return ferr.New(ferr.ModelInconsistent, "element %d has identical start/end node %d", e.ID, e.StartNode)
		}
		if _, ok := s.NodeIndex[e.StartNode]; !ok {
			return ferr.New(ferr.ModelInconsistent, "element %d references missing start node %d", e.ID, e.StartNode)
		}
		if _, ok := s.NodeIndex[e.EndNode]; !ok {
			return ferr.New(ferr.ModelInconsistent, "element %d references missing end node %d", e.ID, e.EndNode)
		}
		sec, ok := s.Sections[e.Section]
		if !ok {
			return ferr.New(ferr.ModelInconsistent, "element %d references missing section %d", e.ID, e.Section)
		}
		if !sec.Valid() {
			return ferr.New(ferr.ModelInconsistent, "section %d has non-positive properties", sec.ID)
		}
		mat, ok := s.Materials[e.Material]
		if !ok {
			return ferr.New(ferr.ModelInconsistent, "element %d references missing material %d", e.ID, e.Material)
		}
		if !mat.Valid() {
			return ferr.New(ferr.ModelInconsistent, "material %d has invalid properties (need E>0, 0<nu<0.5, rho>=0)", mat.ID)
		}
	}
	for _, l := range s.Loads {
		if l.Nodal != nil {
			if _, ok := s.NodeIndex[l.Nodal.Node]; !ok {
				return ferr.New(ferr.ModelInconsistent, "nodal load references missing node %d", l.Nodal.Node)
			}
		}
		if l.Distributed != nil {
			if _, ok := s.ElementIndex[l.Distributed.Element]; !ok {
				return ferr.New(ferr.ModelInconsistent, "distributed load references missing element %d", l.Distributed.Element)
			}
		}
	}
	return nil
}

// NDOF returns the total number of degrees of freedom, 6 per node.
func (s *Snapshot) NDOF() int { return 6 * len(s.Nodes) }
