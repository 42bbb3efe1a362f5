// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package assemble implements C4: it scatters each element's local
// matrices into global sparse K and M (la.Triplet, converted to
// la.CCMatrix), and builds the global load vector for one load case.
// The scatter idiom (Triplet.Init + Put per entry) follows
// fem/e_beam.go's AddToKb; the spec fixes the entries themselves.
package assemble

import (
	"github.com/cpmech/gosl/la"

	"github.com/elephantride/strumind/internal/dofmap"
	"github.com/elephantride/strumind/internal/elem"
	"github.com/elephantride/strumind/internal/model"
	"github.com/elephantride/strumind/internal/snapshot"
)

// Global holds the assembled global stiffness and (optionally) mass
// matrices in compressed-column form, along with per-element global
// matrices and transforms kept for result recovery (C8).
type Global struct {
	NDOF int
	K    *la.CCMatrix
	M    *la.CCMatrix // nil unless built WithMass

	// per-element data, indexed like snap.Elements, retained so C8 does
	// not need to recompute K_e/T_e from scratch.
	ElemKg   [][][]float64
	ElemMg   [][][]float64 // nil unless built WithMass
	ElemT    [][][]float64
	ElemDOFs [][]int // the 12 global dof indices touched by each element

	// Springs holds the extra diagonal stiffness contributed by node
	// spring supports, keyed by global dof. Kept alongside K/M so the BC
	// reducer can fold them into the dense free-free block without
	// reaching into CCMatrix internals.
	Springs map[int]float64
}

// Build assembles K (and M if withMass) for the given snapshot.
func Build(snap *snapshot.Snapshot, dm *dofmap.Map, withMass bool) *Global {
	n := len(snap.Elements)
	g := &Global{
		NDOF:     dm.NDOF,
		ElemKg:   make([][][]float64, n),
		ElemT:    make([][][]float64, n),
		ElemDOFs: make([][]int, n),
		Springs:  make(map[int]float64),
	}
	if withMass {
		g.ElemMg = make([][][]float64, n)
	}

	// upper bound on nonzeros: 144 entries per element, plus at most one
	// spring entry per dof.
	Kt := new(la.Triplet)
	Kt.Init(dm.NDOF, dm.NDOF, 144*n+dm.NDOF)
	var Mt *la.Triplet
	if withMass {
		Mt = new(la.Triplet)
		Mt.Init(dm.NDOF, dm.NDOF, 144*n)
	}

	for i, e := range snap.Elements {
		sec := snap.Sections[e.Section]
		mat := snap.Materials[e.Material]
		L := snap.ElementLength[i]

		Kl, Ml := elem.Local(sec, mat, L)
		released := elem.CombineReleases(e.ReleaseStart, e.ReleaseEnd)
		Kl, Ml = elem.CondenseReleases(Kl, Ml, released)

		si := snap.NodeIndex[e.StartNode]
		ei := snap.NodeIndex[e.EndNode]
		a, b := snap.Nodes[si], snap.Nodes[ei]
		T := elem.Transform([3]float64{a.X, a.Y, a.Z}, [3]float64{b.X, b.Y, b.Z}, e.RollDeg)

		Kg, Mg := elem.Global(Kl, Ml, T)
		g.ElemKg[i] = Kg
		g.ElemT[i] = T
		if withMass {
			g.ElemMg[i] = Mg
		}

		dofs := make([]int, 12)
		for d := 0; d < 6; d++ {
			dofs[d] = dofmap.DOF(si, d)
			dofs[6+d] = dofmap.DOF(ei, d)
		}
		g.ElemDOFs[i] = dofs

		for r := 0; r < 12; r++ {
			for c := 0; c < 12; c++ {
				if Kg[r][c] != 0 {
					Kt.Put(dofs[r], dofs[c], Kg[r][c])
				}
			}
		}
		if withMass {
			for r := 0; r < 12; r++ {
				for c := 0; c < 12; c++ {
					if Mg[r][c] != 0 {
						Mt.Put(dofs[r], dofs[c], Mg[r][c])
					}
				}
			}
		}
	}

	// spring supports add directly to the diagonal.
	for i, n := range snap.Nodes {
		for d := 0; d < 6; d++ {
			if n.Springs[d] != 0 {
				gd := dofmap.DOF(i, d)
				Kt.Put(gd, gd, n.Springs[d])
				g.Springs[gd] += n.Springs[d]
			}
		}
	}

	g.K = Kt.ToMatrix(nil)
	if withMass {
		g.M = Mt.ToMatrix(nil)
	}
	return g
}

// LoadVector assembles the global load vector F for one load case,
// combining direct nodal loads with the consistent nodal equivalents of
// any distributed loads on that case.
func LoadVector(snap *snapshot.Snapshot, dm *dofmap.Map, loadCaseID int) []float64 {
	F := make([]float64, dm.NDOF)

	for _, ld := range snap.LoadsByCase[loadCaseID] {
		switch {
		case ld.Nodal != nil:
			idx := snap.NodeIndex[ld.Nodal.Node]
			vals := [6]float64{ld.Nodal.Fx, ld.Nodal.Fy, ld.Nodal.Fz, ld.Nodal.Mx, ld.Nodal.My, ld.Nodal.Mz}
			for d := 0; d < 6; d++ {
				F[dofmap.DOF(idx, d)] += vals[d]
			}

		case ld.Distributed != nil:
			addDistributed(snap, dm, F, *ld.Distributed)
		}
	}
	return F
}

// addDistributed converts a (partial-coverage, linearly-varying) local
// distributed load into consistent nodal forces/moments using the same
// cubic/linear Hermite shape functions that generate the stiffness
// matrix's bending rows, then rotates the result into the global frame
// with the element's transformation.
func addDistributed(snap *snapshot.Snapshot, dm *dofmap.Map, F []float64, dl model.DistributedLoad) {
	ei, ok := snap.ElementIndex[dl.Element]
	if !ok {
		return
	}
	e := snap.Elements[ei]
	L := snap.ElementLength[ei]
	si := snap.NodeIndex[e.StartNode]
	eni := snap.NodeIndex[e.EndNode]
	a, b := snap.Nodes[si], snap.Nodes[eni]
	T := elem.Transform([3]float64{a.X, a.Y, a.Z}, [3]float64{b.X, b.Y, b.Z}, e.RollDeg)

	fl := elem.DistributedEquivalent(L, dl)

	// fg = T^T * fl, following e_beam.go's "fx = trans(T) * fxl".
	fg := make([]float64, 12)
	la.MatTrVecMulAdd(fg, 1, T, fl)

	dofs := [12]int{}
	for d := 0; d < 6; d++ {
		dofs[d] = dofmap.DOF(si, d)
		dofs[6+d] = dofmap.DOF(eni, d)
	}
	for i := 0; i < 12; i++ {
		F[dofs[i]] += fg[i]
	}
}
