// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package recover implements C8: recovery of node displacements and
// reactions, and element internal forces/stresses at the configured
// number of stations along each member, from a solved global
// displacement vector.
package recover

import (
	"math"

	"github.com/elephantride/strumind/internal/assemble"
	"github.com/elephantride/strumind/internal/dofmap"
	"github.com/elephantride/strumind/internal/elem"
	"github.com/elephantride/strumind/internal/model"
	"github.com/elephantride/strumind/internal/snapshot"
)

// Nodes computes the per-node displacement and reaction for one
// load case / combination, tagged with analysisID and the given
// case/combo ids (combo id is 0 when this is a direct load-case result).
func Nodes(snap *snapshot.Snapshot, dm *dofmap.Map, g *assemble.Global, u, F []float64, analysisID, loadCaseID, comboID int) []model.NodeResult {
	R := reactions(dm, g, u, F)

	out := make([]model.NodeResult, len(snap.Nodes))
	for i, n := range snap.Nodes {
		var nr model.NodeResult
		nr.AnalysisID = analysisID
		nr.NodeID = n.ID
		nr.LoadCaseID = loadCaseID
		nr.LoadCombinationID = comboID
		for d := 0; d < 6; d++ {
			gd := dofmap.DOF(i, d)
			nr.Disp[d] = u[gd]
			nr.Reaction[d] = R[gd]
		}
		out[i] = nr
	}
	return out
}

// reactions computes, for every global DOF, the out-of-balance force
// K*u - F. This is zero at free DOFs (by construction of the static
// solve) and the support reaction at constrained DOFs.
func reactions(dm *dofmap.Map, g *assemble.Global, u, F []float64) []float64 {
	R := make([]float64, dm.NDOF)
	for ei, dofs := range g.ElemDOFs {
		Kg := g.ElemKg[ei]
		for a := 0; a < 12; a++ {
			var s float64
			for b := 0; b < 12; b++ {
				s += Kg[a][b] * u[dofs[b]]
			}
			R[dofs[a]] += s
		}
	}
	for gd, k := range g.Springs {
		R[gd] += k * u[gd]
	}
	for gd := range R {
		R[gd] -= F[gd]
	}
	// zero out free DOFs: equilibrium there is satisfied to solver
	// tolerance, not bit-exactly, and the snapshot contract only
	// promises reactions at constrained DOFs.
	for _, gd := range dm.Free {
		R[gd] = 0
	}
	return R
}

// Elements computes internal forces and stresses at Options.Stations
// equally-spaced positions (including both ends) along every element,
// for one load case / combination.
func Elements(snap *snapshot.Snapshot, g *assemble.Global, u []float64, analysisID, loadCaseID, comboID, stations int) []model.ElementResult {
	if stations < 2 {
		stations = 2
	}
	var out []model.ElementResult
	for ei, e := range snap.Elements {
		sec := snap.Sections[e.Section]
		L := snap.ElementLength[ei]
		T := g.ElemT[ei]
		dofs := g.ElemDOFs[ei]

		ueGlobal := make([]float64, 12)
		for i := 0; i < 12; i++ {
			ueGlobal[i] = u[dofs[i]]
		}
		ueLocal := make([]float64, 12)
		for i := 0; i < 12; i++ {
			var s float64
			for j := 0; j < 12; j++ {
				s += T[i][j] * ueGlobal[j]
			}
			ueLocal[i] = s
		}

		released := elem.CombineReleases(e.ReleaseStart, e.ReleaseEnd)
		mat := snap.Materials[e.Material]
		Kl, Ml := elem.Local(sec, mat, L)
		Kl, _ = elem.CondenseReleases(Kl, Ml, released)

		// end forces in local coordinates, net of any equivalent nodal
		// load this element carries for this case (so that the
		// recovered forces reflect the true internal state, not the
		// FE-equivalent nodal approximation).
		fEnd := make([]float64, 12)
		for i := 0; i < 12; i++ {
			var s float64
			for j := 0; j < 12; j++ {
				s += Kl[i][j] * ueLocal[j]
			}
			fEnd[i] = s
		}
		for _, ld := range snap.LoadsByCase[loadCaseID] {
			if ld.Distributed != nil && ld.Distributed.Element == e.ID {
				fl := elem.DistributedEquivalent(L, *ld.Distributed)
				for i := 0; i < 12; i++ {
					fEnd[i] -= fl[i]
				}
			}
		}

		for s := 0; s < stations; s++ {
			x := L * float64(s) / float64(stations-1)
			res := stationForces(snap, e, L, fEnd, x, loadCaseID)
			res.AnalysisID = analysisID
			res.ElementID = e.ID
			res.LoadCaseID = loadCaseID
			res.LoadCombinationID = comboID
			res.Position = x / L
			computeStresses(&res, sec)
			out = append(out, res)
		}
	}
	return out
}

// stationForces derives the 6 internal section forces at local
// coordinate x from the start-end forces and this element's own
// distributed loads in the given case, by free-body equilibrium of the
// segment [0, x].
func stationForces(snap *snapshot.Snapshot, e model.Element, L float64, fEnd []float64, x float64, loadCaseID int) model.ElementResult {
	var res model.ElementResult
	N := fEnd[0]
	Vy := fEnd[1]
	Vz := fEnd[2]
	Tq := fEnd[3]
	// start shear acting over the lever arm x
	My := fEnd[4] + fEnd[2]*x
	Mz := fEnd[5] - fEnd[1]*x

	for _, ld := range snap.LoadsByCase[loadCaseID] {
		if ld.Distributed == nil || ld.Distributed.Element != e.ID {
			continue
		}
		dl := *ld.Distributed
		Wx, Wy, Wz, Mx0, Mz0 := integrateToStation(L, dl, x)
		N += Wx
		Vy += Wy
		Vz += Wz
		Mz -= Mx0 // moment contribution from wy about local z
		My += Mz0 // moment contribution from wz about local y
	}

	res.Forces = [6]float64{N, Vy, Vz, Tq, My, Mz}
	return res
}

// integrateToStation returns the cumulative axial/shear force and
// bending-moment contribution of a linearly-varying, partial-coverage
// distributed load over [0, x], by 5-point Gauss quadrature (exact for
// the piecewise-linear loads this model supports).
func integrateToStation(L float64, dl model.DistributedLoad, x float64) (Wx, Wy, Wz, momZ, momY float64) {
	lo := dl.StartFrac * L
	hi := dl.EndFrac * L
	if hi > x {
		hi = x
	}
	if hi <= lo {
		return
	}
	half := (hi - lo) / 2
	mid := (hi + lo) / 2

	interp := func(wStart, wEnd, s float64) float64 {
		t := (s - dl.StartFrac*L) / (dl.EndFrac*L - dl.StartFrac*L)
		return wStart + (wEnd-wStart)*t
	}

	for g := 0; g < 5; g++ {
		s := mid + half*elem.GaussPts5[g]
		w := elem.GaussWts5[g] * half

		wx := interp(dl.WxStart, dl.WxEnd, s)
		wy := interp(dl.WyStart, dl.WyEnd, s)
		wz := interp(dl.WzStart, dl.WzEnd, s)

		Wx += w * wx
		Wy += w * wy
		Wz += w * wz
		momZ += w * wy * (x - s)
		momY += w * wz * (x - s)
	}
	return
}

// computeStresses fills the stress fields from section properties,
// recomputing von Mises from the (possibly combined) force components
// rather than superposing stresses directly (spec.md §4.8).
func computeStresses(res *model.ElementResult, sec model.Section) {
	N, _, _, _, My, Mz := res.Forces[0], res.Forces[1], res.Forces[2], res.Forces[3], res.Forces[4], res.Forces[5]
	res.AxialStress = N / sec.A
	res.BendStressY = My / sec.Sy
	res.BendStressZ = Mz / sec.Sz
	res.VonMises = math.Sqrt(res.AxialStress*res.AxialStress + 3*(res.BendStressY*res.BendStressY+res.BendStressZ*res.BendStressZ))
}
