// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bc implements C5: reduction of the assembled system to the
// free-DOF subsystem used by the static and modal solvers, and the
// inverse scatter back to full-length displacement vectors.
//
// The teacher enforces essential BCs by augmenting the system with
// Lagrange multipliers (fem/essenbcs.go); this module instead follows
// spec.md §4.5 and eliminates the constrained DOFs directly, which is
// the right match for a model whose only essential BCs are (possibly
// zero) prescribed displacements rather than general linear
// constraints.
package bc

import (
	"github.com/cpmech/gosl/la"

	"github.com/elephantride/strumind/internal/assemble"
	"github.com/elephantride/strumind/internal/dofmap"
)

// Reduced holds the dense free-free stiffness (and, if built WithMass,
// mass) block together with the reduced load vector.
type Reduced struct {
	Kff [][]float64
	Mff [][]float64 // nil unless requested
	Fr  []float64
}

// Reduce extracts K_ff (and M_ff) from g by re-scattering the retained
// per-element matrices, and forms F_r = F_free - K_fc * u_c. Prescribed
// values u_c are always zero in this model (model.Node carries only
// boolean restraints), but the subtraction is kept general so a future
// store that records nonzero prescribed displacements needs no change
// here.
func Reduce(g *assemble.Global, dm *dofmap.Map, F []float64, withMass bool) *Reduced {
	nf := dm.NFree()
	r := &Reduced{
		Kff: la.MatAlloc(nf, nf),
		Fr:  make([]float64, nf),
	}
	if withMass {
		r.Mff = la.MatAlloc(nf, nf)
	}

	uc := make([]float64, dm.NConstrained()) // always zero; see doc comment

	for ei, dofs := range g.ElemDOFs {
		Kg := g.ElemKg[ei]
		var Mg [][]float64
		if withMass {
			Mg = g.ElemMg[ei]
		}
		for a := 0; a < 12; a++ {
			pa, aFree := dm.IsFree(dofs[a])
			if !aFree {
				continue
			}
			for b := 0; b < 12; b++ {
				gb := dofs[b]
				if pb, ok := dm.IsFree(gb); ok {
					r.Kff[pa][pb] += Kg[a][b]
					if withMass {
						r.Mff[pa][pb] += Mg[a][b]
					}
				} else if pc, ok := dm.IsConstrained(gb); ok {
					r.Fr[pa] -= Kg[a][b] * uc[pc]
				}
			}
		}
	}

	for gd, k := range g.Springs {
		if p, ok := dm.IsFree(gd); ok {
			r.Kff[p][p] += k
		}
	}

	for _, gd := range dm.Free {
		p, _ := dm.IsFree(gd)
		r.Fr[p] += F[gd]
	}

	return r
}

// Inflate scatters a free-DOF solution vector ur back into a full-length
// (6*NNodes) displacement vector, filling constrained DOFs with their
// prescribed values (always zero; see Reduce).
func Inflate(dm *dofmap.Map, ur []float64) []float64 {
	u := make([]float64, dm.NDOF)
	for p, gd := range dm.Free {
		u[gd] = ur[p]
	}
	return u
}
