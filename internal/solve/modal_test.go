// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/elephantride/strumind/internal/assemble"
	"github.com/elephantride/strumind/internal/bc"
	"github.com/elephantride/strumind/internal/dofmap"
)

func Test_modal01(tst *testing.T) {

	chk.PrintTitle("modal01. cantilever first bending frequency matches the closed form")

	snap := cantilever(tst)
	dm := dofmap.Build(snap.Nodes)
	g := assemble.Build(snap, dm, true)
	zero := make([]float64, dm.NDOF)
	red := bc.Reduce(g, dm, zero, true)

	modes, err := Modal(red, dm, 3)
	if err != nil {
		tst.Fatalf("modal solve failed: %v", err)
	}
	if len(modes) != 3 {
		tst.Fatalf("expected 3 modes, got %d", len(modes))
	}
	for i := 1; i < len(modes); i++ {
		if modes[i].Omega < modes[i-1].Omega {
			tst.Fatalf("modes not ascending: omega[%d]=%g < omega[%d]=%g", i, modes[i].Omega, i-1, modes[i-1].Omega)
		}
	}

	sec := snap.Sections[1]
	mat := snap.Materials[1]
	L := snap.ElementLength[0]
	expected := (1.875 * 1.875) / (2 * math.Pi) * math.Sqrt(mat.E*sec.Iz/(mat.Rho*sec.A*L*L*L*L))

	// within 2% per spec.md §8 scenario 4; even a 1-element consistent-
	// mass model is within about 0.5% of the continuum closed form.
	rel := math.Abs(modes[0].Frequency-expected) / expected
	if rel > 0.02 {
		tst.Fatalf("f1 = %g, expected ~%g (closed form), rel err %g", modes[0].Frequency, expected, rel)
	}
}

func Test_modal02(tst *testing.T) {

	chk.PrintTitle("modal02. mode shapes are mass-orthonormal")

	snap := cantilever(tst)
	dm := dofmap.Build(snap.Nodes)
	g := assemble.Build(snap, dm, true)
	zero := make([]float64, dm.NDOF)
	red := bc.Reduce(g, dm, zero, true)

	modes, err := Modal(red, dm, 4)
	if err != nil {
		tst.Fatalf("modal solve failed: %v", err)
	}

	for i, mi := range modes {
		for j, mj := range modes {
			var s float64
			for a := range mi.ShapeFree {
				var Mphi float64
				for b := range mj.ShapeFree {
					Mphi += red.Mff[a][b] * mj.ShapeFree[b]
				}
				s += mi.ShapeFree[a] * Mphi
			}
			expected := 0.0
			if i == j {
				expected = 1.0
			}
			chk.Scalar(tst, "phi_i^T M phi_j", 1e-6, s, expected)
		}
	}
}
