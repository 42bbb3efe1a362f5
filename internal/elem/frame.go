// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package elem implements C3: the local 12x12 stiffness and consistent
// mass matrices and the 12x12 transformation for a 3D Euler-Bernoulli
// prismatic frame member, plus the static condensation used to apply
// end releases. The matrix-algebra idiom (la.MatAlloc, la.MatTrMul3,
// dense [][]float64 element matrices) follows ele/solid/beam.go; the
// closed-form entries follow spec.md §4.3 rather than any one teacher
// formula, since the teacher computes K via shape-function integration
// and this spec fixes the entries directly.
package elem

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/utl"

	"github.com/elephantride/strumind/internal/model"
)

// VerticalTolerance is the tie-break used to decide whether an element
// is "vertical" for the purpose of picking a reference axis when
// building T_e. Fixed per spec.md §4.3 -- implementers must not drift
// between revisions; tests pin it.
const VerticalTolerance = 1e-6

// Local computes the local 12x12 stiffness Kl and consistent mass Ml for
// a prismatic member of length L with the given section and material,
// before any end release is applied.
func Local(sec model.Section, mat model.Material, L float64) (Kl, Ml [][]float64) {
	Kl = la.MatAlloc(12, 12)
	Ml = la.MatAlloc(12, 12)

	E, G := mat.E, mat.G()
	EA := E * sec.A
	GJ := G * sec.J
	EIz := E * sec.Iz // bending about local z, deflection in y
	EIy := E * sec.Iy // bending about local y, deflection in z

	l := L
	ll := l * l
	lll := ll * l

	// axial: u at 0 and 6
	Kl[0][0], Kl[6][6] = EA/l, EA/l
	Kl[0][6], Kl[6][0] = -EA/l, -EA/l

	// torsion: theta_x at 3 and 9
	Kl[3][3], Kl[9][9] = GJ/l, GJ/l
	Kl[3][9], Kl[9][3] = -GJ/l, -GJ/l

	// bending about z (deflection in y): dofs 1 (v1), 5 (rz1), 7 (v2), 11 (rz2)
	set := func(i, j int, v float64) { Kl[i][j] = v }
	set(1, 1, 12*EIz/lll)
	set(1, 5, 6*EIz/ll)
	set(1, 7, -12*EIz/lll)
	set(1, 11, 6*EIz/ll)
	set(5, 1, 6*EIz/ll)
	set(5, 5, 4*EIz/l)
	set(5, 7, -6*EIz/ll)
	set(5, 11, 2*EIz/l)
	set(7, 1, -12*EIz/lll)
	set(7, 5, -6*EIz/ll)
	set(7, 7, 12*EIz/lll)
	set(7, 11, -6*EIz/ll)
	set(11, 1, 6*EIz/ll)
	set(11, 5, 2*EIz/l)
	set(11, 7, -6*EIz/ll)
	set(11, 11, 4*EIz/l)

	// bending about y (deflection in z): dofs 2 (w1), 4 (ry1), 8 (w2), 10 (ry2)
	// sign convention: the -6EIy/L^2 terms sit where the z-case has +6EIz/L^2.
	set(2, 2, 12*EIy/lll)
	set(2, 4, -6*EIy/ll)
	set(2, 8, -12*EIy/lll)
	set(2, 10, -6*EIy/ll)
	set(4, 2, -6*EIy/ll)
	set(4, 4, 4*EIy/l)
	set(4, 8, 6*EIy/ll)
	set(4, 10, 2*EIy/l)
	set(8, 2, -12*EIy/lll)
	set(8, 4, 6*EIy/ll)
	set(8, 8, 12*EIy/lll)
	set(8, 10, 6*EIy/ll)
	set(10, 2, -6*EIy/ll)
	set(10, 4, 2*EIy/l)
	set(10, 8, 6*EIy/ll)
	set(10, 10, 4*EIy/l)

	// consistent mass
	m := mat.Rho * sec.A * L // total translational mass
	Ip := sec.Iy + sec.Iz

	// axial: (m/6)[2,1;1,2]
	Ml[0][0], Ml[0][6] = 2*m/6, m/6
	Ml[6][0], Ml[6][6] = m/6, 2*m/6

	// torsion: (m*Ip/A/6)[2,1;1,2], i.e. replace translational mass
	// density rho*A by the polar rotary density rho*Ip.
	mt := mat.Rho * Ip * L
	Ml[3][3], Ml[3][9] = 2*mt/6, mt/6
	Ml[9][3], Ml[9][9] = mt/6, 2*mt/6

	// bending about z (v, rz): dofs 1,5,7,11 -- (m/420)[156,22L,54,-13L; ...]
	bz := [4]int{1, 5, 7, 11}
	patZ := [4][4]float64{
		{156, 22 * l, 54, -13 * l},
		{22 * l, 4 * ll, 13 * l, -3 * ll},
		{54, 13 * l, 156, -22 * l},
		{-13 * l, -3 * ll, -22 * l, 4 * ll},
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			Ml[bz[i]][bz[j]] = m / 420 * patZ[i][j]
		}
	}

	// bending about y (w, ry): dofs 2,4,8,10 -- mirrored signs vs. z-case
	by := [4]int{2, 4, 8, 10}
	patY := [4][4]float64{
		{156, -22 * l, 54, 13 * l},
		{-22 * l, 4 * ll, -13 * l, -3 * ll},
		{54, -13 * l, 156, 22 * l},
		{13 * l, -3 * ll, 22 * l, 4 * ll},
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			Ml[by[i]][by[j]] = m / 420 * patY[i][j]
		}
	}

	return
}

// Transform builds the 12x12 block-diagonal transformation T_e (four
// copies of the 3x3 rotation R) for an element from pStart to pEnd with
// roll angle rollDeg (input in degrees; converted to radians here).
func Transform(pStart, pEnd [3]float64, rollDeg float64) (T [][]float64) {
	e1 := [3]float64{pEnd[0] - pStart[0], pEnd[1] - pStart[1], pEnd[2] - pStart[2]}
	L := math.Sqrt(e1[0]*e1[0] + e1[1]*e1[1] + e1[2]*e1[2])
	for i := range e1 {
		e1[i] /= L
	}

	var e2p [3]float64
	if math.Abs(e1[2]) < 1-VerticalTolerance {
		// general case: e2' = z x e1, normalized
		z := [3]float64{0, 0, 1}
		utl.Cross3d(e2p[:], z[:], e1[:])
	} else {
		// vertical-element edge case: e2' = x x e1, normalized
		x := [3]float64{1, 0, 0}
		utl.Cross3d(e2p[:], x[:], e1[:])
	}
	nrm := la.VecNorm(e2p[:])
	for i := range e2p {
		e2p[i] /= nrm
	}

	var e3 [3]float64
	utl.Cross3d(e3[:], e1[:], e2p[:])

	// rotate (e2', e3) about e1 by the roll angle alpha
	alpha := rollDeg * math.Pi / 180
	ca, sa := math.Cos(alpha), math.Sin(alpha)
	var e2, e3r [3]float64
	for i := 0; i < 3; i++ {
		e2[i] = ca*e2p[i] + sa*e3[i]
		e3r[i] = -sa*e2p[i] + ca*e3[i]
	}

	T = la.MatAlloc(12, 12)
	for k := 0; k < 4; k++ {
		r := 3 * k
		T[r+0][0+r], T[r+0][1+r], T[r+0][2+r] = e1[0], e1[1], e1[2]
		T[r+1][0+r], T[r+1][1+r], T[r+1][2+r] = e2[0], e2[1], e2[2]
		T[r+2][0+r], T[r+2][1+r], T[r+2][2+r] = e3r[0], e3r[1], e3r[2]
	}
	return
}

// Global transforms local Kl, Ml into the global frame using
// Kg = T^T Kl T, Mg = T^T Ml T.
func Global(Kl, Ml, T [][]float64) (Kg, Mg [][]float64) {
	Kg = la.MatAlloc(12, 12)
	Mg = la.MatAlloc(12, 12)
	la.MatTrMul3(Kg, 1, T, Kl, T) // Kg := 1 * T^T * Kl * T
	la.MatTrMul3(Mg, 1, T, Ml, T) // Mg := 1 * T^T * Ml * T
	return
}

// CondenseReleases statically condenses the released local DOFs out of
// Kl (and the corresponding rows/cols of Ml, by simple deletion of their
// inertia rather than condensation, since released rotational/translational
// springs carry no mass of their own) before transformation to global
// coordinates, per spec.md §4.3.
//
// released[i] == true means local DOF i carries no moment/force (it is
// hinged); its row/col is condensed out of K assuming zero applied force
// there: Kcond = Krr - Krc * Kcc^-1 * Kcr.
func CondenseReleases(Kl, Ml [][]float64, released [12]bool) (Kc, Mc [][]float64) {
	if !anyReleased(released) {
		return Kl, Ml
	}

	var retained, cut []int
	for i := 0; i < 12; i++ {
		if released[i] {
			cut = append(cut, i)
		} else {
			retained = append(retained, i)
		}
	}
	nr, nc := len(retained), len(cut)

	Krr := la.MatAlloc(nr, nr)
	Krc := la.MatAlloc(nr, nc)
	Kcr := la.MatAlloc(nc, nr)
	Kcc := la.MatAlloc(nc, nc)
	for a, i := range retained {
		for b, j := range retained {
			Krr[a][b] = Kl[i][j]
		}
		for b, j := range cut {
			Krc[a][b] = Kl[i][j]
		}
	}
	for a, i := range cut {
		for b, j := range retained {
			Kcr[a][b] = Kl[i][j]
		}
		for b, j := range cut {
			Kcc[a][b] = Kl[i][j]
		}
	}

	KccInv := la.MatAlloc(nc, nc)
	if _, err := la.MatInv(KccInv, Kcc, 1e-14); err != nil {
		chk.Panic("element release condensation failed: the released DOF block is singular: %v", err)
	}

	// Kcond_rr = Krr - Krc * KccInv * Kcr
	tmp := la.MatAlloc(nr, nc)
	la.MatMul(tmp, 1, Krc, KccInv)
	reduction := la.MatAlloc(nr, nr)
	la.MatMul(reduction, 1, tmp, Kcr)

	Kc = la.MatAlloc(12, 12)
	for a, i := range retained {
		for b, j := range retained {
			Kc[i][j] = Krr[a][b] - reduction[a][b]
		}
	}

	// mass: released DOFs carry no inertia of their own; simplest
	// consistent choice is to zero their row/col in the condensed mass
	// matrix, leaving the retained-DOF block unchanged.
	Mc = la.MatAlloc(12, 12)
	for _, i := range retained {
		for _, j := range retained {
			Mc[i][j] = Ml[i][j]
		}
	}
	return
}

func anyReleased(r [12]bool) bool {
	for _, v := range r {
		if v {
			return true
		}
	}
	return false
}

// CombineReleases packs per-end Release flags into the 12-slot local
// layout ([0:6) = start node, [6:12) = end node).
func CombineReleases(start, end model.Release) (out [12]bool) {
	for d := 0; d < 6; d++ {
		out[d] = start[d]
		out[6+d] = end[d]
	}
	return
}
