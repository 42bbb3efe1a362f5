// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package elem

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	gomat "gonum.org/v1/gonum/mat"

	"github.com/elephantride/strumind/internal/model"
)

func Test_local01(tst *testing.T) {

	chk.PrintTitle("local01. stiffness and mass are symmetric")

	sec := model.Section{A: 0.01, Iy: 8e-5, Iz: 8e-5, J: 1.6e-4, Sy: 8e-4, Sz: 8e-4}
	mat := model.Material{E: 2e11, Nu: 0.3, Rho: 7850}
	Kl, Ml := Local(sec, mat, 3.0)

	for i := 0; i < 12; i++ {
		for j := 0; j < 12; j++ {
			chk.Scalar(tst, "Kl symmetric", 1e-9, Kl[i][j], Kl[j][i])
			chk.Scalar(tst, "Ml symmetric", 1e-9, Ml[i][j], Ml[j][i])
		}
	}
}

func Test_local02(tst *testing.T) {

	chk.PrintTitle("local02. axial stiffness matches EA/L")

	sec := model.Section{A: 0.01, Iy: 8e-5, Iz: 8e-5, J: 1.6e-4, Sy: 8e-4, Sz: 8e-4}
	mat := model.Material{E: 2e11, Nu: 0.3, Rho: 7850}
	L := 2.0
	Kl, _ := Local(sec, mat, L)
	chk.Scalar(tst, "Kl[0][0]", 1e-6, Kl[0][0], mat.E*sec.A/L)
	chk.Scalar(tst, "Kl[0][6]", 1e-6, Kl[0][6], -mat.E*sec.A/L)
}

func Test_transform01(tst *testing.T) {

	chk.PrintTitle("transform01. rotation block is orthonormal for an axis-aligned element")

	T := Transform([3]float64{0, 0, 0}, [3]float64{5, 0, 0}, 0)
	// e1 should be (1,0,0); the 3x3 leading block must be orthonormal.
	var dot float64
	for k := 0; k < 3; k++ {
		dot += T[0][k] * T[0][k]
	}
	chk.Scalar(tst, "|e1|=1", 1e-12, dot, 1)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var s float64
			for k := 0; k < 3; k++ {
				s += T[i][k] * T[j][k]
			}
			expected := 0.0
			if i == j {
				expected = 1.0
			}
			chk.Scalar(tst, "R R^T = I", 1e-12, s, expected)
		}
	}
}

func Test_transform02(tst *testing.T) {

	chk.PrintTitle("transform02. vertical element takes the x-axis branch without NaNs")

	T := Transform([3]float64{0, 0, 0}, [3]float64{0, 0, 4}, 0)
	for i := 0; i < 12; i++ {
		for j := 0; j < 12; j++ {
			if math.IsNaN(T[i][j]) {
				tst.Errorf("T[%d][%d] is NaN", i, j)
			}
		}
	}
	// e1 must be (0,0,1)
	chk.Vector(tst, "e1", 1e-12, T[0][0:3], []float64{0, 0, 1})
}

func Test_condense01(tst *testing.T) {

	chk.PrintTitle("condense01. releasing both end moments about z collapses the z-bending stiffness")

	sec := model.Section{A: 0.01, Iy: 8e-5, Iz: 8e-5, J: 1.6e-4, Sy: 8e-4, Sz: 8e-4}
	mat := model.Material{E: 2e11, Nu: 0.3, Rho: 7850}
	Kl, Ml := Local(sec, mat, 3.0)

	var released [12]bool
	released[5] = true  // rz at node 1
	released[11] = true // rz at node 2
	Kc, _ := CondenseReleases(Kl, Ml, released)

	// a beam released at both ends for rz behaves, for v-translation,
	// like a two-force (axial-only-in-that-plane) link: zero stiffness.
	chk.Scalar(tst, "Kc[1][1] collapses to 0", 1e-6, Kc[1][1], 0)
}

func Test_rigidbody01(tst *testing.T) {

	chk.PrintTitle("rigidbody01. an unconstrained single element has exactly 6 zero eigenvalues")

	sec := model.Section{A: 0.01, Iy: 8e-5, Iz: 8e-5, J: 1.6e-4, Sy: 8e-4, Sz: 8e-4}
	mat := model.Material{E: 2e11, Nu: 0.3, Rho: 7850}
	Kl, _ := Local(sec, mat, 3.0)

	data := make([]float64, 144)
	for i := 0; i < 12; i++ {
		for j := 0; j < 12; j++ {
			data[i*12+j] = Kl[i][j]
		}
	}
	Ksym := gomat.NewSymDense(12, data)

	var es gomat.EigenSym
	if ok := es.Factorize(Ksym, false); !ok {
		tst.Fatalf("eigendecomposition of K_e did not converge")
	}
	values := es.Values(nil)

	var maxAbs float64
	for _, v := range values {
		if math.Abs(v) > maxAbs {
			maxAbs = math.Abs(v)
		}
	}
	tol := 1e-6 * maxAbs

	nZero := 0
	for _, v := range values {
		if math.Abs(v) <= tol {
			nZero++
		}
	}
	if nZero != 6 {
		tst.Fatalf("expected exactly 6 zero eigenvalues (rigid-body modes), got %d: %v", nZero, values)
	}
}

func Test_transform03(tst *testing.T) {

	chk.PrintTitle("transform03. roll angle round-trip: rotating the input by alpha and un-rolling by -alpha recovers the unrolled frame")

	pStart := [3]float64{0, 0, 0}
	pEnd := [3]float64{5, 0, 0}

	for _, alphaDeg := range []float64{0, 90, 180, 270} {
		T0 := Transform(pStart, pEnd, 0)
		Talpha := Transform(pStart, pEnd, alphaDeg)

		// Talpha's (e2,e3) pair is T0's (e2,e3) pair rotated by alpha about
		// e1; rotating Talpha back by -alpha must recover T0 exactly, for
		// every roll angle in the round-trip set.
		alpha := alphaDeg * math.Pi / 180
		ca, sa := math.Cos(alpha), math.Sin(alpha)

		e2a := [3]float64{Talpha[1][0], Talpha[1][1], Talpha[1][2]}
		e3a := [3]float64{Talpha[2][0], Talpha[2][1], Talpha[2][2]}

		var e2back, e3back [3]float64
		for k := 0; k < 3; k++ {
			// inverse rotation by -alpha: e2 = cos(a)e2a - sin(a)e3a, etc.
			e2back[k] = ca*e2a[k] - sa*e3a[k]
			e3back[k] = sa*e2a[k] + ca*e3a[k]
		}

		chk.Vector(tst, "e2 round-trips", 1e-9, e2back[:], []float64{T0[1][0], T0[1][1], T0[1][2]})
		chk.Vector(tst, "e3 round-trips", 1e-9, e3back[:], []float64{T0[2][0], T0[2][1], T0[2][2]})
	}
}
