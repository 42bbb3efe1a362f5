// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package elem

import "github.com/elephantride/strumind/internal/model"

// GaussPts5/GaussWts5 are the 5-point Gauss-Legendre quadrature points
// and weights on [-1,1], shared by this package's consistent-load
// integration and package recover's station-force integration.
var GaussPts5 = [5]float64{0, -0.5384693101056831, 0.5384693101056831, -0.9061798459386640, 0.9061798459386640}
var GaussWts5 = [5]float64{0.5688888888888889, 0.4786286704993665, 0.4786286704993665, 0.2369268850561891, 0.2369268850561891}

// DistributedEquivalent returns the 12-entry local consistent nodal load
// vector for a linearly-varying distributed load active over
// [StartFrac*L, EndFrac*L] of an element of length L.
//
// The y/z-bending contributions are the work-equivalent loads of the
// cubic Hermite shape functions used to derive the bending stiffness
// rows (spec.md §4.3); for full-coverage uniform/trapezoidal loads this
// reduces to the closed-form fxl[1],fxl[2],fxl[4],fxl[5],... entries
// used by the teacher's 2D/3D beam element. Partial coverage has no
// simple closed form, so it is evaluated by quadrature instead.
func DistributedEquivalent(L float64, dl model.DistributedLoad) []float64 {
	fl := make([]float64, 12)
	x0, x1 := dl.StartFrac*L, dl.EndFrac*L
	half := (x1 - x0) / 2
	mid := (x1 + x0) / 2
	if half <= 0 {
		return fl
	}

	interp := func(wStart, wEnd, x float64) float64 {
		t := (x - x0) / (x1 - x0)
		return wStart + (wEnd-wStart)*t
	}

	for g := 0; g < 5; g++ {
		x := mid + half*GaussPts5[g]
		w := GaussWts5[g] * half
		xi := x / L

		// axial: linear shape functions
		na1, na2 := 1-xi, xi
		wx := interp(dl.WxStart, dl.WxEnd, x)
		fl[0] += w * wx * na1
		fl[6] += w * wx * na2

		// Hermite cubic shape functions, consistent with the bending
		// rows of Local().
		n1 := 1 - 3*xi*xi + 2*xi*xi*xi
		n2 := L * (xi - 2*xi*xi + xi*xi*xi)
		n3 := 3*xi*xi - 2*xi*xi*xi
		n4 := L * (-xi*xi + xi*xi*xi)

		wy := interp(dl.WyStart, dl.WyEnd, x)
		fl[1] += w * wy * n1
		fl[5] += w * wy * n2
		fl[7] += w * wy * n3
		fl[11] += w * wy * n4

		wz := interp(dl.WzStart, dl.WzEnd, x)
		fl[2] += w * wz * n1
		fl[4] += -w * wz * n2
		fl[8] += w * wz * n3
		fl[10] += -w * wz * n4
	}
	return fl
}
