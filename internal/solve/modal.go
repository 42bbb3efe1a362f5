// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/elephantride/strumind/internal/bc"
	"github.com/elephantride/strumind/internal/dofmap"
	"github.com/elephantride/strumind/internal/ferr"
)

// Mode is one free-vibration mode: its circular frequency, the
// mass-normalized mode shape restricted to the free DOFs, and the
// participation factors / effective modal masses in the three global
// translational directions.
type Mode struct {
	Omega         float64
	Frequency     float64
	Period        float64
	ShapeFree     []float64
	Participation [3]float64
	EffectiveMass [3]float64
}

// Modal solves the generalized eigenproblem Kff*phi = lambda*Mff*phi for
// the numModes lowest modes.
//
// Rather than inverting Mff, the problem is reduced via the Cholesky
// factor Mff = L*L^T to the standard symmetric eigenproblem
// A = L^-1 * Kff * L^-T, following spec.md §4.7/§9's "must not invert M
// explicitly". This also happens to deliver mass-normalized mode shapes
// for free: gonum's EigenSym returns an orthonormal eigenvector basis z
// (z_i^T z_j = delta_ij), and phi_i = L^-T z_i satisfies
// phi_i^T M phi_j = z_i^T L^-1 M L^-T z_j = z_i^T z_j = delta_ij.
func Modal(red *bc.Reduced, dm *dofmap.Map, numModes int) ([]Mode, error) {
	n := len(red.Fr)
	if n == 0 || numModes <= 0 {
		return nil, nil
	}
	if numModes > n {
		numModes = n
	}

	M := denseFromRows(red.Mff)
	var cholM mat.Cholesky
	if ok := cholM.Factorize(M); !ok {
		return nil, ferr.New(ferr.Singular, "mass matrix is not positive definite")
	}
	var L mat.TriDense
	cholM.LTo(&L)

	K := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			K.Set(i, j, red.Kff[i][j])
		}
	}

	// Y = L^-1 * K
	var Y mat.Dense
	if err := Y.Solve(&L, K); err != nil {
		return nil, ferr.Wrap(ferr.EigenNoConverge, err, "modal reduction forward solve failed")
	}
	// A = L^-1 * Y^T = L^-1 * K^T * L^-T = L^-1 * K * L^-T  (K symmetric)
	var A mat.Dense
	if err := A.Solve(&L, Y.T()); err != nil {
		return nil, ferr.Wrap(ferr.EigenNoConverge, err, "modal reduction backward solve failed")
	}

	// symmetrize to cancel floating-point asymmetry before EigenSym,
	// which requires an exactly-symmetric input.
	Asym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := (A.At(i, j) + A.At(j, i)) / 2
			Asym.SetSym(i, j, v)
		}
	}

	var es mat.EigenSym
	if ok := es.Factorize(Asym, true); !ok {
		return nil, ferr.New(ferr.EigenNoConverge, "symmetric eigensolve did not converge")
	}
	values := es.Values(nil)
	var Z mat.Dense
	es.VectorsTo(&Z)

	// phi = L^-T * z
	var Phi mat.Dense
	if err := Phi.Solve(L.T(), &Z); err != nil {
		return nil, ferr.Wrap(ferr.EigenNoConverge, err, "mode shape recovery failed")
	}

	rigid := rigidBodyVectors(dm)

	modes := make([]Mode, numModes)
	for m := 0; m < numModes; m++ {
		lambda := values[m]
		if lambda < 0 {
			lambda = 0
		}
		omega := math.Sqrt(lambda)
		shape := make([]float64, n)
		for i := 0; i < n; i++ {
			shape[i] = Phi.At(i, m)
		}

		mode := Mode{Omega: omega, ShapeFree: shape}
		if omega > 0 {
			mode.Frequency = omega / (2 * math.Pi)
			mode.Period = 1 / mode.Frequency
		}
		for d := 0; d < 3; d++ {
			gamma := participation(shape, rigid[d], red.Mff)
			mode.Participation[d] = gamma
			mode.EffectiveMass[d] = gamma * gamma
		}
		modes[m] = mode
	}
	return modes, nil
}

// rigidBodyVectors returns, for each of the 3 global translational
// directions, the influence vector restricted to the free DOFs: 1 at
// every free translational DOF aligned with that direction, 0
// elsewhere (rotational DOFs never participate in rigid translation).
func rigidBodyVectors(dm *dofmap.Map) [3][]float64 {
	var r [3][]float64
	for d := 0; d < 3; d++ {
		r[d] = make([]float64, dm.NFree())
	}
	for p, gdof := range dm.Free {
		local := gdof % 6
		if local < 3 {
			r[local][p] = 1
		}
	}
	return r
}

// participation computes Gamma = phi^T * M * r for a mass-normalized
// mode shape phi.
func participation(phi, r []float64, Mff [][]float64) float64 {
	n := len(phi)
	Mr := make([]float64, n)
	for i := 0; i < n; i++ {
		var s float64
		for j := 0; j < n; j++ {
			s += Mff[i][j] * r[j]
		}
		Mr[i] = s
	}
	var gamma float64
	for i := 0; i < n; i++ {
		gamma += phi[i] * Mr[i]
	}
	return gamma
}
