// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solve implements C6 (linear static) and C7 (modal) analysis
// on the reduced free-DOF system built by package bc.
//
// The teacher factorizes its (Lagrange-augmented) sparse system through
// an external la.LinSol backend (umfpack/mumps), selected at runtime by
// name (fem/domain.go). Those backends are not part of this module's
// dependency surface (see SPEC_FULL.md §B), and the spec explicitly
// allows a dense solve for the reduced system sizes this engine targets
// (spec.md §4.6): this package factorizes the dense free-free block
// with gonum's Cholesky instead, which also gives direct access to the
// pivots needed for the singularity check.
package solve

import (
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"

	"github.com/elephantride/strumind/internal/bc"
	"github.com/elephantride/strumind/internal/ferr"
)

// PivotRatioThreshold is the minimum allowed ratio of the smallest
// factorization pivot to the largest diagonal entry of Kff before the
// system is declared singular (spec.md §4.6). The denominator is Kff's
// diagonal, not the largest pivot.
const PivotRatioThreshold = 1e-12

// Static solves Kff * ur = Fr for the free-DOF displacement vector ur.
//
// The preferred path is a dense Cholesky factorization (Kff is expected
// SPD for a properly restrained model). If Cholesky refuses the matrix
// -- the "mechanism suspect" case of spec.md §4.6 -- this falls back to
// an LU factorization with partial pivoting (gonum has no dense LDL^T;
// LU's pivoted diagonal of U plays the same pivot-ratio role) and only
// then declares Singular if the pivot ratio test fails.
func Static(red *bc.Reduced) (ur []float64, err error) {
	n := len(red.Fr)
	if n == 0 {
		return nil, nil
	}

	K := denseFromRows(red.Kff)
	b := mat.NewDense(n, 1, append([]float64(nil), red.Fr...))

	var chol mat.Cholesky
	if chol.Factorize(K) {
		var L mat.TriDense
		chol.LTo(&L)
		if err := checkPivots(&L, red.Kff); err != nil {
			return nil, err
		}
		var x mat.Dense
		if err := chol.SolveTo(&x, b); err != nil {
			return nil, ferr.Wrap(ferr.Singular, err, "static solve failed")
		}
		return denseColumn(&x, n), nil
	}

	Kg := mat.DenseCopyOf(K)
	var lu mat.LU
	lu.Factorize(Kg)
	var U mat.Dense
	lu.UTo(&U)
	if err := checkPivotsLU(&U, red.Kff); err != nil {
		return nil, err
	}
	var x mat.Dense
	if err := lu.SolveTo(&x, false, b); err != nil {
		return nil, ferr.Wrap(ferr.Singular, err, "LDL^T fallback solve failed: mechanism suspect")
	}
	return denseColumn(&x, n), nil
}

func denseColumn(x *mat.Dense, n int) []float64 {
	ur := make([]float64, n)
	for i := 0; i < n; i++ {
		ur[i] = x.At(i, 0)
	}
	return ur
}

// checkPivotsLU is checkPivots' analogue for the LU fallback path: U's
// diagonal entries are the pivots of the pivoted decomposition.
func checkPivotsLU(U *mat.Dense, Kff [][]float64) error {
	n, _ := U.Dims()
	if n == 0 {
		return nil
	}
	minPivot := abs(U.At(0, 0))
	maxDiag := Kff[0][0]
	for i := 1; i < n; i++ {
		p := abs(U.At(i, i))
		if p < minPivot {
			minPivot = p
		}
		if Kff[i][i] > maxDiag {
			maxDiag = Kff[i][i]
		}
	}
	if maxDiag <= 0 {
		chk.Panic("stiffness matrix has a non-positive diagonal entry; model is inconsistent")
	}
	if minPivot/maxDiag < PivotRatioThreshold {
		return ferr.New(ferr.Singular, "LDL^T fallback pivot ratio %.3e below threshold %.3e: mechanism suspect", minPivot/maxDiag, PivotRatioThreshold)
	}
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// checkPivots applies the spec's pivot-ratio singularity test: the
// Cholesky diagonal entries squared are the pivots of the equivalent
// LDL^T decomposition; if the smallest is too small relative to the
// largest original diagonal entry of K, the system is ill-conditioned
// enough to call singular rather than trust the factorization.
func checkPivots(L *mat.TriDense, Kff [][]float64) error {
	n, _ := L.Dims()
	if n == 0 {
		return nil
	}
	minPivot := L.At(0, 0) * L.At(0, 0)
	maxDiag := Kff[0][0]
	for i := 1; i < n; i++ {
		p := L.At(i, i) * L.At(i, i)
		if p < minPivot {
			minPivot = p
		}
		if Kff[i][i] > maxDiag {
			maxDiag = Kff[i][i]
		}
	}
	if maxDiag <= 0 {
		chk.Panic("stiffness matrix has a non-positive diagonal entry; model is inconsistent")
	}
	if minPivot/maxDiag < PivotRatioThreshold {
		return ferr.New(ferr.Singular, "pivot ratio %.3e below threshold %.3e", minPivot/maxDiag, PivotRatioThreshold)
	}
	return nil
}

func denseFromRows(rows [][]float64) *mat.SymDense {
	n := len(rows)
	data := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			data[i*n+j] = rows[i][j]
		}
	}
	return mat.NewSymDense(n, data)
}
