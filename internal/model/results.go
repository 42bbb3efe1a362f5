// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

// NodeResult is one row of nodal displacement/reaction output, keyed by
// (analysis, node, load_case | load_combination). Exactly one of
// LoadCaseID/LoadCombinationID is non-zero -- the schema-constraint
// redesign note in spec.md §9.
type NodeResult struct {
	AnalysisID        int
	NodeID            int
	LoadCaseID        int // 0 if this row belongs to a combination
	LoadCombinationID int // 0 if this row belongs to a case
	Disp              [6]float64 // ux,uy,uz,rx,ry,rz
	Reaction          [6]float64 // zero unless NodeID is constrained
}

// ElementResult is one row of element end force/stress output at a
// fractional Position along the element (0 = start, 1 = end).
type ElementResult struct {
	AnalysisID        int
	ElementID         int
	LoadCaseID        int
	LoadCombinationID int
	Position          float64
	Forces            [6]float64 // N, Vy, Vz, T, My, Mz in the local frame
	AxialStress       float64
	BendStressY       float64
	BendStressZ       float64
	VonMises          float64
}

// ModalResult is one natural mode, keyed by (analysis, mode_number).
// ModeNumber is 1-based and strictly ascending in natural frequency.
type ModalResult struct {
	AnalysisID   int
	ModeNumber   int
	Omega        float64 // rad/s
	Frequency    float64 // Hz
	Period       float64 // s
	Shape        []float64 // full (unreduced) mode shape, DOF-ordered
	Participation [3]float64 // Γ_x, Γ_y, Γ_z
	EffectiveMass [3]float64 // M_eff_x, M_eff_y, M_eff_z
}
