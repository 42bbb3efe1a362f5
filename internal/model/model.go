// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package model holds the entities read from the model store: nodes,
// sections, materials, elements, load cases, loads, load combinations
// and analyses. These are plain records -- no store access happens once
// a value of these types exists; see package snapshot for the immutable
// read used by a run.
package model

import "time"

// Node is a point in space with up to 6 restrained DOFs and optional
// spring supports in the free directions. DOF order is always
// [ux, uy, uz, rx, ry, rz].
type Node struct {
	ID         int
	X, Y, Z    float64
	Restraint  [6]bool
	Springs    [6]float64 // stiffness per DOF; 0 means no spring
}

// Section holds the cross-section properties used by the element
// stiffness/mass formulation. All must be strictly positive.
type Section struct {
	ID             int
	A, Iy, Iz, J   float64
	Sy, Sz         float64
	Zy, Zz         float64 // optional plastic section moduli, 0 if unset
}

// Valid reports whether the section satisfies the positivity invariants
// required by spec.md §3.
func (s Section) Valid() bool {
	return s.A > 0 && s.Iy > 0 && s.Iz > 0 && s.J > 0 && s.Sy > 0 && s.Sz > 0
}

// Material holds the constitutive constants for linear elastic, 3D
// prismatic frame members.
type Material struct {
	ID      int
	E, Nu   float64
	Rho     float64
	Fy, Fu  float64 // optional yield/ultimate strength, unused by the core
}

// Valid reports whether the material satisfies the positivity/Poisson
// range invariants required by spec.md §3.
func (m Material) Valid() bool {
	return m.E > 0 && m.Nu > 0 && m.Nu < 0.5 && m.Rho >= 0
}

// G returns the shear modulus derived from E and Nu.
func (m Material) G() float64 {
	return m.E / (2 * (1 + m.Nu))
}

// Release flags the 6 local DOFs at one end of an element as released
// (hinged / free) instead of rigidly connected to the node.
type Release [6]bool

// Any reports whether at least one DOF is released.
func (r Release) Any() bool {
	for _, v := range r {
		if v {
			return true
		}
	}
	return false
}

// Element is a straight prismatic frame member between two nodes.
type Element struct {
	ID                 int
	StartNode, EndNode int
	Section, Material  int
	RollDeg            float64 // roll angle, degrees (input layer; core converts to radians)
	ReleaseStart       Release
	ReleaseEnd         Release
}

// LoadCase is a label grouping Loads.
type LoadCase struct {
	ID   int
	Name string
}

// NodalLoad is a concentrated action applied directly at a node, in the
// global frame.
type NodalLoad struct {
	Node                       int
	Fx, Fy, Fz, Mx, My, Mz     float64
}

// DistributedLoad is a linearly-varying line load on an element, given
// in the element's local frame between StartFrac and EndFrac (both in
// [0,1], StartFrac < EndFrac). Wx/Wy/Wz are linear force densities
// (N/m) at the respective end fractions; the core interpolates
// linearly between them and converts to consistent nodal equivalents.
type DistributedLoad struct {
	Element                int
	WxStart, WyStart, WzStart float64
	WxEnd, WyEnd, WzEnd       float64
	StartFrac, EndFrac     float64
}

// Load is exactly one of Nodal or Distributed, scoped to a LoadCase.
type Load struct {
	LoadCase    int
	Nodal       *NodalLoad
	Distributed *DistributedLoad
}

// ComboTerm is one (LoadCase, factor) pair of a LoadCombination.
type ComboTerm struct {
	LoadCaseID int
	Factor     float64
}

// LoadCombination is an ordered linear combination of load cases.
type LoadCombination struct {
	ID    int
	Name  string
	Terms []ComboTerm
}

// Kind identifies the analysis type requested.
type Kind string

const (
	LinearStatic Kind = "LINEAR_STATIC"
	Modal        Kind = "MODAL"
	// PDelta is accepted at the type level (see SPEC_FULL.md §C.2) but
	// the runner rejects it with ferr.UnsupportedAnalysis: linearized
	// buckling beyond the static/modal case is out of scope.
	PDelta Kind = "P_DELTA"
)

// Options carries tunables that do not change the mathematical model but
// control how much is computed/recorded.
type Options struct {
	// Stations is the number of equally-spaced points (including the two
	// ends) at which element forces/stresses are recorded. Minimum 2.
	Stations int
}

// State is the Analysis state-machine position (spec.md §4.9).
type State string

const (
	Draft    State = "DRAFT"
	Queued   State = "QUEUED"
	Running  State = "RUNNING"
	Complete State = "COMPLETE"
	Failed   State = "FAILED"
)

// Analysis describes one requested run.
type Analysis struct {
	ID                 int
	ProjectID          int
	Kind               Kind
	LoadCaseIDs        []int
	LoadCombinationIDs []int
	NumModes           int
	Options            Options
	State              State
	RunDate            *time.Time
	ErrorKind          string
}
