// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package combine implements C9: linear superposition of per-load-case
// results into load-combination results. Forces and displacements
// superpose component-wise; stresses derived from them are recomputed
// from the superposed force components rather than superposed
// themselves, so von Mises stays a true (non-linear) function of the
// combined state (spec.md §4.8).
package combine

import (
	"math"

	"github.com/elephantride/strumind/internal/model"
)

// Nodes superposes per-case node results into one combination result,
// scaling each case's contribution by its combination factor.
func Nodes(analysisID, comboID int, byCase map[int][]model.NodeResult, terms []model.ComboTerm) []model.NodeResult {
	if len(terms) == 0 {
		return nil
	}
	base := byCase[terms[0].LoadCaseID]
	out := make([]model.NodeResult, len(base))
	for i, nr := range base {
		out[i] = model.NodeResult{
			AnalysisID:        analysisID,
			NodeID:            nr.NodeID,
			LoadCombinationID: comboID,
		}
	}
	for _, t := range terms {
		cases := byCase[t.LoadCaseID]
		for i, nr := range cases {
			for d := 0; d < 6; d++ {
				out[i].Disp[d] += t.Factor * nr.Disp[d]
				out[i].Reaction[d] += t.Factor * nr.Reaction[d]
			}
		}
	}
	return out
}

// Elements superposes per-case element results into one combination
// result. Forces are linear in the load factors; stresses are
// recomputed from the superposed forces afterward.
func Elements(analysisID, comboID int, byCase map[int][]model.ElementResult, terms []model.ComboTerm, sectionOf func(elementID int) model.Section) []model.ElementResult {
	if len(terms) == 0 {
		return nil
	}
	base := byCase[terms[0].LoadCaseID]
	out := make([]model.ElementResult, len(base))
	for i, er := range base {
		out[i] = model.ElementResult{
			AnalysisID:        analysisID,
			ElementID:         er.ElementID,
			LoadCombinationID: comboID,
			Position:          er.Position,
		}
	}
	for _, t := range terms {
		cases := byCase[t.LoadCaseID]
		for i, er := range cases {
			for k := 0; k < 6; k++ {
				out[i].Forces[k] += t.Factor * er.Forces[k]
			}
		}
	}
	for i := range out {
		sec := sectionOf(out[i].ElementID)
		N, _, _, _, My, Mz := out[i].Forces[0], out[i].Forces[1], out[i].Forces[2], out[i].Forces[3], out[i].Forces[4], out[i].Forces[5]
		out[i].AxialStress = N / sec.A
		out[i].BendStressY = My / sec.Sy
		out[i].BendStressZ = Mz / sec.Sz
		out[i].VonMises = math.Sqrt(out[i].AxialStress*out[i].AxialStress + 3*(out[i].BendStressY*out[i].BendStressY+out[i].BendStressZ*out[i].BendStressZ))
	}
	return out
}
