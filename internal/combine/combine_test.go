// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package combine

import (
	"context"
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/elephantride/strumind/internal/assemble"
	"github.com/elephantride/strumind/internal/bc"
	"github.com/elephantride/strumind/internal/dofmap"
	"github.com/elephantride/strumind/internal/model"
	"github.com/elephantride/strumind/internal/recover"
	"github.com/elephantride/strumind/internal/snapshot"
	"github.com/elephantride/strumind/internal/solve"
	"github.com/elephantride/strumind/internal/store"
	"github.com/elephantride/strumind/internal/store/memstore"
)

func Test_combine01(tst *testing.T) {

	chk.PrintTitle("combine01. node displacement superposition matches 1.2*C1 + 1.6*C2")

	byCase := map[int][]model.NodeResult{
		1: {{AnalysisID: 1, NodeID: 2, LoadCaseID: 1, Disp: [6]float64{0.001, 0, -0.002, 0, 0, 0}, Reaction: [6]float64{10, 0, -20, 0, 0, 0}}},
		2: {{AnalysisID: 1, NodeID: 2, LoadCaseID: 2, Disp: [6]float64{0.0005, 0, 0.001, 0, 0, 0}, Reaction: [6]float64{-5, 0, 10, 0, 0, 0}}},
	}
	terms := []model.ComboTerm{{LoadCaseID: 1, Factor: 1.2}, {LoadCaseID: 2, Factor: 1.6}}

	out := Nodes(1, 10, byCase, terms)
	if len(out) != 1 {
		tst.Fatalf("expected 1 combined node result, got %d", len(out))
	}
	expectedUx := 1.2*0.001 + 1.6*0.0005
	expectedUz := 1.2*-0.002 + 1.6*0.001
	chk.Scalar(tst, "ux", 1e-12, out[0].Disp[0], expectedUx)
	chk.Scalar(tst, "uz", 1e-12, out[0].Disp[2], expectedUz)
	if out[0].LoadCombinationID != 10 || out[0].LoadCaseID != 0 {
		tst.Fatalf("combined result must carry LoadCombinationID only, got case=%d combo=%d", out[0].LoadCaseID, out[0].LoadCombinationID)
	}
}

func Test_combine02(tst *testing.T) {

	chk.PrintTitle("combine02. von Mises is recomputed from superposed components, not superposed itself")

	sec := model.Section{ID: 1, A: 0.01, Iy: 8e-5, Iz: 8e-5, J: 1.6e-4, Sy: 8e-4, Sz: 8e-4}
	byCase := map[int][]model.ElementResult{
		1: {{AnalysisID: 1, ElementID: 1, LoadCaseID: 1, Position: 0, Forces: [6]float64{1000, 0, 0, 0, 500, 200}}},
		2: {{AnalysisID: 1, ElementID: 1, LoadCaseID: 2, Position: 0, Forces: [6]float64{-200, 0, 0, 0, 100, 50}}},
	}
	terms := []model.ComboTerm{{LoadCaseID: 1, Factor: 1.0}, {LoadCaseID: 2, Factor: 1.0}}

	out := Elements(1, 10, byCase, terms, func(int) model.Section { return sec })
	if len(out) != 1 {
		tst.Fatalf("expected 1 combined element result, got %d", len(out))
	}

	N := 1000.0 + -200.0
	My := 500.0 + 100.0
	Mz := 200.0 + 50.0
	axial := N / sec.A
	bendY := My / sec.Sy
	bendZ := Mz / sec.Sz
	expectedVM := math.Sqrt(axial*axial + 3*(bendY*bendY+bendZ*bendZ))

	chk.Scalar(tst, "combined axial stress", 1e-9, out[0].AxialStress, axial)
	chk.Scalar(tst, "von Mises recomputed, not superposed", 1e-9, out[0].VonMises, expectedVM)
}

// Test_combine03 exercises spec.md §8's superposition property end to
// end: recomputing a load combination from two solved cases must equal
// solving the combined load vector directly, within 1e-10 relative.
func Test_combine03(tst *testing.T) {

	chk.PrintTitle("combine03. combining two solved cases matches solving the combined load vector directly")

	comboTerms := []model.ComboTerm{{LoadCaseID: 1, Factor: 1.2}, {LoadCaseID: 2, Factor: 1.6}}
	md := store.ModelData{
		Nodes: []model.Node{
			{ID: 1, Restraint: [6]bool{true, true, true, true, true, true}},
			{ID: 2, X: 4},
		},
		Elements: []model.Element{
			{ID: 1, StartNode: 1, EndNode: 2, Section: 1, Material: 1},
		},
		Sections:  []model.Section{{ID: 1, A: 0.01, Iy: 8e-5, Iz: 8e-5, J: 1.6e-4, Sy: 8e-4, Sz: 8e-4}},
		Materials: []model.Material{{ID: 1, E: 2e11, Nu: 0.3, Rho: 7850}},
		LoadCases: []model.LoadCase{{ID: 1}, {ID: 2}},
		Loads: []model.Load{
			{LoadCase: 1, Nodal: &model.NodalLoad{Node: 2, Fy: -1000, Mz: 300}},
			{LoadCase: 2, Nodal: &model.NodalLoad{Node: 2, Fz: 600, My: -150}},
		},
		Combinations: []model.LoadCombination{{ID: 1, Terms: comboTerms}},
	}
	st := memstore.New(md)
	st.AddAnalysis(&model.Analysis{
		ID: 1, ProjectID: 1, Kind: model.LinearStatic,
		LoadCaseIDs:        []int{1, 2},
		LoadCombinationIDs: []int{1},
		Options:            model.Options{Stations: 2},
	})

	snap, err := snapshot.Load(context.Background(), st, 1)
	if err != nil {
		tst.Fatalf("snapshot load failed: %v", err)
	}

	dm := dofmap.Build(snap.Nodes)
	g := assemble.Build(snap, dm, false)

	solveCase := func(caseID int) ([]model.NodeResult, []model.ElementResult) {
		F := assemble.LoadVector(snap, dm, caseID)
		red := bc.Reduce(g, dm, F, false)
		ur, err := solve.Static(red)
		if err != nil {
			tst.Fatalf("static solve failed for case %d: %v", caseID, err)
		}
		u := bc.Inflate(dm, ur)
		nodes := recover.Nodes(snap, dm, g, u, F, 1, caseID, 0)
		elements := recover.Elements(snap, g, u, 1, caseID, 0, 2)
		return nodes, elements
	}

	byCaseNodes := make(map[int][]model.NodeResult)
	byCaseElems := make(map[int][]model.ElementResult)
	for _, caseID := range []int{1, 2} {
		byCaseNodes[caseID], byCaseElems[caseID] = solveCase(caseID)
	}

	combinedNodes := Nodes(1, 1, byCaseNodes, comboTerms)
	combinedElems := Elements(1, 1, byCaseElems, comboTerms, func(int) model.Section { return snap.Sections[1] })

	// directly solve the combined load vector: F = 1.2*F1 + 1.6*F2
	F1 := assemble.LoadVector(snap, dm, 1)
	F2 := assemble.LoadVector(snap, dm, 2)
	Fcombo := make([]float64, dm.NDOF)
	for i := range Fcombo {
		Fcombo[i] = 1.2*F1[i] + 1.6*F2[i]
	}
	redCombo := bc.Reduce(g, dm, Fcombo, false)
	urCombo, err := solve.Static(redCombo)
	if err != nil {
		tst.Fatalf("direct combined solve failed: %v", err)
	}
	uCombo := bc.Inflate(dm, urCombo)
	directNodes := recover.Nodes(snap, dm, g, uCombo, Fcombo, 1, 0, 1)
	directElems := recover.Elements(snap, g, uCombo, 1, 0, 1, 2)

	for i := range combinedNodes {
		for d := 0; d < 6; d++ {
			relTol := 1e-10 * math.Max(1, math.Abs(directNodes[i].Disp[d]))
			if math.Abs(combinedNodes[i].Disp[d]-directNodes[i].Disp[d]) > relTol {
				tst.Fatalf("node %d disp[%d]: combined=%g direct=%g", i, d, combinedNodes[i].Disp[d], directNodes[i].Disp[d])
			}
		}
	}
	for i := range combinedElems {
		for k := 0; k < 6; k++ {
			relTol := 1e-10 * math.Max(1, math.Abs(directElems[i].Forces[k]))
			if math.Abs(combinedElems[i].Forces[k]-directElems[i].Forces[k]) > relTol {
				tst.Fatalf("element %d forces[%d]: combined=%g direct=%g", i, k, combinedElems[i].Forces[k], directElems[i].Forces[k])
			}
		}
		relTol := 1e-10 * math.Max(1, directElems[i].VonMises)
		if math.Abs(combinedElems[i].VonMises-directElems[i].VonMises) > relTol {
			tst.Fatalf("element %d von Mises: combined=%g direct=%g", i, combinedElems[i].VonMises, directElems[i].VonMises)
		}
	}
}
