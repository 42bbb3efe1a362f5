// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import (
	"context"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/elephantride/strumind/internal/assemble"
	"github.com/elephantride/strumind/internal/bc"
	"github.com/elephantride/strumind/internal/dofmap"
	"github.com/elephantride/strumind/internal/model"
	"github.com/elephantride/strumind/internal/snapshot"
	"github.com/elephantride/strumind/internal/store"
	"github.com/elephantride/strumind/internal/store/memstore"
)

func cantilever(tst *testing.T) *snapshot.Snapshot {
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
		LoadCases: []model.LoadCase{{ID: 1}},
		Loads:     []model.Load{{LoadCase: 1, Nodal: &model.NodalLoad{Node: 2, Fy: -1000}}},
	}

	st := memstore.New(md)
	st.AddAnalysis(&model.Analysis{ID: 1, ProjectID: 1, Kind: model.LinearStatic, LoadCaseIDs: []int{1}, Options: model.Options{Stations: 2}})

	snap, err := snapshot.Load(context.Background(), st, 1)
	if err != nil {
		tst.Fatalf("snapshot load failed: %v", err)
	}
	return snap
}

func Test_static01(tst *testing.T) {

	chk.PrintTitle("static01. cantilever tip deflection matches PL^3/(3EI)")

	snap := cantilever(tst)
	dm := dofmap.Build(snap.Nodes)
	g := assemble.Build(snap, dm, false)
	F := assemble.LoadVector(snap, dm, 1)
	red := bc.Reduce(g, dm, F, false)

	ur, err := Static(red)
	if err != nil {
		tst.Fatalf("static solve failed: %v", err)
	}
	u := bc.Inflate(dm, ur)

	sec := snap.Sections[1]
	mat := snap.Materials[1]
	L := snap.ElementLength[0]
	P := 1000.0
	expected := -P * L * L * L / (3 * mat.E * sec.Iz)

	tipV := u[dofmap.DOF(1, 1)] // node index 1 (node ID 2), dof uy
	chk.Scalar(tst, "tip deflection", 1e-6, tipV, expected)
}
