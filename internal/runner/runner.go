// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runner orchestrates one analysis run end to end: C1 (read)
// through C9 (combine) and the result commit, driving the Analysis
// state machine DRAFT -> QUEUED -> RUNNING -> COMPLETE|FAILED
// (spec.md §4.9). Progress/failure messages follow the colored-output
// idiom of fem/main.go (io.Pf/io.PfGreen/io.PfRed) rather than a
// structured logger, matching the teacher.
package runner

import (
	"context"
	"time"

	"github.com/cpmech/gosl/io"

	"github.com/elephantride/strumind/internal/assemble"
	"github.com/elephantride/strumind/internal/bc"
	"github.com/elephantride/strumind/internal/combine"
	"github.com/elephantride/strumind/internal/dofmap"
	"github.com/elephantride/strumind/internal/ferr"
	"github.com/elephantride/strumind/internal/model"
	"github.com/elephantride/strumind/internal/recover"
	"github.com/elephantride/strumind/internal/snapshot"
	"github.com/elephantride/strumind/internal/solve"
	"github.com/elephantride/strumind/internal/store"
)

// Run executes analysisID against st, writing results and the final
// state transition atomically: either every result batch and the
// COMPLETE transition land, or nothing does and the analysis is left
// FAILED with the error's Kind recorded.
func Run(ctx context.Context, st store.Store, analysisID int) error {
	if err := st.UpdateAnalysisStatus(ctx, analysisID, model.Running, nil, ""); err != nil {
		if ferr.Is(err, ferr.ModelMissing) {
			return ferr.Wrap(ferr.ModelMissing, err, "mark analysis %d running", analysisID)
		}
		return ferr.Wrap(ferr.StoreFailure, err, "mark analysis %d running", analysisID)
	}

	result, err := execute(ctx, st, analysisID)
	if err == nil {
		// spec.md §5: cancellation is checked "before result write"; a
		// cancellation landing here (after solve, before commit) must
		// still discard results rather than commit them.
		err = checkCtx(ctx)
	}
	now := time.Now()
	if err != nil {
		kind := ferr.KindOf(err)
		io.PfRed("> analysis %d failed: %v\n", analysisID, err)
		if serr := st.UpdateAnalysisStatus(ctx, analysisID, model.Failed, &now, kind); serr != nil {
			return ferr.Wrap(ferr.StoreFailure, serr, "record failure for analysis %d", analysisID)
		}
		return err
	}

	if err := commit(ctx, st, analysisID, result); err != nil {
		// discard whatever batches did land before the failing write
		st.ClearResults(ctx, analysisID)
		now = time.Now()
		st.UpdateAnalysisStatus(ctx, analysisID, model.Failed, &now, ferr.StoreFailure)
		return err
	}
	if err := st.UpdateAnalysisStatus(ctx, analysisID, model.Complete, &now, ""); err != nil {
		return ferr.Wrap(ferr.StoreFailure, err, "mark analysis %d complete", analysisID)
	}
	io.PfGreen("> analysis %d complete\n", analysisID)
	return nil
}

type runResult struct {
	nodes    []model.NodeResult
	elements []model.ElementResult
	modal    []model.ModalResult
}

func commit(ctx context.Context, st store.Store, analysisID int, r *runResult) error {
	if err := st.ClearResults(ctx, analysisID); err != nil {
		return ferr.Wrap(ferr.StoreFailure, err, "clear previous results for analysis %d", analysisID)
	}
	if len(r.nodes) > 0 {
		if err := st.WriteNodeResults(ctx, r.nodes); err != nil {
			return ferr.Wrap(ferr.StoreFailure, err, "write node results")
		}
	}
	if len(r.elements) > 0 {
		if err := st.WriteElementResults(ctx, r.elements); err != nil {
			return ferr.Wrap(ferr.StoreFailure, err, "write element results")
		}
	}
	if len(r.modal) > 0 {
		if err := st.WriteModalResults(ctx, r.modal); err != nil {
			return ferr.Wrap(ferr.StoreFailure, err, "write modal results")
		}
	}
	return nil
}

func execute(ctx context.Context, st store.Store, analysisID int) (*runResult, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	snap, err := snapshot.Load(ctx, st, analysisID)
	if err != nil {
		return nil, err
	}
	an := snap.Analysis

	switch an.Kind {
	case model.LinearStatic:
		return runLinearStatic(ctx, snap)
	case model.Modal:
		return runModal(ctx, snap)
	default:
		return nil, ferr.New(ferr.UnsupportedAnalysis, "analysis kind %q is not supported", an.Kind)
	}
}

func runLinearStatic(ctx context.Context, snap *snapshot.Snapshot) (*runResult, error) {
	an := snap.Analysis
	dm := dofmap.Build(snap.Nodes)
	global := assemble.Build(snap, dm, false)

	byCaseNodes := make(map[int][]model.NodeResult)
	byCaseElems := make(map[int][]model.ElementResult)

	io.Pf("> assembling %d load case(s) for analysis %d\n", len(an.LoadCaseIDs), an.ID)
	for _, caseID := range an.LoadCaseIDs {
		if err := checkCtx(ctx); err != nil {
			return nil, err
		}
		F := assemble.LoadVector(snap, dm, caseID)
		red := bc.Reduce(global, dm, F, false)
		ur, err := solve.Static(red)
		if err != nil {
			return nil, err
		}
		u := bc.Inflate(dm, ur)

		byCaseNodes[caseID] = recover.Nodes(snap, dm, global, u, F, an.ID, caseID, 0)
		byCaseElems[caseID] = recover.Elements(snap, global, u, an.ID, caseID, 0, an.Options.Stations)
	}

	var nodes []model.NodeResult
	var elements []model.ElementResult
	for _, caseID := range an.LoadCaseIDs {
		nodes = append(nodes, byCaseNodes[caseID]...)
		elements = append(elements, byCaseElems[caseID]...)
	}

	for _, comboID := range an.LoadCombinationIDs {
		if err := checkCtx(ctx); err != nil {
			return nil, err
		}
		combo, ok := snap.Combinations[comboID]
		if !ok {
			return nil, ferr.New(ferr.ModelInconsistent, "combination %d vanished after snapshot load", comboID)
		}
		nodes = append(nodes, combine.Nodes(an.ID, comboID, byCaseNodes, combo.Terms)...)
		elements = append(elements, combine.Elements(an.ID, comboID, byCaseElems, combo.Terms, func(elementID int) model.Section {
			ei := snap.ElementIndex[elementID]
			return snap.Sections[snap.Elements[ei].Section]
		})...)
	}

	return &runResult{nodes: nodes, elements: elements}, nil
}

func runModal(ctx context.Context, snap *snapshot.Snapshot) (*runResult, error) {
	an := snap.Analysis
	if an.NumModes <= 0 {
		return nil, ferr.New(ferr.ModelInconsistent, "modal analysis requires NumModes > 0")
	}

	dm := dofmap.Build(snap.Nodes)
	global := assemble.Build(snap, dm, true)

	zeroLoad := make([]float64, dm.NDOF)
	red := bc.Reduce(global, dm, zeroLoad, true)

	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	modes, err := solve.Modal(red, dm, an.NumModes)
	if err != nil {
		return nil, err
	}

	out := make([]model.ModalResult, len(modes))
	for i, m := range modes {
		full := bc.Inflate(dm, m.ShapeFree)
		out[i] = model.ModalResult{
			AnalysisID:    an.ID,
			ModeNumber:    i + 1,
			Omega:         m.Omega,
			Frequency:     m.Frequency,
			Period:        m.Period,
			Shape:         full,
			Participation: m.Participation,
			EffectiveMass: m.EffectiveMass,
		}
	}
	return &runResult{modal: out}, nil
}

func checkCtx(ctx context.Context) error {
	select {
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return ferr.New(ferr.Timeout, "analysis deadline exceeded")
		}
		return ferr.New(ferr.Cancelled, "analysis cancelled")
	default:
		return nil
	}
}
