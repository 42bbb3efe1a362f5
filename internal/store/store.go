// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package store declares the model-store interface the core consumes.
// Persistence itself is an external collaborator (spec.md §1); this
// package only fixes the contract and its error semantics so that the
// core's snapshot/runner code never depends on a concrete backend.
package store

import (
	"context"
	"time"

	"github.com/elephantride/strumind/internal/ferr"
	"github.com/elephantride/strumind/internal/model"
)

// ModelData is the raw, denormalized read of everything a run needs
// from a project: nodes, elements, sections, materials and the load
// cases/combinations referenced by the analysis.
type ModelData struct {
	Nodes        []model.Node
	Elements     []model.Element
	Sections     []model.Section
	Materials    []model.Material
	LoadCases    []model.LoadCase
	Loads        []model.Load
	Combinations []model.LoadCombination
}

// Store is the persistence interface consumed by the core (spec.md §6).
// Implementations live outside this module; the core only calls these
// methods from the snapshot-read and result-write suspension points
// (spec.md §5) and never between them.
type Store interface {
	LoadModel(ctx context.Context, projectID int) (*ModelData, error)
	LoadAnalysis(ctx context.Context, analysisID int) (*model.Analysis, error)
	ClearResults(ctx context.Context, analysisID int) error
	WriteNodeResults(ctx context.Context, batch []model.NodeResult) error
	WriteElementResults(ctx context.Context, batch []model.ElementResult) error
	WriteModalResults(ctx context.Context, batch []model.ModalResult) error
	UpdateAnalysisStatus(ctx context.Context, analysisID int, state model.State, runDate *time.Time, errKind ferr.Kind) error
}
