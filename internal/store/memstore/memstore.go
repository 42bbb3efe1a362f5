// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package memstore is a minimal in-memory store.Store used by the
// runner's tests and by cmd/solve when no external store is wired up.
// Real persistence is an out-of-scope collaborator (spec.md §1); this
// implementation exists purely so the core can be exercised end-to-end
// without a database.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/elephantride/strumind/internal/ferr"
	"github.com/elephantride/strumind/internal/model"
	"github.com/elephantride/strumind/internal/store"
)

// Store is an in-memory, single-project store.Store implementation.
type Store struct {
	mu sync.Mutex

	Model     store.ModelData
	Analyses  map[int]*model.Analysis
	NodeRes   []model.NodeResult
	ElemRes   []model.ElementResult
	ModalRes  []model.ModalResult
	running   map[int]bool // analyses currently RUNNING; deletes are rejected for these
}

// New returns an empty Store seeded with the given model data.
func New(m store.ModelData) *Store {
	return &Store{
		Model:    m,
		Analyses: make(map[int]*model.Analysis),
		running:  make(map[int]bool),
	}
}

// AddAnalysis registers an analysis definition for later LoadAnalysis calls.
func (s *Store) AddAnalysis(a *model.Analysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.Analyses[a.ID] = &cp
}

func (s *Store) LoadModel(ctx context.Context, projectID int) (*store.ModelData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.Model
	return &m, nil
}

func (s *Store) LoadAnalysis(ctx context.Context, analysisID int) (*model.Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.Analyses[analysisID]
	if !ok {
		return nil, ferr.New(ferr.ModelMissing, "analysis %d not found", analysisID)
	}
	cp := *a
	return &cp, nil
}

func (s *Store) ClearResults(ctx context.Context, analysisID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running[analysisID] {
		return ferr.New(ferr.StoreFailure, "cannot clear results of a RUNNING analysis %d", analysisID)
	}
	filterNode := s.NodeRes[:0]
	for _, r := range s.NodeRes {
		if r.AnalysisID != analysisID {
			filterNode = append(filterNode, r)
		}
	}
	s.NodeRes = filterNode

	filterElem := s.ElemRes[:0]
	for _, r := range s.ElemRes {
		if r.AnalysisID != analysisID {
			filterElem = append(filterElem, r)
		}
	}
	s.ElemRes = filterElem

	filterModal := s.ModalRes[:0]
	for _, r := range s.ModalRes {
		if r.AnalysisID != analysisID {
			filterModal = append(filterModal, r)
		}
	}
	s.ModalRes = filterModal
	return nil
}

func (s *Store) WriteNodeResults(ctx context.Context, batch []model.NodeResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.NodeRes = append(s.NodeRes, batch...)
	return nil
}

func (s *Store) WriteElementResults(ctx context.Context, batch []model.ElementResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ElemRes = append(s.ElemRes, batch...)
	return nil
}

func (s *Store) WriteModalResults(ctx context.Context, batch []model.ModalResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ModalRes = append(s.ModalRes, batch...)
	return nil
}

func (s *Store) UpdateAnalysisStatus(ctx context.Context, analysisID int, state model.State, runDate *time.Time, errKind ferr.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.Analyses[analysisID]
	if !ok {
		return ferr.New(ferr.ModelMissing, "analysis %d not found", analysisID)
	}
	a.State = state
	a.RunDate = runDate
	a.ErrorKind = string(errKind)
	if state == model.Running {
		s.running[analysisID] = true
	} else {
		delete(s.running, analysisID)
	}
	return nil
}
