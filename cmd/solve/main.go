// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command solve runs one analysis against an in-memory demonstration
// model and reports its outcome, following spec.md §6's exit-code
// contract: 0 ok, 2 missing model, 3 singular system, 4 timeout, 5
// internal. The cobra command-tree idiom follows alexiusacademia-gorcb's
// cmd/root.go; wiring a real store is left to the job host (spec.md §1).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cpmech/gosl/io"
	"github.com/spf13/cobra"

	"github.com/elephantride/strumind/internal/ferr"
	"github.com/elephantride/strumind/internal/model"
	"github.com/elephantride/strumind/internal/runner"
	"github.com/elephantride/strumind/internal/store"
	"github.com/elephantride/strumind/internal/store/memstore"
)

var (
	analysisID int
	deadlineS  int
)

var rootCmd = &cobra.Command{
	Use:   "solve",
	Short: "Run a structural analysis and report its outcome",
	Long: `solve runs one structural analysis (linear static or modal) and
reports its outcome with the exit code the job host polls for:

  0  analysis completed
  2  model missing or inconsistent
  3  singular system or non-converging eigensolve
  4  deadline exceeded
  5  any other internal failure`,
	RunE: runSolve,
}

func init() {
	rootCmd.Flags().IntVar(&analysisID, "analysis", 0, "analysis id to run [required]")
	rootCmd.Flags().IntVar(&deadlineS, "deadline", 0, "deadline in seconds, 0 = no deadline")
	rootCmd.MarkFlagRequired("analysis")
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			io.PfRed("> panic: %v\n", r)
			os.Exit(5)
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(5)
	}
}

func runSolve(cmd *cobra.Command, args []string) error {
	st := demoStore()

	ctx := context.Background()
	if deadlineS > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(deadlineS)*time.Second)
		defer cancel()
	}

	err := runner.Run(ctx, st, analysisID)
	os.Exit(exitCode(err))
	return nil
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	switch ferr.KindOf(err) {
	case ferr.ModelMissing, ferr.ModelInconsistent:
		return 2
	case ferr.Singular, ferr.EigenNoConverge:
		return 3
	case ferr.Timeout:
		return 4
	default:
		return 5
	}
}

// demoStore builds a minimal in-memory store holding a single cantilever
// column fixed at the base, for exercising the CLI without a real
// project database wired in.
func demoStore() *memstore.Store {
	md := store.ModelData{
		Nodes: []model.Node{
			{ID: 1, X: 0, Y: 0, Z: 0, Restraint: [6]bool{true, true, true, true, true, true}},
			{ID: 2, X: 0, Y: 0, Z: 3},
		},
		Elements: []model.Element{
			{ID: 1, StartNode: 1, EndNode: 2, Section: 1, Material: 1},
		},
		Sections: []model.Section{
			{ID: 1, A: 0.01, Iy: 8e-5, Iz: 8e-5, J: 1.6e-4, Sy: 8e-4, Sz: 8e-4},
		},
		Materials: []model.Material{
			{ID: 1, E: 2e11, Nu: 0.3, Rho: 7850},
		},
		LoadCases: []model.LoadCase{{ID: 1, Name: "DL"}},
		Loads: []model.Load{
			{LoadCase: 1, Nodal: &model.NodalLoad{Node: 2, Fx: 1000}},
		},
	}

	st := memstore.New(md)
	st.AddAnalysis(&model.Analysis{
		ID:          analysisID,
		ProjectID:   1,
		Kind:        model.LinearStatic,
		LoadCaseIDs: []int{1},
		Options:     model.Options{Stations: 2},
		State:       model.Queued,
	})
	return st
}
