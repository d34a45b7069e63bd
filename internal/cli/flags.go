package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/opdot/opdot/pkg/dot"
)

// exportFlags holds the exporter flags shared by export, render, and view.
type exportFlags struct {
	dataFlow          bool
	controlFlow       bool
	regionControlFlow bool
	resultTypes       bool
	attrs             bool
	condense          bool
	maxLabelLen       int
	elideElementsOver int
}

// register adds the exporter flags to cmd, with defaults from the config.
func (f *exportFlags) register(cmd *cobra.Command, defaults ExportConfig) {
	flags := cmd.Flags()
	flags.BoolVar(&f.dataFlow, "data-flow", defaults.DataFlow,
		"draw solid edges from value producers to consumers (auto-disabled by --condense unless set explicitly)")
	flags.BoolVar(&f.controlFlow, "control-flow", defaults.ControlFlow,
		"draw dashed edges between consecutive instructions")
	flags.BoolVar(&f.regionControlFlow, "region-control-flow", defaults.RegionControlFlow,
		"draw bold edges from blocks to their successors")
	flags.BoolVar(&f.resultTypes, "result-types", defaults.ResultTypes,
		"include result types in instruction labels")
	flags.BoolVar(&f.attrs, "attrs", defaults.Attrs,
		"include instruction attributes in labels")
	flags.BoolVar(&f.condense, "condense", defaults.Condense,
		"emit only the first and last instruction of non-top-level blocks")
	flags.IntVar(&f.maxLabelLen, "max-label-len", defaults.MaxLabelLen,
		"truncate rendered labels to this many characters")
	flags.IntVar(&f.elideElementsOver, "elide-elements-over", defaults.ElideElementsOver,
		"elide non-splat container attributes with more elements than this")
}

// options converts the flags to exporter options.
//
// Condensed blocks do not bind elided results, so condensation combined
// with data-flow edges fails on any use of an elided value. When --condense
// is set and --data-flow was left at its default, data-flow edges are
// switched off with a warning; an explicit --data-flow wins and may fail
// the export.
func (f *exportFlags) options(cmd *cobra.Command, logger *log.Logger) dot.Options {
	dataFlow := f.dataFlow
	if f.condense && dataFlow && !cmd.Flags().Changed("data-flow") {
		logger.Warn("disabling data-flow edges: condensed blocks elide value producers (pass --data-flow to force)")
		dataFlow = false
	}
	return dot.Options{
		DataFlowEdges:          dataFlow,
		ControlFlowEdges:       f.controlFlow,
		RegionControlFlowEdges: f.regionControlFlow,
		ResultTypes:            f.resultTypes,
		Attributes:             f.attrs,
		CondenseBlocks:         f.condense,
		MaxLabelLen:            f.maxLabelLen,
		LargeElementLimit:      f.elideElementsOver,
	}
}
