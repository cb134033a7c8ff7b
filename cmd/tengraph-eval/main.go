// Command tengraph-eval builds a small fixed model (two constants and a
// MatMul node) and evaluates it, printing the result. It exists to exercise
// the graph/matmul/optimize packages end to end, not as a general-purpose
// model-loading CLI (spec.md's external interfaces are library APIs, not a
// CLI surface).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/katalvlaran/tengraph/dim"
	"github.com/katalvlaran/tengraph/graph"
	"github.com/katalvlaran/tengraph/graph/ops"
	"github.com/katalvlaran/tengraph/internal/config"
	"github.com/katalvlaran/tengraph/internal/xlog"
	"github.com/katalvlaran/tengraph/matmul"
	"github.com/katalvlaran/tengraph/optimize"
	"github.com/katalvlaran/tengraph/tensor"
)

func main() {
	log := xlog.New(xlog.F("cmd", "tengraph-eval"))

	configPath := flag.String("config", "", "path to a YAML tuning file (optional)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Error("load config", xlog.F("err", err))
			os.Exit(1)
		}
		cfg = loaded
	}
	flags := matmul.Flags{ATranspose: cfg.MatMul.ATranspose, BTranspose: cfg.MatMul.BTranspose, CTranspose: cfg.MatMul.CTranspose}

	m := graph.NewModel()
	a, err := tensor.New(tensor.F64, dim.NewShape(dim.Const(2), dim.Const(3)), []float64{0, 1, 2, 3, 4, 5})
	if err != nil {
		log.Error("build A", xlog.F("err", err))
		os.Exit(1)
	}
	b, err := tensor.New(tensor.F64, dim.NewShape(dim.Const(3), dim.Const(1)), []float64{0, 1, 2})
	if err != nil {
		log.Error("build B", xlog.F("err", err))
		os.Exit(1)
	}

	aNode, err := m.AddNode("A", ops.Const{Value: a}, nil, 1)
	if err != nil {
		log.Error("add A", xlog.F("err", err))
		os.Exit(1)
	}
	bNode, err := m.AddNode("B", ops.Const{Value: b}, nil, 1)
	if err != nil {
		log.Error("add B", xlog.F("err", err))
		os.Exit(1)
	}
	mm, err := m.AddNode("C", ops.MatMul{Flags: flags}, []graph.Outlet{{Node: aNode, Slot: 0}, {Node: bNode, Slot: 0}}, 1)
	if err != nil {
		log.Error("add MatMul", xlog.F("err", err))
		os.Exit(1)
	}
	m.SetOutputs(graph.Outlet{Node: mm, Slot: 0})

	if err := optimize.InferTypes(m); err != nil {
		log.Error("infer types", xlog.F("err", err))
		os.Exit(1)
	}

	applied, err := optimize.Codegen(m)
	if err != nil {
		log.Error("codegen", xlog.F("err", err))
		os.Exit(1)
	}
	log.Info("codegen complete", xlog.F("patches", applied))

	out, err := graph.Evaluate(m, nil)
	if err != nil {
		log.Error("evaluate", xlog.F("err", err))
		os.Exit(1)
	}
	fmt.Println(out[m.Outputs()[0]].Data())
}
