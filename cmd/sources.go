/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/geoscale/gotdem/InputParameters"
	"github.com/geoscale/gotdem/forward"
	"github.com/geoscale/gotdem/mesh"
	"github.com/geoscale/gotdem/tdem"
	"github.com/geoscale/gotdem/utils"
	"github.com/spf13/cobra"
)

// sourcesCmd builds every transmitter declared in the input file and reports
// its initial field and forcing term magnitudes on a small reference mesh.
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Build the configured transmitters and report their forcing terms",
	Long: `
Reads the source definitions from the input parameters, constructs each
transmitter with its waveform, and evaluates the initial magnetic field and
the s_m/s_e forcing terms on an 8x8x8 unit-cell mesh centered on the origin.
Line current paths must lie inside that mesh.

gotdem sources -f params.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		fileName, _ := cmd.Flags().GetString("inputFile")
		if len(fileName) == 0 {
			fmt.Printf("an input parameters file is required\n")
			os.Exit(1)
		}
		data, err := ioutil.ReadFile(fileName)
		if err != nil {
			fmt.Printf("unable to read input file [%s]: %v\n", fileName, err)
			os.Exit(1)
		}
		ip := &InputParameters.InversionParameters{}
		if err = ip.Parse(data); err != nil {
			fmt.Printf("unable to parse input file [%s]: %v\n", fileName, err)
			os.Exit(1)
		}
		ip.Print()
		if err = RunSources(ip); err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
	sourcesCmd.Flags().StringP("inputFile", "f", "", "YAML input parameters file")
}

// sourceProblem carries just enough discretization context to evaluate the
// configured transmitters.
type sourceProblem struct {
	msh         *mesh.TensorMesh
	formulation forward.Formulation
	fieldType   forward.FieldType
	timeSteps   []float64
}

func (p *sourceProblem) Mesh() mesh.Mesh                  { return p.msh }
func (p *sourceProblem) Formulation() forward.Formulation { return p.formulation }
func (p *sourceProblem) FieldType() forward.FieldType     { return p.fieldType }
func (p *sourceProblem) TimeSteps() []float64             { return p.timeSteps }

func (p *sourceProblem) MfMui() utils.CSR {
	ones := make([]float64, p.msh.NumFaces())
	for i := range ones {
		ones[i] = 1
	}
	return utils.Sdiag(ones)
}

func newSourceProblem(ip *InputParameters.InversionParameters) (p *sourceProblem, err error) {
	formulation, err := forward.ParseFormulation(ip.Formulation)
	if err != nil {
		return
	}
	fieldType, err := forward.ParseFieldType(ip.FieldType, formulation)
	if err != nil {
		return
	}
	ts := ip.TimeSteps
	if len(ts) == 0 {
		ts = []float64{0, 1e-5, 1e-4}
	}
	h := make([]float64, 8)
	for i := range h {
		h[i] = 1
	}
	msh, err := mesh.NewTensorMesh(h, h, h, mesh.Point{-4, -4, -4})
	if err != nil {
		return
	}
	p = &sourceProblem{
		msh:         msh,
		formulation: formulation,
		fieldType:   fieldType,
		timeSteps:   ts,
	}
	return
}

func buildWaveform(def InputParameters.SourceDef) (w tdem.Waveform, err error) {
	switch def.Waveform {
	case "", "StepOff":
		w = tdem.NewStepOffWaveform(def.OffTime)
	case "Triangular":
		w = tdem.NewTriangularWaveform(def.OffTime)
	case "Raw":
		err = fmt.Errorf("a Raw waveform needs a programmatic amplitude function and cannot come from an input file")
	default:
		err = fmt.Errorf("unknown waveform %q", def.Waveform)
	}
	return
}

func buildSource(def InputParameters.SourceDef) (s tdem.Source, err error) {
	w, err := buildWaveform(def)
	if err != nil {
		return
	}
	switch def.Kind {
	case "MagDipole", "CircularLoop":
		cfg := tdem.MagDipoleConfig{
			Location:    mesh.Point(def.Location),
			Orientation: def.Orientation,
		}
		if def.Moment != 0 {
			moment := def.Moment
			cfg.Moment = &moment
		}
		if def.Kind == "CircularLoop" {
			s, err = tdem.NewCircularLoop(nil, w, cfg, def.Radius)
			return
		}
		s, err = tdem.NewMagDipole(nil, w, cfg)
	case "LineCurrent":
		pts := make([]mesh.Point, len(def.Path))
		for i, p := range def.Path {
			pts[i] = mesh.Point(p)
		}
		s, err = tdem.NewLineCurrent(nil, w, pts)
	default:
		err = fmt.Errorf("unknown source kind %q", def.Kind)
	}
	return
}

func RunSources(ip *InputParameters.InversionParameters) (err error) {
	prob, err := newSourceProblem(ip)
	if err != nil {
		return
	}
	if len(ip.Sources) == 0 {
		err = fmt.Errorf("the input file declares no sources")
		return
	}
	// evaluate inside the first step so sources with initial fields show
	// their seeded forcing term
	ts := prob.TimeSteps()
	tEval := ts[0]
	fmt.Printf("formulation %v, field type %v, %d time steps\n",
		prob.Formulation(), prob.FieldType(), len(ts))
	for i, def := range ip.Sources {
		var src tdem.Source
		if src, err = buildSource(def); err != nil {
			err = fmt.Errorf("source %d: %w", i, err)
			return
		}
		b := src.BInitial(prob)
		sm, se := tdem.Eval(src, prob, tEval)
		fmt.Printf("source %d [%s]: ||bInitial|| = %12.6e, ||s_m(%g)|| = %12.6e, ||s_e(%g)|| = %12.6e\n",
			i, def.Kind, utils.VecNorm2(b.Data()), tEval, utils.VecNorm2(sm.Data()), tEval, utils.VecNorm2(se.Data()))
	}
	return
}
