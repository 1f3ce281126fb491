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
	"math"
	"math/rand"
	"os"

	"github.com/geoscale/gotdem/InputParameters"
	"github.com/geoscale/gotdem/forward"
	"github.com/geoscale/gotdem/misfit"
	"github.com/geoscale/gotdem/utils"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// gradCheckCmd verifies the misfit oracle on a dense linear reference
// simulation: objective value, finite difference agreement of the gradient,
// and positive semi-definiteness of the Gauss-Newton curvature.
var gradCheckCmd = &cobra.Command{
	Use:   "gradcheck",
	Short: "Check misfit value, gradient and curvature on a linear simulation",
	Long: `
Builds a seeded random linear forward operator sized from the input
parameters, synthesizes observed data from a known model, and reports the
data misfit value, the finite-difference convergence of its gradient, and
sampled Gauss-Newton curvature quadratic forms.

gotdem gradcheck -f params.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		fileName, _ := cmd.Flags().GetString("inputFile")
		profileRun, _ := cmd.Flags().GetBool("profile")
		if profileRun {
			defer profile.Start().Stop()
		}
		ip := &InputParameters.InversionParameters{}
		if len(fileName) != 0 {
			data, err := ioutil.ReadFile(fileName)
			if err != nil {
				fmt.Printf("unable to read input file [%s]: %v\n", fileName, err)
				os.Exit(1)
			}
			if err = ip.Parse(data); err != nil {
				fmt.Printf("unable to parse input file [%s]: %v\n", fileName, err)
				os.Exit(1)
			}
			ip.Print()
		}
		if ip.NData == 0 {
			ip.NData = 40
		}
		if ip.NParam == 0 {
			ip.NParam = 25
		}
		RunGradCheck(ip)
	},
}

func init() {
	rootCmd.AddCommand(gradCheckCmd)
	gradCheckCmd.Flags().StringP("inputFile", "f", "", "YAML input parameters file")
	gradCheckCmd.Flags().Bool("profile", false, "write a CPU profile of the run")
}

func RunGradCheck(ip *InputParameters.InversionParameters) {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	var (
		rng   = rand.New(rand.NewSource(ip.NoiseSeed + 1))
		nD    = ip.NData
		nP    = ip.NParam
		gData = make([]float64, nD*nP)
		mTrue = make([]float64, nP)
		m0    = make([]float64, nP)
	)
	for i := range gData {
		gData[i] = rng.NormFloat64()
	}
	for i := range mTrue {
		mTrue[i] = rng.NormFloat64()
		m0[i] = rng.NormFloat64()
	}

	sim := forward.NewLinearSimulation(mat.NewDense(nD, nP, gData))
	dobs := sim.Dpred(mTrue)
	for i := range dobs {
		dobs[i] += 0.01 * rng.NormFloat64() * math.Abs(dobs[i])
	}
	survey := forward.NewLinearSurvey(dobs)
	if err := survey.Pair(sim); err != nil {
		logger.Fatal("pairing failed", zap.Error(err))
	}

	opts := []misfit.Option{misfit.WithLogger(logger)}
	if ip.Std != 0 {
		opts = append(opts, misfit.WithStd(ip.Std))
	}
	if ip.Eps != 0 {
		opts = append(opts, misfit.WithEps(ip.Eps))
	}
	if ip.Scale != 0 {
		opts = append(opts, misfit.WithScale(ip.Scale))
	}
	phi, err := misfit.NewL2DataMisfit(survey, opts...)
	if err != nil {
		logger.Fatal("misfit construction failed", zap.Error(err))
	}

	val := phi.Value(m0, nil)
	grad := utils.NewVector(nP, phi.Deriv(m0, nil))
	fmt.Printf("phi_d(m0) = %12.6e, ||grad|| = %12.6e, nP = %d\n", val, grad.Norm2(), phi.NP())

	// finite difference check: phi(m0+h*dm) - phi(m0) - h*grad.dm = O(h^2)
	dmData := make([]float64, nP)
	for i := range dmData {
		dmData[i] = rng.NormFloat64()
	}
	dm := utils.NewVector(nP, dmData)
	gdotdm := grad.Dot(dm)
	fmt.Printf("%10s %14s %14s\n", "h", "|first order|", "|second order|")
	for _, h := range []float64{1e-1, 1e-2, 1e-3, 1e-4} {
		mh := dm.Copy().Scale(h).Add(utils.NewVector(nP, m0))
		diff := phi.Value(mh.DataP(), nil) - val
		fmt.Printf("%10.1e %14.6e %14.6e\n", h, math.Abs(diff), math.Abs(diff-h*gdotdm))
	}

	// Gauss-Newton curvature samples must be non-negative
	for n := 0; n < 3; n++ {
		vData := make([]float64, nP)
		for i := range vData {
			vData[i] = rng.NormFloat64()
		}
		v := utils.NewVector(nP, vData)
		hv := utils.NewVector(nP, phi.Deriv2(m0, vData, nil))
		fmt.Printf("curvature sample %d: v.Hv = %12.6e\n", n, v.Dot(hv))
	}
}
