/*
DESCRIPTION
  lambda.go implements the adaptive lambda-from-bits model and its
  QP-from-lambda mapping (spec §4.11): lambda = alpha * bpp^beta, with
  alpha/beta updated each frame from the observed-vs-predicted lambda
  error.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ratecontrol

import "math"

// Model holds one GOP-layer's alpha/beta lambda-prediction state.
type Model struct {
	Alpha, Beta float64
}

// NewModel returns a Model with the standard initial alpha/beta used
// before any frame at this layer has been coded.
func NewModel() *Model {
	return &Model{Alpha: 3.2003, Beta: -1.367}
}

// PredictLambda returns lambda = alpha * bpp^beta, clamped to
// [0.1, 10000] (spec §4.11).
func (m *Model) PredictLambda(bpp float64) float64 {
	if bpp <= 0 {
		bpp = 1e-6
	}
	lambda := m.Alpha * math.Pow(bpp, m.Beta)
	return clampFloat(lambda, 0.1, 10000)
}

// Update adjusts alpha/beta from the ratio between the lambda that
// actually achieved the target bit count (lambdaReal) and the one this
// model predicted (lambdaPred) for the same bpp (spec §4.11):
//
//	alpha += 0.1*alpha*(log(lambdaReal) - log(lambdaPred))
//	beta  += 0.05*(log(lambdaReal) - log(lambdaPred))*clamp(log(bpp), -5, 1)
func (m *Model) Update(lambdaReal, lambdaPred, bpp float64) {
	logErr := math.Log(lambdaReal) - math.Log(lambdaPred)
	m.Alpha += 0.1 * m.Alpha * logErr
	logBPP := clampFloat(math.Log(bpp), -5, 1)
	m.Beta += 0.05 * logErr * logBPP
}

// QPFromLambda maps a lambda value to an integer QP in [0,51] (spec
// §4.11): QP = clamp(0, 51, round(4.2005*ln(lambda) + 13.7223)).
func QPFromLambda(lambda float64) int {
	qp := 4.2005*math.Log(lambda) + 13.7223
	rounded := int(math.Round(qp))
	if rounded < 0 {
		return 0
	}
	if rounded > 51 {
		return 51
	}
	return rounded
}

// LambdaFromQP is the inverse of QPFromLambda's mapping. The pipeline
// does not call it; its models start from NewModel's defaults.
func LambdaFromQP(qp int) float64 {
	return 0.85 * math.Pow(2, (float64(qp)-12)/3)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
