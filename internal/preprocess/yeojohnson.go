package preprocess

import "math"

const lambdaEps = 2.220446049250313e-16

// yeoJohnson applies the Yeo-Johnson power transform with parameter lambda.
func yeoJohnson(x, lambda float64) float64 {
	if x >= 0 {
		if math.Abs(lambda) < lambdaEps {
			return math.Log1p(x)
		}
		return (math.Pow(x+1, lambda) - 1) / lambda
	}
	if math.Abs(lambda-2) < lambdaEps {
		return -math.Log1p(-x)
	}
	return -(math.Pow(1-x, 2-lambda) - 1) / (2 - lambda)
}

// yeoJohnsonLogLikelihood is the profile log-likelihood of lambda under a
// normal model of the transformed data.
func yeoJohnsonLogLikelihood(xs []float64, lambda float64) float64 {
	n := float64(len(xs))
	var sum, jacobian float64
	trans := make([]float64, len(xs))
	for i, x := range xs {
		trans[i] = yeoJohnson(x, lambda)
		sum += trans[i]
		jacobian += math.Copysign(1, x) * math.Log1p(math.Abs(x))
	}
	mean := sum / n
	var ss float64
	for _, v := range trans {
		d := v - mean
		ss += d * d
	}
	variance := ss / n
	if variance <= 0 || math.IsInf(variance, 0) || math.IsNaN(variance) {
		return math.Inf(-1)
	}
	return -n/2*math.Log(variance) + (lambda-1)*jacobian
}

const (
	lambdaLo      = -5.0
	lambdaHi      = 5.0
	lambdaTol     = 1e-8
	lambdaMaxIter = 200
)

var invPhi = (math.Sqrt(5) - 1) / 2

// fitLambda maximizes the log-likelihood over [lambdaLo, lambdaHi] by
// golden-section search. The likelihood is concave in lambda.
func fitLambda(xs []float64) float64 {
	a, b := lambdaLo, lambdaHi
	c := b - invPhi*(b-a)
	d := a + invPhi*(b-a)
	fc := yeoJohnsonLogLikelihood(xs, c)
	fd := yeoJohnsonLogLikelihood(xs, d)

	for i := 0; i < lambdaMaxIter && b-a > lambdaTol; i++ {
		if fc > fd {
			b, d, fd = d, c, fc
			c = b - invPhi*(b-a)
			fc = yeoJohnsonLogLikelihood(xs, c)
		} else {
			a, c, fc = c, d, fd
			d = a + invPhi*(b-a)
			fd = yeoJohnsonLogLikelihood(xs, d)
		}
	}
	return (a + b) / 2
}
