package insight

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// pearsonR computes the Pearson correlation coefficient over paired values.
func pearsonR(x, y []float64) float64 {
	n := float64(len(x))
	if n < 2 {
		return 0
	}
	var sumX, sumY float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

// pearsonPValue is the two-sided significance of r over n paired samples,
// via the exact t transform t = r·sqrt((n−2)/(1−r²)).
func pearsonPValue(r float64, n int) float64 {
	if n <= 2 {
		return 1
	}
	if math.Abs(r) >= 1 {
		return 0
	}
	t := r * math.Sqrt(float64(n-2)/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	return 2 * dist.Survival(math.Abs(t))
}

// tTestPooled runs an independent two-sample t-test with pooled variance
// and returns the statistic and two-sided p-value.
func tTestPooled(a, b []float64) (tStat, pValue float64) {
	n1, n2 := float64(len(a)), float64(len(b))
	if n1 < 2 || n2 < 2 {
		return 0, 1
	}
	m1, v1 := meanVar(a)
	m2, v2 := meanVar(b)

	df := n1 + n2 - 2
	pooled := ((n1-1)*v1 + (n2-1)*v2) / df
	if pooled == 0 {
		return 0, 1
	}
	tStat = (m1 - m2) / math.Sqrt(pooled*(1/n1+1/n2))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	pValue = 2 * dist.Survival(math.Abs(tStat))
	return tStat, pValue
}

// chiSquarePValue is the upper-tail probability of the chi-square
// distribution with df degrees of freedom.
func chiSquarePValue(chi2 float64, df int) float64 {
	if df < 1 || chi2 <= 0 {
		return 1
	}
	dist := distuv.ChiSquared{K: float64(df)}
	return dist.Survival(chi2)
}

// skewness is the bias-adjusted Fisher-Pearson coefficient, matching the
// convention of common dataframe libraries.
func skewness(values []float64) float64 {
	n := float64(len(values))
	if n < 3 {
		return 0
	}
	mean, variance := meanVar(values)
	std := math.Sqrt(variance)
	if std == 0 {
		return 0
	}
	var sumCubed float64
	for _, v := range values {
		d := (v - mean) / std
		sumCubed += d * d * d
	}
	return sumCubed / n * math.Sqrt(n*(n-1)) / (n - 2)
}

// meanVar returns the mean and sample variance.
func meanVar(values []float64) (mean, variance float64) {
	n := float64(len(values))
	if n == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / n
	if n < 2 {
		return mean, 0
	}
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	variance = sq / (n - 1)
	return mean, variance
}
