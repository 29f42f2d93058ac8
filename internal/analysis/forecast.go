package analysis

import (
	"math"

	"github.com/expenselens/walletledger/internal/models"
)

// ForecastNext estimates the next month's total spend from a monthly pivot.
//
// With fewer than two months of data there is nothing to extrapolate from:
// the single month's total (or 0.0 for an empty pivot) is returned as-is.
// Otherwise a small polynomial trend is fit over the month index and its
// prediction at the next index is blended 60/40 with the mean of the
// trailing up-to-3 months. The blend anchors the trend to recent reality so
// one odd month cannot drag the forecast somewhere wild; it is a heuristic
// smoother, not a statistically validated model. Spend is never forecast
// negative.
func ForecastNext(pivot *models.MonthlyPivot) float64 {
	y := pivot.Series()
	n := len(y)
	if n == 0 {
		return 0.0
	}
	if n < 2 {
		return y[n-1]
	}

	pred := polyPredict(y, n)

	window := 3
	if n < window {
		window = n
	}
	var rolling float64
	for _, v := range y[n-window:] {
		rolling += v
	}
	rolling /= float64(window)

	blended := 0.6*pred + 0.4*rolling
	if blended < 0 {
		blended = 0
	}
	return math.Round(blended*100) / 100
}

// polyPredict fits a least-squares polynomial over the sequence index
// (degree 2, or 1 when only two observations exist) and evaluates it at x.
func polyPredict(y []float64, x int) float64 {
	degree := 2
	if len(y) <= degree {
		degree = len(y) - 1
	}
	coeffs := polyFit(y, degree)

	var out float64
	xf := float64(x)
	for i := len(coeffs) - 1; i >= 0; i-- {
		out = out*xf + coeffs[i]
	}
	return out
}

// polyFit solves the normal equations for a degree-d least-squares fit of
// y against its indices 0..n-1. Returns coefficients lowest power first.
func polyFit(y []float64, degree int) []float64 {
	n := len(y)
	m := degree + 1

	// Build the normal-equation matrix A and vector b.
	a := make([][]float64, m)
	b := make([]float64, m)
	for i := 0; i < m; i++ {
		a[i] = make([]float64, m)
	}
	for k := 0; k < n; k++ {
		xk := float64(k)
		pow := make([]float64, m)
		pow[0] = 1
		for i := 1; i < m; i++ {
			pow[i] = pow[i-1] * xk
		}
		for i := 0; i < m; i++ {
			for j := 0; j < m; j++ {
				a[i][j] += pow[i] * pow[j]
			}
			b[i] += pow[i] * y[k]
		}
	}

	// Gaussian elimination with partial pivoting. The system is tiny
	// (at most 3x3), well within float64 comfort.
	for col := 0; col < m; col++ {
		pivotRow := col
		for r := col + 1; r < m; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivotRow][col]) {
				pivotRow = r
			}
		}
		a[col], a[pivotRow] = a[pivotRow], a[col]
		b[col], b[pivotRow] = b[pivotRow], b[col]

		if a[col][col] == 0 {
			continue
		}
		for r := col + 1; r < m; r++ {
			f := a[r][col] / a[col][col]
			for c := col; c < m; c++ {
				a[r][c] -= f * a[col][c]
			}
			b[r] -= f * b[col]
		}
	}
	coeffs := make([]float64, m)
	for i := m - 1; i >= 0; i-- {
		sum := b[i]
		for j := i + 1; j < m; j++ {
			sum -= a[i][j] * coeffs[j]
		}
		if a[i][i] != 0 {
			coeffs[i] = sum / a[i][i]
		}
	}
	return coeffs
}
