package calculator

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// Tolerance is the allowed deviation, in currency units and percentage
// points, when comparing sums.
const Tolerance = 0.01

// epsilon absorbs binary representation error so that a deviation of
// exactly Tolerance (e.g. 100.01 - 100) is accepted.
const epsilon = 1e-9

// MaxAmount is the largest amount accepted for an expense, split or
// settlement. Its value in cents stays exact in a float64 and leaves room
// to sum many such amounts in an int64.
const MaxAmount = 1e12

// toCents rounds amount half away from zero to whole cents. The float is
// read as its shortest decimal form, so 1.005 becomes 101 cents. Non-finite
// amounts map to 0; callers validate them first.
func toCents(amount float64) int64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0
	}
	return decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
}

func fromCents(cents int64) float64 {
	return decimal.New(cents, -2).InexactFloat64()
}

func withinTolerance(a, b float64) bool {
	return math.Abs(a-b) <= Tolerance+epsilon
}

// amountToCents validates a total and converts it to cents.
func amountToCents(total float64) (int64, error) {
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, invalidf("amount must be a finite number")
	}
	if total <= 0 {
		return 0, invalidf("amount must be positive, got %.2f", total)
	}
	if total > MaxAmount {
		return 0, invalidf("amount must not exceed %.2f, got %.2f", MaxAmount, total)
	}
	cents := toCents(total)
	if cents <= 0 {
		return 0, invalidf("amount must be at least 0.01, got %v", total)
	}
	return cents, nil
}

// allocate distributes cents proportionally to weights using the
// largest-remainder method. The result always sums to cents. Ties in the
// fractional remainder go to the earlier index.
func allocate(cents int64, weights []float64) []int64 {
	ws := make([]decimal.Decimal, len(weights))
	sum := decimal.Zero
	for i, w := range weights {
		ws[i] = decimal.NewFromFloat(w)
		sum = sum.Add(ws[i])
	}

	pool := decimal.NewFromInt(cents)
	out := make([]int64, len(weights))
	remainders := make([]decimal.Decimal, len(weights))
	var allocated int64
	for i, w := range ws {
		exact := pool.Mul(w).Div(sum)
		floor := exact.Floor()
		out[i] = floor.IntPart()
		remainders[i] = exact.Sub(floor)
		allocated += out[i]
	}

	order := make([]int, len(weights))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]].GreaterThan(remainders[order[b]])
	})

	n := len(order)
	left := cents - allocated
	for k := 0; left > 0; k++ {
		out[order[k%n]]++
		left--
	}
	// Division is rounded to decimal.DivisionPrecision digits and may
	// overshoot by a cent.
	for k := 0; left < 0; k++ {
		idx := order[n-1-k%n]
		if out[idx] > 0 {
			out[idx]--
			left++
		}
	}
	return out
}
