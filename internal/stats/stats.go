// Package stats computes robust averages over monthly totals. Inputs and
// results are integer cents; every division rounds half to even.
package stats

import (
	"slices"

	"github.com/shopspring/decimal"
)

// DefaultTrimFraction is the share of values dropped from each end by
// TrimmedMean.
const DefaultTrimFraction = 0.10

// Summary bundles the averages reported for one series.
type Summary struct {
	Count          int
	Median         int64
	TrimmedMean    int64
	IQRMean        int64
	WeightedMedian int64
}

// Summarize computes every average of values, which must be in
// chronological order for the weighted median.
func Summarize(values []int64) Summary {
	return Summary{
		Count:          len(values),
		Median:         Median(values),
		TrimmedMean:    TrimmedMean(values, DefaultTrimFraction),
		IQRMean:        IQRMean(values),
		WeightedMedian: WeightedMedian(values),
	}
}

func sorted(values []int64) []int64 {
	s := slices.Clone(values)
	slices.Sort(s)
	return s
}

func roundBank(d decimal.Decimal) int64 {
	return d.RoundBank(0).IntPart()
}

func mean(values []int64) int64 {
	if len(values) == 0 {
		return 0
	}
	var sum decimal.Decimal
	for _, v := range values {
		sum = sum.Add(decimal.NewFromInt(v))
	}
	return roundBank(sum.Div(decimal.NewFromInt(int64(len(values)))))
}

// Median returns the middle value, or the mean of the two middle values.
// An empty series has median zero.
func Median(values []int64) int64 {
	s := sorted(values)
	n := len(s)
	switch {
	case n == 0:
		return 0
	case n%2 == 1:
		return s[n/2]
	}
	return mean(s[n/2-1 : n/2+1])
}

// TrimmedMean drops floor(n*fraction) values from each end before averaging.
func TrimmedMean(values []int64, fraction float64) int64 {
	s := sorted(values)
	k := int(float64(len(s)) * fraction)
	if 2*k >= len(s) {
		return Median(values)
	}
	return mean(s[k : len(s)-k])
}

// quantile uses linear interpolation between closest ranks on sorted input.
func quantile(s []int64, q float64) decimal.Decimal {
	if len(s) == 1 {
		return decimal.NewFromInt(s[0])
	}
	pos := decimal.NewFromFloat(q).Mul(decimal.NewFromInt(int64(len(s) - 1)))
	lower := pos.Floor()
	i := int(lower.IntPart())
	frac := pos.Sub(lower)
	lo := decimal.NewFromInt(s[i])
	if i+1 >= len(s) {
		return lo
	}
	hi := decimal.NewFromInt(s[i+1])
	return lo.Add(hi.Sub(lo).Mul(frac))
}

// IQRMean averages the values that lie within the interquartile range.
func IQRMean(values []int64) int64 {
	s := sorted(values)
	if len(s) == 0 {
		return 0
	}
	q1, q3 := quantile(s, 0.25), quantile(s, 0.75)
	inner := make([]int64, 0, len(s))
	for _, v := range s {
		d := decimal.NewFromInt(v)
		if d.GreaterThanOrEqual(q1) && d.LessThanOrEqual(q3) {
			inner = append(inner, v)
		}
	}
	return mean(inner)
}

// WeightedMedian weights the i-th value (oldest first) by i+1, so recent
// months count more. When the cumulative weight lands exactly on half the
// total, the two straddling values are averaged.
func WeightedMedian(values []int64) int64 {
	if len(values) == 0 {
		return 0
	}
	type weighted struct {
		value  int64
		weight int64
	}
	items := make([]weighted, len(values))
	var total int64
	for i, v := range values {
		items[i] = weighted{value: v, weight: int64(i + 1)}
		total += int64(i + 1)
	}
	slices.SortStableFunc(items, func(a, b weighted) int {
		switch {
		case a.value < b.value:
			return -1
		case a.value > b.value:
			return 1
		}
		return 0
	})

	var cumulative int64
	for i, it := range items {
		cumulative += it.weight
		if 2*cumulative < total {
			continue
		}
		if 2*cumulative == total && i+1 < len(items) {
			return mean([]int64{it.value, items[i+1].value})
		}
		return it.value
	}
	return items[len(items)-1].value
}
