package grading

// Entry is a single graded, weighted item as seen by the engine.
type Entry struct {
	ID     string
	Grade  float64
	Weight float64
}

type Aggregate struct {
	Grade       float64 `json:"grade"`
	TotalWeight float64 `json:"total_weight"`
}

// AggregateEntries reduces entries to their weighted average and the total
// weight they consume. No rounding is applied.
func AggregateEntries(entries []Entry) Aggregate {
	if len(entries) == 0 {
		return Aggregate{}
	}

	var weightedSum, totalWeight float64
	for _, e := range entries {
		weightedSum += e.Grade * e.Weight
		totalWeight += e.Weight
	}

	if totalWeight <= 0 {
		return Aggregate{TotalWeight: totalWeight}
	}

	return Aggregate{
		Grade:       weightedSum / totalWeight,
		TotalWeight: totalWeight,
	}
}
