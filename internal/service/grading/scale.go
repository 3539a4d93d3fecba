package grading

// Bucket is one contiguous letter-grade range of the scale. Points is
// display data for the legend; nothing aggregates it.
type Bucket struct {
	Letter string  `json:"letter"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Color  string  `json:"color"`
	Points float64 `json:"points"`
}

type Letter struct {
	Letter string  `json:"letter"`
	Color  string  `json:"color"`
	Points float64 `json:"points"`
}

// Ordered highest first; Classify relies on it.
var scale = []Bucket{
	{Letter: "A+", Min: 97, Max: 100, Color: "#10b981", Points: 4.33},
	{Letter: "A", Min: 93, Max: 96, Color: "#10b981", Points: 4.0},
	{Letter: "A-", Min: 90, Max: 92, Color: "#10b981", Points: 3.67},
	{Letter: "B+", Min: 87, Max: 89, Color: "#3b82f6", Points: 3.33},
	{Letter: "B", Min: 83, Max: 86, Color: "#3b82f6", Points: 3.0},
	{Letter: "B-", Min: 80, Max: 82, Color: "#3b82f6", Points: 2.67},
	{Letter: "C+", Min: 77, Max: 79, Color: "#f59e0b", Points: 2.33},
	{Letter: "C", Min: 73, Max: 76, Color: "#f59e0b", Points: 2.0},
	{Letter: "C-", Min: 70, Max: 72, Color: "#f59e0b", Points: 1.67},
	{Letter: "D+", Min: 67, Max: 69, Color: "#f97316", Points: 1.33},
	{Letter: "D", Min: 63, Max: 66, Color: "#f97316", Points: 1.0},
	{Letter: "D-", Min: 60, Max: 62, Color: "#f97316", Points: 0.67},
	{Letter: "F", Min: 0, Max: 59, Color: "#ef4444", Points: 0.0},
}

var failing = scale[len(scale)-1]

// Classify maps a percentage to its letter grade. A value belongs to the
// highest bucket whose minimum it reaches, so 96.5 is an A and 59.9 is an F.
// Negative and NaN input fall back to F.
func Classify(percentage float64) Letter {
	for _, b := range scale {
		if percentage >= b.Min {
			return b.letter()
		}
	}
	return failing.letter()
}

// Scale returns a copy of the letter-grade table, highest bucket first.
func Scale() []Bucket {
	out := make([]Bucket, len(scale))
	copy(out, scale)
	return out
}

func (b Bucket) letter() Letter {
	return Letter{Letter: b.Letter, Color: b.Color, Points: b.Points}
}
