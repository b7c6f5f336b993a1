package rootfind

// Sample is one plotted point. Y is nil where f is undefined or not finite.
type Sample struct {
	X float64  `json:"x"`
	Y *float64 `json:"y"`
}

// SampleFunc evaluates f at n evenly spaced points of [a, b] for plotting.
func SampleFunc(f Func, a, b float64, n int) []Sample {
	if n < 2 {
		n = 2
	}
	out := make([]Sample, n)
	h := (b - a) / float64(n-1)
	for i := 0; i < n; i++ {
		x := a + float64(i)*h
		out[i].X = x
		if y, err := f.Eval(x); err == nil && finite(y) {
			out[i].Y = &y
		}
	}
	return out
}
