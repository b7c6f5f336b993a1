package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/Dekendrabaduwal/College-course/internal/rootfind"
)

// WriteCSV writes the trace with full precision, one row per iteration.
func WriteCSV(w io.Writer, iters []rootfind.Iter) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"k", "a", "b", "mid", "f(mid)", "b-a"}); err != nil {
		return err
	}
	for _, it := range iters {
		err := cw.Write([]string{
			strconv.Itoa(it.K),
			fmtFloat(it.A),
			fmtFloat(it.B),
			fmtFloat(it.XMid),
			fmtFloat(it.FXMid),
			fmtFloat(it.B - it.A),
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 16, 64)
}
