package report

import "github.com/Dekendrabaduwal/College-course/internal/rootfind"

// Summary is the machine-readable form of a run, used for JSON output.
// X and FX are omitted unless a root was found.
type Summary struct {
	Status  rootfind.Status `json:"status"`
	OK      bool            `json:"ok"`
	X       *float64        `json:"x,omitempty"`
	FX      *float64        `json:"fx,omitempty"`
	Iters   []rootfind.Iter `json:"iters"`
	Message string          `json:"message"`
	Error   string          `json:"error,omitempty"`
}

func NewSummary(p rootfind.Params, res rootfind.Result, err error) Summary {
	msg, ok := Message(p, res, err)
	s := Summary{
		Status:  res.Status,
		OK:      ok,
		Iters:   res.Iters,
		Message: msg,
	}
	if s.Iters == nil {
		s.Iters = []rootfind.Iter{}
	}
	if ok {
		x, fx := res.X, res.FX
		s.X, s.FX = &x, &fx
	}
	if err != nil {
		s.Error = err.Error()
		// expression errors never reach the solver, so res carries no status
		s.Status = rootfind.StatusOf(err)
	}
	return s
}
