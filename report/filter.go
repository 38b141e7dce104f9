package report

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/movietally/movietally/scan"
)

// Filter selects which year totals are reported.
type Filter struct {
	expression string
	program    *vm.Program
}

// Compile builds a filter from an expr expression over the variables
// year, total and pages, for example "total > 0 && year >= 1950".
// An empty expression matches everything.
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return &Filter{}, nil
	}

	program, err := expr.Compile(expression,
		expr.Env(filterEnv(scan.YearTotal{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression %q: %w", expression, err)
	}

	return &Filter{expression: expression, program: program}, nil
}

// Match reports whether a year total passes the filter.
func (f *Filter) Match(t scan.YearTotal) (bool, error) {
	if f.program == nil {
		return true, nil
	}
	out, err := expr.Run(f.program, filterEnv(t))
	if err != nil {
		return false, fmt.Errorf("filter %q failed: %w", f.expression, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// Apply returns the totals that pass the filter, preserving order.
func Apply(totals []scan.YearTotal, f *Filter) ([]scan.YearTotal, error) {
	selected := make([]scan.YearTotal, 0, len(totals))
	for _, t := range totals {
		ok, err := f.Match(t)
		if err != nil {
			return nil, err
		}
		if ok {
			selected = append(selected, t)
		}
	}
	return selected, nil
}

func filterEnv(t scan.YearTotal) map[string]any {
	return map[string]any{
		"year":  t.Year,
		"total": t.Total,
		"pages": t.Pages,
	}
}
