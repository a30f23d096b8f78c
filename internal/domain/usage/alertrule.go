package usage

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"sitestock/internal/domain/ledger"
)

// DefaultLowStockRule is the expression evaluated after every submission to
// decide whether a low-stock warning should be raised.
const DefaultLowStockRule = "remaining < assigned * threshold"

// LowStockRule is a compiled alert expression over the post-submission
// ledger position. Operators can override the default expression in
// configuration without a rebuild.
type LowStockRule struct {
	program   cel.Program
	threshold float64
}

// NewLowStockRule compiles expr against the alert environment. An empty expr
// selects DefaultLowStockRule.
func NewLowStockRule(expr string, threshold float64) (*LowStockRule, error) {
	if expr == "" {
		expr = DefaultLowStockRule
	}

	env, err := cel.NewEnv(
		cel.Variable("remaining", cel.DoubleType),
		cel.Variable("assigned", cel.DoubleType),
		cel.Variable("used", cel.DoubleType),
		cel.Variable("threshold", cel.DoubleType),
	)
	if err != nil {
		return nil, fmt.Errorf("create alert env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile low-stock rule %q: %w", expr, issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("low-stock rule %q must evaluate to bool, got %s", expr, ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build low-stock program: %w", err)
	}

	return &LowStockRule{program: program, threshold: threshold}, nil
}

// Triggered reports whether the rule fires for the given ledger position.
// Evaluation failures are returned so the caller can log and move on; an
// alert rule must never fail a submission.
func (r *LowStockRule) Triggered(pm *ledger.ProjectMaterial) (bool, error) {
	out, _, err := r.program.Eval(map[string]any{
		"remaining": pm.Remaining().Float64(),
		"assigned":  pm.Assigned.Float64(),
		"used":      pm.Used.Float64(),
		"threshold": r.threshold,
	})
	if err != nil {
		return false, fmt.Errorf("evaluate low-stock rule: %w", err)
	}
	fired, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("low-stock rule returned %T, want bool", out.Value())
	}
	return fired, nil
}
