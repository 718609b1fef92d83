package sat

import (
	"fmt"
	"strings"
)

// ToOPB renders the model in the pseudo-boolean competition format (OPB), optionally with an objective
func (model *Model) ToOPB(objective LinearExpr, direction Direction) string {
	lines := make([]string, 0, len(model.constraints)+2)
	for _, constraint := range model.constraints {
		forms := geForms(constraint)
		if constraint.Relation == EQ {
			forms = []Constraint{constraint}
		}
		for _, form := range forms {
			if len(form.Expr) == 0 {
				continue // Empty expressions are checked by normalize before any solver runs
			}
			lines = append(lines, fmt.Sprintf("%v %v %d ;", formatExpr(form.Expr), form.Relation, form.Bound))
		}
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "* #variable= %d #constraint= %d\n", model.Variables(), len(lines))
	if len(objective) > 0 {
		if direction == Maximize {
			objective = negated(objective)
		}
		fmt.Fprintf(&builder, "min: %v ;\n", formatExpr(objective))
	}
	for _, line := range lines {
		builder.WriteString(line)
		builder.WriteString("\n")
	}
	return builder.String()
}

func formatExpr(expr LinearExpr) string {
	var builder strings.Builder
	for i, term := range expr {
		if i > 0 {
			builder.WriteString(" ")
		}
		fmt.Fprintf(&builder, "%+d x%d", term.Coefficient, term.Var)
	}
	return builder.String()
}

func negated(expr LinearExpr) LinearExpr {
	result := make(LinearExpr, len(expr))
	for i, term := range expr {
		result[i] = Term{Var: term.Var, Coefficient: -term.Coefficient}
	}
	return result
}

// clone copies the model so that blocking constraints can be appended without touching the caller's model
func (model *Model) clone() *Model {
	names := make([]string, len(model.names))
	copy(names, model.names)
	constraints := make([]Constraint, len(model.constraints))
	copy(constraints, model.constraints)
	return &Model{names: names, constraints: constraints}
}

// blockingConstraint excludes exactly the given assignment: at least one variable must flip
func blockingConstraint(assignment Assignment) Constraint {
	expr := make(LinearExpr, 0, len(assignment))
	bound := 1
	for i, value := range assignment {
		if value {
			expr = append(expr, Term{Var: Var(i + 1), Coefficient: -1})
			bound--
		} else {
			expr = append(expr, Term{Var: Var(i + 1), Coefficient: 1})
		}
	}
	return Constraint{Name: "blocking", Expr: expr, Relation: GE, Bound: bound}
}
