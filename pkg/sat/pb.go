package sat

import (
	"github.com/samber/lo"
)

// geForms rewrites a constraint into one or two constraints of the shape "expr >= bound"
func geForms(constraint Constraint) []Constraint {
	negate := func(expr LinearExpr) LinearExpr {
		return lo.Map(expr, func(term Term, _ int) Term { return Term{Var: term.Var, Coefficient: -term.Coefficient} })
	}

	switch constraint.Relation {
	case GE:
		return []Constraint{constraint}
	case GT:
		return []Constraint{{Name: constraint.Name, Expr: constraint.Expr, Relation: GE, Bound: constraint.Bound + 1}}
	case LE:
		return []Constraint{{Name: constraint.Name, Expr: negate(constraint.Expr), Relation: GE, Bound: -constraint.Bound}}
	case LT:
		return []Constraint{{Name: constraint.Name, Expr: negate(constraint.Expr), Relation: GE, Bound: -constraint.Bound + 1}}
	default: // EQ
		return []Constraint{
			{Name: constraint.Name, Expr: constraint.Expr, Relation: GE, Bound: constraint.Bound},
			{Name: constraint.Name, Expr: negate(constraint.Expr), Relation: GE, Bound: -constraint.Bound},
		}
	}
}

// pbConstraint is "sum weights[i]*lits[i] >= atLeast" with strictly positive weights, where a negative literal stands for a negated variable
type pbConstraint struct {
	lits    []int
	weights []int
	atLeast int
}

// Trivial reports whether the constraint holds under every assignment
func (constraint pbConstraint) trivial() bool {
	return constraint.atLeast <= 0
}

// Unsatisfiable reports whether the constraint fails under every assignment
func (constraint pbConstraint) unsatisfiable() bool {
	return lo.Sum(constraint.weights) < constraint.atLeast
}

// positiveForm turns "sum c_i x_i >= b" into positive weights by using c*x = c + |c|*(not x) for c < 0
func positiveForm(constraint Constraint) pbConstraint {
	coefficients := make(map[Var]int)
	order := make([]Var, 0, len(constraint.Expr))
	for _, term := range constraint.Expr {
		if _, ok := coefficients[term.Var]; !ok {
			order = append(order, term.Var)
		}
		coefficients[term.Var] += term.Coefficient
	}

	pb := pbConstraint{atLeast: constraint.Bound}
	for _, variable := range order {
		coefficient := coefficients[variable]
		switch {
		case coefficient > 0:
			pb.lits = append(pb.lits, int(variable))
			pb.weights = append(pb.weights, coefficient)
		case coefficient < 0:
			pb.lits = append(pb.lits, -int(variable))
			pb.weights = append(pb.weights, -coefficient)
			pb.atLeast -= coefficient
		}
	}
	return pb
}

// normalize lowers the model into positive-weight ">=" constraints, dropping trivial ones.
// The second return value is false when some constraint can never hold
func normalize(model *Model) ([]pbConstraint, bool) {
	constraints := make([]pbConstraint, 0, len(model.Constraints()))
	for _, constraint := range model.Constraints() {
		for _, ge := range geForms(constraint) {
			pb := positiveForm(ge)
			if pb.unsatisfiable() {
				return nil, false
			} else if pb.trivial() {
				continue
			}
			constraints = append(constraints, pb)
		}
	}
	return constraints, true
}
