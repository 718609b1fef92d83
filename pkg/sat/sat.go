package sat

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Var is a 1-based handle to a boolean decision variable of a Model
type Var int

type Term struct {
	Var         Var
	Coefficient int
}

type LinearExpr []Term

// Sum builds the expression x_1 + x_2 + ... + x_n
func Sum(vars ...Var) LinearExpr {
	return lo.Map(vars, func(variable Var, _ int) Term { return Term{Var: variable, Coefficient: 1} })
}

func (expr LinearExpr) Vars() []Var {
	return lo.Map(expr, func(term Term, _ int) Var { return term.Var })
}

// Evaluate returns the value of the expression under the given assignment
func (expr LinearExpr) Evaluate(assignment Assignment) int {
	return lo.SumBy(expr, func(term Term) int {
		if assignment.Value(term.Var) {
			return term.Coefficient
		}
		return 0
	})
}

// Relation compares a linear expression against its bound; the zero value is no relation
type Relation int

const (
	EQ Relation = iota + 1
	LE
	GE
	LT
	GT
)

var relationSymbols = map[Relation]string{
	EQ: "=",
	LE: "<=",
	GE: ">=",
	LT: "<",
	GT: ">",
}

func (relation Relation) String() string {
	if symbol, ok := relationSymbols[relation]; ok {
		return symbol
	}
	return fmt.Sprintf("Relation(%d)", int(relation))
}

// ParseRelation accepts both the symbolic ("<=") and the mnemonic ("LE") spelling
func ParseRelation(str string) (Relation, error) {
	str = strings.TrimSpace(strings.ToUpper(str))
	for relation, symbol := range relationSymbols {
		if str == symbol || str == relation.mnemonic() {
			return relation, nil
		}
	}
	if str == "==" {
		return EQ, nil
	}
	return 0, fmt.Errorf("unknown relation \"%v\"", str)
}

func (relation Relation) mnemonic() string {
	return [...]string{EQ: "EQ", LE: "LE", GE: "GE", LT: "LT", GT: "GT"}[relation]
}

func (relation Relation) Valid() bool {
	_, ok := relationSymbols[relation]
	return ok
}

// Holds compares lhs against bound
func (relation Relation) Holds(lhs, bound int) bool {
	switch relation {
	case EQ:
		return lhs == bound
	case LE:
		return lhs <= bound
	case GE:
		return lhs >= bound
	case LT:
		return lhs < bound
	case GT:
		return lhs > bound
	}
	return false
}

type Constraint struct {
	Name     string // Family and coordinates that produced the constraint, used in diagnostics
	Expr     LinearExpr
	Relation Relation
	Bound    int
}

func (constraint Constraint) String() string {
	var builder strings.Builder
	for i, term := range constraint.Expr {
		if i > 0 {
			builder.WriteString(" ")
		}
		fmt.Fprintf(&builder, "%+d x%d", term.Coefficient, term.Var)
	}
	fmt.Fprintf(&builder, " %v %d", constraint.Relation, constraint.Bound)
	return builder.String()
}

type Direction int

const (
	Minimize Direction = iota
	Maximize
)

// Assignment holds the value of every variable, where assignment[i] is the value of Var(i+1)
type Assignment []bool

func (assignment Assignment) Value(variable Var) bool {
	index := int(variable) - 1
	return index >= 0 && index < len(assignment) && assignment[index]
}

// Model is the decision space (boolean variables) plus the linear constraints posted over it
type Model struct {
	names       []string
	constraints []Constraint
}

func NewModel() *Model {
	return &Model{
		names:       make([]string, 0),
		constraints: make([]Constraint, 0),
	}
}

func (model *Model) NewBoolVar(name string) Var {
	model.names = append(model.names, name)
	return Var(len(model.names))
}

// Post appends a constraint to the model, failing with a *ModelError when the constraint references an unknown variable
func (model *Model) Post(constraint Constraint) error {
	if !constraint.Relation.Valid() {
		return fmt.Errorf("constraint \"%v\" has no valid relation: %v", constraint.Name, constraint.Relation)
	}
	if unknown, ok := lo.Find(constraint.Expr, func(term Term) bool {
		return term.Var < 1 || int(term.Var) > len(model.names)
	}); ok {
		return &ModelError{Constraint: constraint.Name, Var: unknown.Var}
	}
	model.constraints = append(model.constraints, constraint)
	return nil
}

func (model *Model) Variables() int {
	return len(model.names)
}

func (model *Model) Constraints() []Constraint {
	return model.constraints
}

func (model *Model) Name(variable Var) string {
	if variable < 1 || int(variable) > len(model.names) {
		return ""
	}
	return model.names[variable-1]
}

// Check evaluates every posted constraint under the assignment and returns the first violated one
func (model *Model) Check(assignment Assignment) error {
	for _, constraint := range model.constraints {
		if lhs := constraint.Expr.Evaluate(assignment); !constraint.Relation.Holds(lhs, constraint.Bound) {
			return fmt.Errorf("constraint \"%v\" is violated: lhs = %d, expected %v %d", constraint.Name, lhs, constraint.Relation, constraint.Bound)
		}
	}
	return nil
}

// ModelError reports a constraint that references a variable the model never created
type ModelError struct {
	Constraint string
	Var        Var
}

func (err *ModelError) Error() string {
	return fmt.Sprintf("constraint \"%v\" references unknown variable x%d", err.Constraint, err.Var)
}
