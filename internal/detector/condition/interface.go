package condition

import (
	"github.com/ninja0404/old-runners/internal/model"
)

// Condition one predicate over a pair's derived metrics
type Condition interface {
	Evaluate(context *EvaluationContext) bool

	GetName() string

	GetDescription() string
}

// EvaluationContext data a condition may look at
type EvaluationContext struct {
	Pair    *model.EnrichedPair
	Metrics model.Metrics
}

type LogicalOperator string

const (
	AND LogicalOperator = "AND"
	OR  LogicalOperator = "OR"
)

// CompositeCondition combines conditions with AND/OR
type CompositeCondition struct {
	Name        string
	Description string
	Operator    LogicalOperator
	Conditions  []Condition
}

func (c *CompositeCondition) Evaluate(context *EvaluationContext) bool {
	switch c.Operator {
	case AND:
		for _, condition := range c.Conditions {
			if !condition.Evaluate(context) {
				return false
			}
		}
		return len(c.Conditions) > 0

	case OR:
		for _, condition := range c.Conditions {
			if condition.Evaluate(context) {
				return true
			}
		}
		return false

	default:
		return false
	}
}

func (c *CompositeCondition) GetName() string {
	return c.Name
}

func (c *CompositeCondition) GetDescription() string {
	return c.Description
}

// Stages the direct children, in order. A non-composite is its own stage.
func Stages(c Condition) []Condition {
	if comp, ok := c.(*CompositeCondition); ok && comp.Operator == AND {
		return comp.Conditions
	}
	return []Condition{c}
}

// Builder chains conditions under one operator
type Builder struct {
	conditions []Condition
	operator   LogicalOperator
	name       string
	desc       string
}

func NewBuilder() *Builder {
	return &Builder{
		conditions: make([]Condition, 0),
		operator:   AND,
	}
}

func (b *Builder) Name(name string) *Builder {
	b.name = name
	return b
}

func (b *Builder) Description(desc string) *Builder {
	b.desc = desc
	return b
}

func (b *Builder) And(condition Condition) *Builder {
	b.operator = AND
	b.conditions = append(b.conditions, condition)
	return b
}

func (b *Builder) Or(condition Condition) *Builder {
	b.operator = OR
	b.conditions = append(b.conditions, condition)
	return b
}

func (b *Builder) Build() Condition {
	if len(b.conditions) == 1 && b.name == "" {
		return b.conditions[0]
	}

	return &CompositeCondition{
		Name:        b.name,
		Description: b.desc,
		Operator:    b.operator,
		Conditions:  b.conditions,
	}
}
