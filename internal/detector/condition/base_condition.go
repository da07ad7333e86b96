package condition

// BaseCondition fields shared by every threshold condition
type BaseCondition struct {
	Name        string
	Description string
	Operator    string // ">=", ">", "<=", "<", "=="
}

func (c *BaseCondition) GetName() string {
	return c.Name
}

func (c *BaseCondition) GetDescription() string {
	return c.Description
}

func (c *BaseCondition) CompareFloat64(value, threshold float64) bool {
	switch c.Operator {
	case ">=":
		return value >= threshold
	case ">":
		return value > threshold
	case "<=":
		return value <= threshold
	case "<":
		return value < threshold
	case "==":
		return value == threshold
	default:
		return false
	}
}
