package listpager

// Operator is a SQL comparison used to build keyset predicates.
type Operator string

const (
	OperatorGT  Operator = ">"
	OperatorLT  Operator = "<"
	OperatorGTE Operator = ">="
	OperatorLTE Operator = "<="

	// operatorEq is private: it only appears in the equality prefix of a
	// keyset disjunct.
	operatorEq Operator = "="
)
