package domain

// Operation identifies one user-triggered network action.
type Operation string

const (
	OpExplainCode    Operation = "explain_code"
	OpGeneratePlan   Operation = "generate_plan"
	OpFetchStats     Operation = "fetch_stats"
	OpFetchPlan      Operation = "fetch_plan"
	OpFetchUser      Operation = "fetch_user"
	OpSavePlan       Operation = "save_plan"
	OpUpdateProgress Operation = "update_progress"
	OpDebugCode      Operation = "debug_code"
	OpLogin          Operation = "login"
	OpRegister       Operation = "register"
)

// IsAI reports whether the operation is backed by the language model.
func (o Operation) IsAI() bool {
	switch o {
	case OpExplainCode, OpGeneratePlan, OpDebugCode:
		return true
	}
	return false
}

// IsAuth reports whether the operation authenticates the user.
func (o Operation) IsAuth() bool {
	return o == OpLogin || o == OpRegister
}
