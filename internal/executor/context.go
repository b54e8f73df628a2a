package executor

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/paramgridgo/internal/paramtable"
)

// buildEvalContext assembles the HCL evaluation context for one step of one
// iteration: the binding set as `param`, the loop position as `iteration`,
// and the outputs of earlier steps in this iteration as `step`.
func (e *Executor) buildEvalContext(index, total int, bindings paramtable.BindingSet, stepOutputs map[string]map[string]cty.Value) *hcl.EvalContext {
	vars := make(map[string]cty.Value, 3)

	paramVals := make(map[string]cty.Value, len(bindings))
	for name, value := range bindings {
		paramVals[name] = cty.StringVal(value)
	}
	if len(paramVals) == 0 {
		vars["param"] = cty.EmptyObjectVal
	} else {
		vars["param"] = cty.ObjectVal(paramVals)
	}

	vars["iteration"] = cty.ObjectVal(map[string]cty.Value{
		"index": cty.NumberIntVal(int64(index)),
		"count": cty.NumberIntVal(int64(total)),
	})

	outputsByRunner := make(map[string]cty.Value, len(stepOutputs))
	for runnerType, instances := range stepOutputs {
		outputsByRunner[runnerType] = cty.ObjectVal(instances)
	}
	if len(outputsByRunner) == 0 {
		vars["step"] = cty.EmptyObjectVal
	} else {
		vars["step"] = cty.ObjectVal(outputsByRunner)
	}

	return &hcl.EvalContext{Variables: vars}
}
