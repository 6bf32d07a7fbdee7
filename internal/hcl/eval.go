package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/crossdeploy/internal/config"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

// newEvalContext exposes the pipeline block as the `pipeline` variable,
// together with a few string functions.
func newEvalContext(p *config.Pipeline) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"pipeline": cty.ObjectVal(map[string]cty.Value{
				"name":        cty.StringVal(p.Name),
				"repository":  cty.StringVal(p.Repository),
				"branch":      cty.StringVal(p.Branch),
				"account":     cty.StringVal(p.Account),
				"region":      cty.StringVal(p.Region),
				"application": cty.StringVal(p.Application),
			}),
		},
		Functions: map[string]function.Function{
			"lower":  stdlib.LowerFunc,
			"upper":  stdlib.UpperFunc,
			"format": stdlib.FormatFunc,
			"join":   stdlib.JoinFunc,
		},
	}
}

// decodeStringMap evaluates an optional expression and converts it to a
// map of strings. A missing or null expression yields a nil map.
func decodeStringMap(expr hcl.Expression, evalCtx *hcl.EvalContext) (map[string]string, error) {
	if expr == nil {
		return nil, nil
	}
	if err := checkReferences(expr, evalCtx); err != nil {
		return nil, err
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}

	converted, err := convert.Convert(val, cty.Map(cty.String))
	if err != nil {
		return nil, fmt.Errorf("cannot convert %s to map of strings: %w", val.Type().FriendlyName(), err)
	}

	var out map[string]string
	if err := gocty.FromCtyValue(converted, &out); err != nil {
		return nil, err
	}
	return out, nil
}
