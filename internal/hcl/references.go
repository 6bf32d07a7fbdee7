package hcl

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// traversalString renders a traversal the way it is written, e.g. pipeline.name.
func traversalString(t hcl.Traversal) string {
	return strings.TrimSpace(string(hclwrite.TokensForTraversal(t).Bytes()))
}

// checkReferences reports the first variable that evalCtx does not define,
// or every function it does not provide. Evaluating such an expression would
// fail anyway; this produces an error naming what is available instead.
func checkReferences(expr hcl.Expression, evalCtx *hcl.EvalContext) error {
	for _, t := range expr.Variables() {
		if _, ok := evalCtx.Variables[t.RootName()]; !ok {
			return fmt.Errorf("unknown reference %s: only %s may be referenced",
				traversalString(t), strings.Join(slices.Sorted(maps.Keys(evalCtx.Variables)), ", "))
		}
	}

	syntaxExpr, ok := expr.(hclsyntax.Expression)
	if !ok {
		return nil
	}
	unknown := make(map[string]struct{})
	hclsyntax.VisitAll(syntaxExpr, func(n hclsyntax.Node) hcl.Diagnostics {
		if call, ok := n.(*hclsyntax.FunctionCallExpr); ok {
			if _, known := evalCtx.Functions[call.Name]; !known {
				unknown[call.Name] = struct{}{}
			}
		}
		return nil
	})
	if len(unknown) > 0 {
		return fmt.Errorf("unknown function %s: available functions are %s",
			strings.Join(slices.Sorted(maps.Keys(unknown)), ", "),
			strings.Join(slices.Sorted(maps.Keys(evalCtx.Functions)), ", "))
	}
	return nil
}
