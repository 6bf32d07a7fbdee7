package hcl

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/crossdeploy/internal/config"
)

func parseExpr(t *testing.T, src string) hcl.Expression {
	t.Helper()
	expr, diags := hclsyntax.ParseExpression([]byte(src), "test.hcl", hcl.Pos{Line: 1, Column: 1})
	require.False(t, diags.HasErrors(), diags.Error())
	return expr
}

func TestCheckReferences(t *testing.T) {
	evalCtx := newEvalContext(&config.Pipeline{Name: "svc", Region: "eu-west-1"})

	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{name: "literal", src: `{ A = "b" }`},
		{name: "pipeline reference", src: `{ A = pipeline.region }`},
		{name: "known function", src: `{ A = upper(format("%s-x", pipeline.name)) }`},
		{name: "template", src: `{ A = "${lower(pipeline.name)}-svc" }`},
		{name: "unknown variable", src: `{ A = var.region }`, wantErr: "unknown reference var.region: only pipeline may be referenced"},
		{name: "unknown function", src: `{ A = title(pipeline.name), B = trim("x") }`, wantErr: "unknown function title, trim: available functions are format, join, lower, upper"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := checkReferences(parseExpr(t, tc.src), evalCtx)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tc.wantErr)
		})
	}
}

func TestDecodeStringMap(t *testing.T) {
	evalCtx := newEvalContext(&config.Pipeline{Name: "svc"})

	got, err := decodeStringMap(parseExpr(t, `{ NAME = upper(pipeline.name), COUNT = 3 }`), evalCtx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"NAME": "SVC", "COUNT": "3"}, got)

	got, err = decodeStringMap(parseExpr(t, `null`), evalCtx)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = decodeStringMap(parseExpr(t, `{ A = var.x }`), evalCtx)
	assert.ErrorContains(t, err, "unknown reference var.x")
}
