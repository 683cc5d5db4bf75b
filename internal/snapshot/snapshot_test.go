package snapshot

import (
	"testing"

	"github.com/dekarrin/microc/internal/compiler"
	"github.com/dekarrin/microc/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromReport_ProjectsTokensDiagnosticsAndQuadruples(t *testing.T) {
	rep := compiler.NewOrchestrator().Compile("function main() { int x = 2 + 3; print(x); }")
	s := FromReport(rep)

	assert.True(t, s.Success)
	assert.Len(t, s.Tokens, len(rep.Tokens))
	assert.True(t, s.HasOptimizedCode)
	assert.NotEmpty(t, s.Quadruples)
	assert.NotEmpty(t, s.OptimizedQuadruples)
	assert.Equal(t, rep.ObjectCode, s.ObjectCode)
	assert.Equal(t, rep.Metrics.TokensCount, s.Metrics.TokensCount)
}

func TestFromReport_FailedCompileHasNoQuadruples(t *testing.T) {
	rep := compiler.NewOrchestrator().Compile("function main() { int x = 1; int x = 2; }")
	s := FromReport(rep)

	assert.False(t, s.Success)
	assert.NotEmpty(t, s.Errors)
	assert.Empty(t, s.Quadruples)
	assert.False(t, s.HasOptimizedCode)
}

func TestSaveLoad_RoundTripsSuccessfulCompile(t *testing.T) {
	rep := compiler.NewOrchestrator().Compile("function main() { int x = 2 + 3; print(x); }")
	original := FromReport(rep)

	data := Save(original)
	require.NotEmpty(t, data)

	restored, err := Load(data)
	require.NoError(t, err)

	assert.Equal(t, original.Success, restored.Success)
	assert.Equal(t, original.ObjectCode, restored.ObjectCode)
	assert.Equal(t, original.OptimizationLog, restored.OptimizationLog)
	assert.Equal(t, original.HasOptimizedCode, restored.HasOptimizedCode)
	require.Len(t, restored.Tokens, len(original.Tokens))
	for i := range original.Tokens {
		assert.Equal(t, original.Tokens[i], restored.Tokens[i])
	}
	require.Len(t, restored.Quadruples, len(original.Quadruples))
	for i := range original.Quadruples {
		assert.Equal(t, original.Quadruples[i], restored.Quadruples[i])
	}
	require.Len(t, restored.OptimizedQuadruples, len(original.OptimizedQuadruples))
	// CompilationTime is stored in whole microseconds, and the optimization
	// log travels in OptimizationLog rather than inside Metrics.
	wantMetrics := original.Metrics
	wantMetrics.CompilationTime = float64(int(wantMetrics.CompilationTime*1e6)) / 1e6
	wantMetrics.OptimizationLog = nil
	assert.Equal(t, wantMetrics, restored.Metrics)
}

func TestSaveLoad_RoundTripsErrorsAndWarnings(t *testing.T) {
	rep := compiler.NewOrchestrator().Compile("function main() { int x; print(x); }")
	original := FromReport(rep)
	require.NotEmpty(t, original.Warnings)

	data := Save(original)
	restored, err := Load(data)
	require.NoError(t, err)

	require.Len(t, restored.Warnings, len(original.Warnings))
	for i := range original.Warnings {
		assert.Equal(t, original.Warnings[i], restored.Warnings[i])
	}
}

func TestSaveLoad_RoundTripsEmptyReport(t *testing.T) {
	var empty report.CompileReport
	empty.Success = true
	s := FromReport(empty)

	data := Save(s)
	restored, err := Load(data)
	require.NoError(t, err)

	assert.True(t, restored.Success)
	assert.Empty(t, restored.Tokens)
	assert.Empty(t, restored.Quadruples)
	assert.False(t, restored.HasOptimizedCode)
}

func TestLoad_RejectsTruncatedData(t *testing.T) {
	rep := compiler.NewOrchestrator().Compile("function main() { print(1); }")
	data := Save(FromReport(rep))
	require.True(t, len(data) > 4)

	_, err := Load(data[:len(data)-2])
	assert.Error(t, err)
}

func TestMarshalUnmarshalBinary_RoundTripsDirectly(t *testing.T) {
	s := Report{
		Success: true,
		Tokens:  []TokenEntry{{Kind: "Keyword", Lexeme: "function", Line: 1, Column: 1}},
		Errors:  []Diagnostic{{Kind: "Lexical", Message: "bad char", Line: 1, Column: 5, HasColumn: true}},
		Quadruples: []QuadrupleEntry{
			{Index: 0, Op: "+", Arg1: "2", HasArg1: true, Arg2: "3", HasArg2: true, Result: "t0", HasResult: true, Kind: "Arithmetic", Line: 1},
		},
		ObjectCode:      "print(5)\n",
		OptimizationLog: []string{"constant folding: 2 + 3 -> 5"},
		Metrics:         report.Metrics{TokensCount: 4, QuadruplesCount: 1},
	}

	encoded, err := s.MarshalBinary()
	require.NoError(t, err)

	var restored Report
	require.NoError(t, restored.UnmarshalBinary(encoded))

	assert.Equal(t, s.Success, restored.Success)
	assert.Equal(t, s.Tokens, restored.Tokens)
	assert.Equal(t, s.Errors, restored.Errors)
	assert.Equal(t, s.Quadruples, restored.Quadruples)
	assert.Equal(t, s.ObjectCode, restored.ObjectCode)
	assert.Equal(t, s.OptimizationLog, restored.OptimizationLog)
	assert.Equal(t, s.Metrics, restored.Metrics)
}

func TestMarshalUnmarshalBinary_RoundTripsUnicodeStrings(t *testing.T) {
	s := Report{ObjectCode: "print(\"héllo wörld\")\n"}

	encoded, err := s.MarshalBinary()
	require.NoError(t, err)

	var restored Report
	require.NoError(t, restored.UnmarshalBinary(encoded))
	assert.Equal(t, s.ObjectCode, restored.ObjectCode)
}
