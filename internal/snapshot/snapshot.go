// Package snapshot serializes a report.CompileReport to a compact binary
// file so cmd/microc can replay it later without recompiling. This is a
// CLI-only convenience (§6.3 is explicit that the compiler itself keeps no
// persisted state); the file lives wherever the user's --snapshot flag
// points it.
//
// The encoding covers the report's linear, textual artifacts — tokens,
// diagnostics, both quadruple sequences, the optimization log, and the
// generated target code — using the same length-prefixed
// encoding.BinaryMarshaler convention internal/tunascript/binary.go uses
// for saved-game state. The syntax tree and symbol table are not part of
// the snapshot: they are recursive, address-free structures a round-trip
// codec would have to reinvent from scratch for a feature whose only
// consumer is "show me what this report printed," so the CLI instead
// re-renders those two artifacts from the live report and only snapshots
// what a later, tree-less process can reconstruct completely.
package snapshot

import (
	"encoding"
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/dekarrin/microc/internal/cerrors"
	"github.com/dekarrin/microc/internal/ir"
	"github.com/dekarrin/microc/internal/report"
	"github.com/dekarrin/rezi"
)

// Report wraps the slice of a report.CompileReport that this package knows
// how to serialize. Save/Load operate on this type rather than
// report.CompileReport directly so the lossy nature of the snapshot (no
// AST, no symbol table) is visible in the type signature.
type Report struct {
	Success bool

	Tokens   []TokenEntry
	Errors   []Diagnostic
	Warnings []Diagnostic

	Quadruples         []QuadrupleEntry
	OptimizedQuadruples []QuadrupleEntry
	HasOptimizedCode    bool

	ObjectCode       string
	OptimizationLog  []string

	Metrics report.Metrics
}

// TokenEntry is a serializable projection of token.Token.
type TokenEntry struct {
	Kind   string
	Lexeme string
	Line   int
	Column int
}

// Diagnostic is a serializable projection of cerrors.Diagnostic.
type Diagnostic struct {
	Kind      string
	Message   string
	Line      int
	Column    int
	HasColumn bool
}

// QuadrupleEntry is a serializable projection of ir.Quadruple.
type QuadrupleEntry struct {
	Index      int
	Op         string
	Arg1       string
	HasArg1    bool
	Arg2       string
	HasArg2    bool
	Result     string
	HasResult  bool
	Kind       string
	Line       int
}

// FromReport projects the parts of rep that can be snapshotted.
func FromReport(rep report.CompileReport) Report {
	s := Report{
		Success:             rep.Success,
		ObjectCode:          rep.ObjectCode,
		OptimizationLog:     rep.Metrics.OptimizationLog,
		HasOptimizedCode:    rep.OptimizedCode != nil,
		Metrics:             rep.Metrics,
	}

	for _, t := range rep.Tokens {
		s.Tokens = append(s.Tokens, TokenEntry{Kind: t.Kind.String(), Lexeme: t.Lexeme, Line: t.Line, Column: t.Column})
	}
	for _, d := range rep.Errors {
		s.Errors = append(s.Errors, toDiagnostic(d))
	}
	for _, d := range rep.Warnings {
		s.Warnings = append(s.Warnings, toDiagnostic(d))
	}
	if rep.IntermediateCode != nil {
		s.Quadruples = toQuadrupleEntries(rep.IntermediateCode.Quadruples)
	}
	if rep.OptimizedCode != nil {
		s.OptimizedQuadruples = toQuadrupleEntries(rep.OptimizedCode.Quadruples)
	}

	return s
}

func toDiagnostic(d cerrors.Diagnostic) Diagnostic {
	return Diagnostic{Kind: kindName(d.Kind), Message: d.Message, Line: d.Line, Column: d.Column, HasColumn: d.HasColumn}
}

var diagnosticKindNames = [...]string{
	cerrors.Lexical: "Lexical", cerrors.Syntactic: "Syntactic", cerrors.Semantic: "Semantic",
	cerrors.SemanticWarning: "SemanticWarning", cerrors.IRFailure: "IRFailure",
	cerrors.OptimizationFailure: "OptimizationFailure", cerrors.TargetFailure: "TargetFailure",
}

func kindName(k cerrors.Kind) string { return diagnosticKindNames[k] }

func toQuadrupleEntries(quads []ir.Quadruple) []QuadrupleEntry {
	out := make([]QuadrupleEntry, 0, len(quads))
	for _, q := range quads {
		e := QuadrupleEntry{Index: q.Index, Op: q.Op, Kind: q.Kind.String(), Line: q.Line}
		if q.Arg1 != nil {
			e.Arg1, e.HasArg1 = *q.Arg1, true
		}
		if q.Arg2 != nil {
			e.Arg2, e.HasArg2 = *q.Arg2, true
		}
		if q.Result != nil {
			e.Result, e.HasResult = *q.Result, true
		}
		out = append(out, e)
	}
	return out
}

// Save encodes s using rezi's length-prefixed BinaryMarshaler wrapping and
// returns the bytes to write to the snapshot file.
func Save(s Report) []byte {
	return rezi.EncBinary(&s)
}

// Load decodes a snapshot previously produced by Save.
func Load(data []byte) (Report, error) {
	var s Report
	n, err := rezi.DecBinary(data, &s)
	if err != nil {
		return Report{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	if n != len(data) {
		return Report{}, fmt.Errorf("snapshot decode consumed %d/%d bytes", n, len(data))
	}
	return s, nil
}

var _ encoding.BinaryMarshaler = (*Report)(nil)
var _ encoding.BinaryUnmarshaler = (*Report)(nil)

// MarshalBinary implements encoding.BinaryMarshaler.
func (s *Report) MarshalBinary() ([]byte, error) {
	var enc []byte
	enc = append(enc, encBinaryBool(s.Success)...)

	enc = append(enc, encBinaryInt(len(s.Tokens))...)
	for _, t := range s.Tokens {
		enc = append(enc, encBinaryString(t.Kind)...)
		enc = append(enc, encBinaryString(t.Lexeme)...)
		enc = append(enc, encBinaryInt(t.Line)...)
		enc = append(enc, encBinaryInt(t.Column)...)
	}

	enc = append(enc, encodeDiagnostics(s.Errors)...)
	enc = append(enc, encodeDiagnostics(s.Warnings)...)

	enc = append(enc, encodeQuadruples(s.Quadruples)...)
	enc = append(enc, encBinaryBool(s.HasOptimizedCode)...)
	enc = append(enc, encodeQuadruples(s.OptimizedQuadruples)...)

	enc = append(enc, encBinaryString(s.ObjectCode)...)

	enc = append(enc, encBinaryInt(len(s.OptimizationLog))...)
	for _, entry := range s.OptimizationLog {
		enc = append(enc, encBinaryString(entry)...)
	}

	enc = append(enc, encodeMetrics(s.Metrics)...)

	return enc, nil
}

func encodeDiagnostics(diags []Diagnostic) []byte {
	var enc []byte
	enc = append(enc, encBinaryInt(len(diags))...)
	for _, d := range diags {
		enc = append(enc, encBinaryString(d.Kind)...)
		enc = append(enc, encBinaryString(d.Message)...)
		enc = append(enc, encBinaryInt(d.Line)...)
		enc = append(enc, encBinaryInt(d.Column)...)
		enc = append(enc, encBinaryBool(d.HasColumn)...)
	}
	return enc
}

func encodeQuadruples(quads []QuadrupleEntry) []byte {
	var enc []byte
	enc = append(enc, encBinaryInt(len(quads))...)
	for _, q := range quads {
		enc = append(enc, encBinaryInt(q.Index)...)
		enc = append(enc, encBinaryString(q.Op)...)
		enc = append(enc, encBinaryString(q.Arg1)...)
		enc = append(enc, encBinaryBool(q.HasArg1)...)
		enc = append(enc, encBinaryString(q.Arg2)...)
		enc = append(enc, encBinaryBool(q.HasArg2)...)
		enc = append(enc, encBinaryString(q.Result)...)
		enc = append(enc, encBinaryBool(q.HasResult)...)
		enc = append(enc, encBinaryString(q.Kind)...)
		enc = append(enc, encBinaryInt(q.Line)...)
	}
	return enc
}

// encodeMetrics writes every Metrics counter, with CompilationTime truncated
// to whole microseconds. Metrics.OptimizationLog is not written here; the
// log is encoded once, as Report.OptimizationLog.
func encodeMetrics(m report.Metrics) []byte {
	var enc []byte
	enc = append(enc, encBinaryInt(int(m.CompilationTime*1e6))...) // microseconds
	enc = append(enc, encBinaryInt(m.TokensCount)...)
	enc = append(enc, encBinaryInt(m.ASTNodesCount)...)
	enc = append(enc, encBinaryInt(m.SymbolsCount)...)
	enc = append(enc, encBinaryInt(m.QuadruplesCount)...)
	enc = append(enc, encBinaryInt(m.TemporalsCount)...)
	enc = append(enc, encBinaryInt(m.ErrorsCount)...)
	enc = append(enc, encBinaryInt(m.WarningsCount)...)
	enc = append(enc, encBinaryInt(m.OptimizationsApplied)...)
	return enc
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *Report) UnmarshalBinary(data []byte) error {
	var n int
	var err error

	if s.Success, n, err = decBinaryBool(data); err != nil {
		return fmt.Errorf("success: %w", err)
	}
	data = data[n:]

	var tokenCount int
	if tokenCount, n, err = decBinaryInt(data); err != nil {
		return fmt.Errorf("token count: %w", err)
	}
	data = data[n:]

	s.Tokens = make([]TokenEntry, 0, tokenCount)
	for i := 0; i < tokenCount; i++ {
		var t TokenEntry
		if t.Kind, n, err = decBinaryString(data); err != nil {
			return fmt.Errorf("token %d kind: %w", i, err)
		}
		data = data[n:]
		if t.Lexeme, n, err = decBinaryString(data); err != nil {
			return fmt.Errorf("token %d lexeme: %w", i, err)
		}
		data = data[n:]
		if t.Line, n, err = decBinaryInt(data); err != nil {
			return fmt.Errorf("token %d line: %w", i, err)
		}
		data = data[n:]
		if t.Column, n, err = decBinaryInt(data); err != nil {
			return fmt.Errorf("token %d column: %w", i, err)
		}
		data = data[n:]
		s.Tokens = append(s.Tokens, t)
	}

	if s.Errors, data, err = decodeDiagnostics(data); err != nil {
		return fmt.Errorf("errors: %w", err)
	}
	if s.Warnings, data, err = decodeDiagnostics(data); err != nil {
		return fmt.Errorf("warnings: %w", err)
	}

	if s.Quadruples, data, err = decodeQuadruples(data); err != nil {
		return fmt.Errorf("quadruples: %w", err)
	}
	if s.HasOptimizedCode, n, err = decBinaryBool(data); err != nil {
		return fmt.Errorf("has optimized code: %w", err)
	}
	data = data[n:]
	if s.OptimizedQuadruples, data, err = decodeQuadruples(data); err != nil {
		return fmt.Errorf("optimized quadruples: %w", err)
	}

	if s.ObjectCode, n, err = decBinaryString(data); err != nil {
		return fmt.Errorf("object code: %w", err)
	}
	data = data[n:]

	var logCount int
	if logCount, n, err = decBinaryInt(data); err != nil {
		return fmt.Errorf("optimization log count: %w", err)
	}
	data = data[n:]
	s.OptimizationLog = make([]string, 0, logCount)
	for i := 0; i < logCount; i++ {
		var entry string
		if entry, n, err = decBinaryString(data); err != nil {
			return fmt.Errorf("optimization log %d: %w", i, err)
		}
		data = data[n:]
		s.OptimizationLog = append(s.OptimizationLog, entry)
	}

	if s.Metrics, _, err = decodeMetrics(data); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	return nil
}

func decodeDiagnostics(data []byte) ([]Diagnostic, []byte, error) {
	count, n, err := decBinaryInt(data)
	if err != nil {
		return nil, data, err
	}
	data = data[n:]

	diags := make([]Diagnostic, 0, count)
	for i := 0; i < count; i++ {
		var d Diagnostic
		if d.Kind, n, err = decBinaryString(data); err != nil {
			return nil, data, fmt.Errorf("entry %d kind: %w", i, err)
		}
		data = data[n:]
		if d.Message, n, err = decBinaryString(data); err != nil {
			return nil, data, fmt.Errorf("entry %d message: %w", i, err)
		}
		data = data[n:]
		if d.Line, n, err = decBinaryInt(data); err != nil {
			return nil, data, fmt.Errorf("entry %d line: %w", i, err)
		}
		data = data[n:]
		if d.Column, n, err = decBinaryInt(data); err != nil {
			return nil, data, fmt.Errorf("entry %d column: %w", i, err)
		}
		data = data[n:]
		if d.HasColumn, n, err = decBinaryBool(data); err != nil {
			return nil, data, fmt.Errorf("entry %d has-column: %w", i, err)
		}
		data = data[n:]
		diags = append(diags, d)
	}
	return diags, data, nil
}

func decodeQuadruples(data []byte) ([]QuadrupleEntry, []byte, error) {
	count, n, err := decBinaryInt(data)
	if err != nil {
		return nil, data, err
	}
	data = data[n:]

	quads := make([]QuadrupleEntry, 0, count)
	for i := 0; i < count; i++ {
		var q QuadrupleEntry
		if q.Index, n, err = decBinaryInt(data); err != nil {
			return nil, data, fmt.Errorf("quad %d index: %w", i, err)
		}
		data = data[n:]
		if q.Op, n, err = decBinaryString(data); err != nil {
			return nil, data, fmt.Errorf("quad %d op: %w", i, err)
		}
		data = data[n:]
		if q.Arg1, n, err = decBinaryString(data); err != nil {
			return nil, data, fmt.Errorf("quad %d arg1: %w", i, err)
		}
		data = data[n:]
		if q.HasArg1, n, err = decBinaryBool(data); err != nil {
			return nil, data, fmt.Errorf("quad %d has-arg1: %w", i, err)
		}
		data = data[n:]
		if q.Arg2, n, err = decBinaryString(data); err != nil {
			return nil, data, fmt.Errorf("quad %d arg2: %w", i, err)
		}
		data = data[n:]
		if q.HasArg2, n, err = decBinaryBool(data); err != nil {
			return nil, data, fmt.Errorf("quad %d has-arg2: %w", i, err)
		}
		data = data[n:]
		if q.Result, n, err = decBinaryString(data); err != nil {
			return nil, data, fmt.Errorf("quad %d result: %w", i, err)
		}
		data = data[n:]
		if q.HasResult, n, err = decBinaryBool(data); err != nil {
			return nil, data, fmt.Errorf("quad %d has-result: %w", i, err)
		}
		data = data[n:]
		if q.Kind, n, err = decBinaryString(data); err != nil {
			return nil, data, fmt.Errorf("quad %d kind: %w", i, err)
		}
		data = data[n:]
		if q.Line, n, err = decBinaryInt(data); err != nil {
			return nil, data, fmt.Errorf("quad %d line: %w", i, err)
		}
		data = data[n:]
		quads = append(quads, q)
	}
	return quads, data, nil
}

func decodeMetrics(data []byte) (report.Metrics, int, error) {
	var m report.Metrics
	total := 0

	fields := []*int{}
	var compileMicros, tokens, astNodes, symbolsCount, quadCount, temporals, errs, warns, opts int
	fields = append(fields, &compileMicros, &tokens, &astNodes, &symbolsCount, &quadCount, &temporals, &errs, &warns, &opts)

	for _, f := range fields {
		v, n, err := decBinaryInt(data)
		if err != nil {
			return m, total, err
		}
		*f = v
		data = data[n:]
		total += n
	}

	m.CompilationTime = float64(compileMicros) / 1e6
	m.TokensCount = tokens
	m.ASTNodesCount = astNodes
	m.SymbolsCount = symbolsCount
	m.QuadruplesCount = quadCount
	m.TemporalsCount = temporals
	m.ErrorsCount = errs
	m.WarningsCount = warns
	m.OptimizationsApplied = opts

	return m, total, nil
}

// The encBinary*/decBinary* pair below follows
// internal/tunascript/binary.go's length-prefixed convention exactly: an
// 8-byte varint-encoded count precedes every string's UTF-8 bytes, and
// every int is itself an 8-byte varint slot.

func encBinaryBool(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}

func encBinaryString(s string) []byte {
	enc := make([]byte, 0, len(s))
	chCount := 0
	for _, ch := range s {
		chBuf := make([]byte, utf8.UTFMax)
		byteLen := utf8.EncodeRune(chBuf, ch)
		enc = append(enc, chBuf[:byteLen]...)
		chCount++
	}
	return append(encBinaryInt(chCount), enc...)
}

func encBinaryInt(i int) []byte {
	enc := make([]byte, 8)
	binary.PutVarint(enc, int64(i))
	return enc
}

func decBinaryBool(data []byte) (bool, int, error) {
	if len(data) < 1 {
		return false, 0, fmt.Errorf("unexpected end of data")
	}
	switch data[0] {
	case 0:
		return false, 1, nil
	case 1:
		return true, 1, nil
	default:
		return false, 0, fmt.Errorf("unknown non-bool value")
	}
}

func decBinaryInt(data []byte) (int, int, error) {
	if len(data) < 8 {
		return 0, 0, fmt.Errorf("data does not contain 8 bytes")
	}
	val, read := binary.Varint(data[:8])
	if read == 0 {
		return 0, 0, fmt.Errorf("input buffer too small, should never happen")
	} else if read < 0 {
		return 0, 0, fmt.Errorf("input buffer contains value larger than 64 bits")
	}
	return int(val), 8, nil
}

func decBinaryString(data []byte) (string, int, error) {
	if len(data) < 8 {
		return "", 0, fmt.Errorf("unexpected end of data")
	}
	runeCount, _, err := decBinaryInt(data)
	if err != nil {
		return "", 0, fmt.Errorf("decoding string rune count: %w", err)
	}
	data = data[8:]
	if runeCount < 0 {
		return "", 0, fmt.Errorf("string rune count < 0")
	}

	readBytes := 8
	var runes []rune
	for i := 0; i < runeCount; i++ {
		ch, bytesRead := utf8.DecodeRune(data)
		if ch == utf8.RuneError {
			if bytesRead == 0 {
				return "", 0, fmt.Errorf("unexpected end of data in string")
			} else if bytesRead == 1 {
				return "", 0, fmt.Errorf("invalid UTF-8 encoding in string")
			}
			return "", 0, fmt.Errorf("invalid unicode replacement character in rune")
		}
		runes = append(runes, ch)
		readBytes += bytesRead
		data = data[bytesRead:]
	}

	return string(runes), readBytes, nil
}
