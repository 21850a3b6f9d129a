package cache

import (
	"fmt"

	"bennypowers.dev/cssvar/internal/config"
	"bennypowers.dev/cssvar/internal/dialect"
	"bennypowers.dev/cssvar/internal/usage"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DiagnosticSource names the producer of diagnostics
const DiagnosticSource = "cssvar"

// Diagnose reports var() references in a document to variables the root does
// not declare. References with a fallback and ignored names are skipped.
// A root without any variables gets no diagnostics, since that usually means
// indexing failed rather than that every reference is wrong.
func (idx *Index) Diagnose(root string, d dialect.Dialect, content string) []protocol.Diagnostic {
	st := idx.state(root)
	if st == nil || len(st.indices.Properties) == 0 || st.config.Mode.Level == config.ModeOff {
		return nil
	}

	severity := protocol.DiagnosticSeverityWarning
	if st.config.Mode.Level == config.ModeError {
		severity = protocol.DiagnosticSeverityError
	}
	source := DiagnosticSource

	var diagnostics []protocol.Diagnostic
	for _, ref := range usage.Scan(d, content) {
		if ref.HasFallback || st.ignore.Match(ref.Name) {
			continue
		}
		if _, ok := st.indices.Properties[ref.Name]; ok {
			continue
		}
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    ref.Range,
			Severity: &severity,
			Source:   &source,
			Message:  fmt.Sprintf("Cannot find cssvar %s.", ref.Name),
		})
	}
	return diagnostics
}
