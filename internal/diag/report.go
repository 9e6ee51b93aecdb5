package diag

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sunholo/tycore/internal/ir"
)

// schemaVersion tags every Report so downstream consumers can evolve the
// wire shape without breaking older readers.
const schemaVersion = "tycore.diagnostic/v1"

// Annotation is a secondary source range attached to a Report, e.g. pointing
// at a conflicting declaration's own site.
type Annotation struct {
	Span    ir.Span `json:"span"`
	Message string  `json:"message"`
}

// Report is the canonical structured diagnostic record produced by every
// component of the core. Rendering is external: this is data, not text.
type Report struct {
	Schema      string         `json:"schema"`
	Code        Code           `json:"code"`
	Severity    Severity       `json:"severity"`
	Message     string         `json:"message"`
	Span        ir.Span        `json:"span"`
	Secondary   []Annotation   `json:"secondary,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
}

// New builds a Report at the default severity for its code.
func New(code Code, span ir.Span, message string) *Report {
	sev := SeverityError
	if info, ok := GetCodeInfo(code); ok {
		sev = info.Default
	}
	return &Report{
		Schema:   schemaVersion,
		Code:     code,
		Severity: sev,
		Message:  message,
		Span:     span,
		Data:     map[string]any{},
	}
}

// WithData attaches a structured data field and returns the report for
// chaining.
func (r *Report) WithData(key string, value any) *Report {
	if r.Data == nil {
		r.Data = map[string]any{}
	}
	r.Data[key] = value
	return r
}

// WithSecondary appends a secondary annotation.
func (r *Report) WithSecondary(span ir.Span, message string) *Report {
	r.Secondary = append(r.Secondary, Annotation{Span: span, Message: message})
	return r
}

// ReportError wraps a Report as an error so it can travel through ordinary
// Go error-handling paths while remaining recoverable via AsReport.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown diagnostic"
	}
	return fmt.Sprintf("%s: %s", e.Rep.Code, e.Rep.Message)
}

// Wrap turns a Report into an error.
func Wrap(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// AsReport extracts a Report from an error chain, if any link in the chain
// is a *ReportError.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// ToJSON renders the report as deterministic JSON.
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Bag collects diagnostics produced while answering a single query. It is
// the type every inference result embeds (see internal/typedast).
type Bag struct {
	reports []*Report
}

// Add appends a report to the bag.
func (b *Bag) Add(r *Report) {
	if r == nil {
		return
	}
	b.reports = append(b.reports, r)
}

// Merge appends every report from other into b.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.reports = append(b.reports, other.reports...)
}

// All returns every collected report, in emission order.
func (b *Bag) All() []*Report {
	if b == nil {
		return nil
	}
	return b.reports
}

// Len reports how many diagnostics are in the bag.
func (b *Bag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.reports)
}
