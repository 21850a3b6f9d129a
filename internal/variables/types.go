package variables

import (
	"fmt"
	"strings"
	"time"

	"bennypowers.dev/cssvar/internal/uriutil"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Kind identifies which variable system a declaration belongs to
type Kind int

const (
	// KindCSS is a native custom property (--name)
	KindCSS Kind = iota
	// KindSASS is a Sass variable ($name)
	KindSASS
	// KindLESS is a Less variable (@name)
	KindLESS
)

func (k Kind) String() string {
	switch k {
	case KindSASS:
		return "sass"
	case KindLESS:
		return "less"
	default:
		return "css"
	}
}

// KindOf derives the kind of a variable from its sigil
func KindOf(name string) Kind {
	switch {
	case strings.HasPrefix(name, "$"):
		return KindSASS
	case strings.HasPrefix(name, "@"):
		return KindLESS
	default:
		return KindCSS
	}
}

// Declaration is one variable declaration site.
//
// Identity is (SourceFile, Name, Range); several declarations may share a
// Name, either as duplicates or as theme variants. ResolvedValue and Color
// are filled in by the reference resolver after extraction.
type Declaration struct {
	Kind Kind

	// Name includes the sigil: --brand, $brand, @brand
	Name string

	// RawValue is the value exactly as declared, trimmed
	RawValue string

	// ResolvedValue is RawValue with bare references followed to a terminal
	// value; empty until resolution ran or when RawValue is not a reference
	ResolvedValue string

	// Color is the canonical rgb()/rgba() serialization when the value is a color
	Color string

	// Theme is the matched theme pattern of the enclosing rule, "" for none
	Theme string

	// SourceFile is the absolute path of the declaring file
	SourceFile string

	// Range spans the declaration, zero-based with UTF-16 columns
	Range protocol.Range
}

// Value returns the resolved value when there is one, else the raw value
func (d *Declaration) Value() string {
	if d.ResolvedValue != "" {
		return d.ResolvedValue
	}
	return d.RawValue
}

// IsColor reports whether resolution found a color for this declaration
func (d *Declaration) IsColor() bool {
	return d.Color != ""
}

// Location returns the declaration site as an editor location
func (d *Declaration) Location() protocol.Location {
	return protocol.Location{
		URI:   protocol.DocumentUri(uriutil.PathToURI(d.SourceFile)),
		Range: d.Range,
	}
}

// Detail renders the completion detail line for the declaration
func (d *Declaration) Detail() string {
	detail := "Value: " + d.RawValue
	if d.Theme != "" {
		detail += fmt.Sprintf("\n\nTheme: [%s]", d.Theme)
	}
	return detail
}

// Documentation is the color when there is one, else the effective value
func (d *Declaration) Documentation() string {
	if d.Color != "" {
		return d.Color
	}
	return d.Value()
}

// PropertyIndex collapses a root's declarations to one per name, last wins
type PropertyIndex map[string]*Declaration

// LocationIndex lists every declaration site per name, duplicates included
type LocationIndex map[string][]protocol.Location

// FileMeta records when a tracked file was last parsed
type FileMeta struct {
	Path         string
	LastModified time.Time
}
