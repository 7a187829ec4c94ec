package pipeline

import (
	"github.com/google/uuid"

	"github.com/tylua/tylua/internal/ast"
	"github.com/tylua/tylua/internal/diagnostics"
	"github.com/tylua/tylua/internal/symbols"
	"github.com/tylua/tylua/internal/typesystem"
)

// PipelineContext holds all the data passed between pipeline stages:
// lexer -> parser -> checker, as run by the CLI. The module loader's
// nested checks (checker.CheckSource) call the lexer, parser and
// checker directly and do not use a PipelineContext.
type PipelineContext struct {
	SourceCode  string
	FilePath    string
	TokenStream TokenStream
	AstRoot     *ast.Program
	Scope       *symbols.Scope
	TypeMap     map[ast.Node]typesystem.Type
	Sink        *diagnostics.Sink
	ReturnType  typesystem.Type

	// RunID correlates diagnostic output from a single top-level Check
	// invocation across tools (e.g. an editor plugin matching output to
	// a specific run). Not used by the checker's semantics.
	RunID string

	// Loader is the module resolver/loader, held as interface{} to
	// avoid an import cycle between pipeline and modules.
	Loader interface{}
}

// NewPipelineContext creates and initializes a new PipelineContext.
func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{
		SourceCode: source,
		Scope:      symbols.New(),
		TypeMap:    make(map[ast.Node]typesystem.Type),
		Sink:       diagnostics.NewSink(),
		RunID:      uuid.NewString(),
	}
}
