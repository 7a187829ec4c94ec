package checker

import (
	"github.com/tylua/tylua/internal/diagnostics"
	"github.com/tylua/tylua/internal/lexer"
	"github.com/tylua/tylua/internal/modules"
	"github.com/tylua/tylua/internal/parser"
	"github.com/tylua/tylua/internal/pipeline"
	"github.com/tylua/tylua/internal/typesystem"
)

// CheckSource lexes, parses, and checks one module's source from
// scratch, satisfying modules.CheckFunc. Unlike CheckProgram, it emits
// ModuleNotExported when the module has no top-level return, since a
// nested `require` check is the only place that can observe this.
func CheckSource(source, path string, loader *modules.Loader) (typesystem.Type, *diagnostics.Sink) {
	sink := diagnostics.NewSink()

	l := lexer.New(source)
	stream := lexer.NewTokenStream(l)
	p := parser.New(stream, sink)
	program := p.ParseProgram()

	c := New(loader, sink)
	retType, sawReturn := c.CheckProgramResult(program)
	if !sawReturn {
		sink.Error(diagnostics.ModuleNotExported, program.Rng, path)
	}
	return retType, sink
}

// Processor adapts the checker into a pipeline.Processor stage: the
// CLI's terminal stage after lexer.Processor and parser.Processor.
type Processor struct {
	Loader *modules.Loader
}

func (cp *Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil {
		return ctx
	}
	c := New(cp.Loader, ctx.Sink)
	ctx.ReturnType = c.CheckProgram(ctx.AstRoot)
	ctx.Scope = c.scope
	return ctx
}
