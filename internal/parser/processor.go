package parser

import "github.com/tylua/tylua/internal/pipeline"

// Processor adapts the parser into a pipeline.Processor stage.
type Processor struct{}

func (pp *Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.TokenStream == nil {
		return ctx
	}
	parser := New(ctx.TokenStream, ctx.Sink)
	ctx.AstRoot = parser.ParseProgram()
	return ctx
}
