package pipeline

import "github.com/funvibe/yinyang/internal/edn"

// PipelineContext carries one source unit through the stages.
type PipelineContext struct {
	SourceCode string
	FilePath   string

	Forms []edn.Node // set by the reader stage

	// Env and Result are typed by the evaluator package, which depends on this
	// one. Stages assert them back.
	Env    interface{}
	Result interface{}

	Errors []error
}

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Every stage runs; stages are expected to skip
// their work when an earlier one has recorded errors.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}

// Failed reports whether any stage recorded an error.
func (ctx *PipelineContext) Failed() bool {
	return len(ctx.Errors) > 0
}
