package evaluator

import (
	"fmt"

	"github.com/funvibe/yinyang/internal/pipeline"
)

// EvaluatorProcessor evaluates ctx.Forms in order and stores the last value in
// ctx.Result. ctx.Env must hold an *Environment; a fresh empty one is used
// otherwise and left in ctx.Env.
type EvaluatorProcessor struct {
	Evaluator *Evaluator
}

func (ep *EvaluatorProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Failed() {
		return ctx
	}

	env, ok := ctx.Env.(*Environment)
	if !ok || env == nil {
		env = NewEnvironment()
		ctx.Env = env
	}
	eval := ep.Evaluator
	if eval == nil {
		eval = New()
	}

	result, err := eval.EvalForms(ctx.Forms, env)
	if err != nil {
		if ctx.FilePath != "" {
			err = fmt.Errorf("%s: %w", ctx.FilePath, err)
		}
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Result = result
	return ctx
}
