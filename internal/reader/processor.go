package reader

import (
	"fmt"
	"log/slog"

	"github.com/funvibe/yinyang/internal/pipeline"
)

// ReaderProcessor parses ctx.SourceCode into ctx.Forms.
type ReaderProcessor struct {
	Logger *slog.Logger
}

func (rp *ReaderProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Failed() {
		return ctx
	}
	forms, err := ReadAll(ctx.SourceCode)
	if err != nil {
		if ctx.FilePath != "" {
			err = fmt.Errorf("%s: %w", ctx.FilePath, err)
		}
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Forms = forms
	if rp.Logger != nil {
		rp.Logger.Debug("read source", "file", ctx.FilePath, "forms", len(forms))
	}
	return ctx
}
