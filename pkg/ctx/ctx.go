package ctx

import (
	"context"

	"go.uber.org/zap"
)

// Context carries the process-wide context and logger through the app.
type Context struct {
	Ctx context.Context
	Log *zap.SugaredLogger
}

func NewContext(ctx context.Context, log *zap.SugaredLogger) *Context {
	return &Context{
		Ctx: ctx,
		Log: log,
	}
}

func (c *Context) GetCtx() context.Context {
	return c.Ctx
}
