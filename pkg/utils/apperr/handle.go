package apperr

import (
	"context"

	"github.com/m-mizutani/ctxlog"
)

// Handle logs an error that does not stop processing, such as a skipped
// submission
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}
	ctxlog.From(ctx).Warn("record skipped", "error", err)
}

// Report logs an error that aborted the command
func Report(ctx context.Context, err error) {
	ctxlog.From(ctx).Error("command failed", "error", err)
}
