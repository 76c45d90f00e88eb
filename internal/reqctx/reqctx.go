package reqctx

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"
)

type key int

const runKey key = 0

// RunContext carries the identity and start time of one cascade run so log
// lines from different concurrent cascades can be told apart.
type RunContext struct {
	RunID     string
	StartTime time.Time
}

// WithRun attaches a fresh run identity to ctx.
func WithRun(ctx context.Context) context.Context {
	return context.WithValue(ctx, runKey, &RunContext{
		RunID:     generateID(),
		StartTime: time.Now(),
	})
}

// Run returns the run identity stored in ctx, or a placeholder.
func Run(ctx context.Context) *RunContext {
	if rc, ok := ctx.Value(runKey).(*RunContext); ok {
		return rc
	}
	return &RunContext{RunID: "unknown", StartTime: time.Now()}
}

func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
