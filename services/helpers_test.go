// services/helpers_test.go
package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/rankscope/rankscope-backend/internal/database"
	"github.com/rankscope/rankscope-backend/internal/logger"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// testRepoManager returns a manager whose repos the test fills in. The
// embedded client carries no live connection, so any fake that actually
// touches the Querier is a test bug.
func testRepoManager() *RepositoryManager {
	return &RepositoryManager{db: &database.Client{}}
}

// stubProvider is a scripted AIProvider for gateway and batch tests.
type stubProvider struct {
	name        string
	model       string
	temperature float64
	fetch       func(ctx context.Context, prompt string) (*FetchResult, error)
	calls       int
}

func (p *stubProvider) Name() string         { return p.name }
func (p *stubProvider) Model() string        { return p.model }
func (p *stubProvider) Temperature() float64 { return p.temperature }

func (p *stubProvider) Fetch(ctx context.Context, prompt string) (*FetchResult, error) {
	p.calls++
	return p.fetch(ctx, prompt)
}
