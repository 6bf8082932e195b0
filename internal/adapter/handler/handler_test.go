package handler

import (
	"context"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/stockroom/internal/adapter/storage"
	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/core/service"
)

// newTestSession returns a session over an in-memory store holding
// Milk (P1, 45.50 x10) and Bread (P2, 30.25 x5).
func newTestSession(t *testing.T) *service.Session {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	s := service.NewSession(storage.NewMemoryAdapter(), service.WithLogger(logger))

	ctx := context.Background()
	require.NoError(t, s.Load(ctx))
	_, err := s.AddProduct(ctx, domain.ParseProductInput("Milk", "P1", "45.50", "10", "2", "Beverages"))
	require.NoError(t, err)
	_, err = s.AddProduct(ctx, domain.ParseProductInput("Bread", "P2", "30.25", "5", "1", "Produce"))
	require.NoError(t, err)
	return s
}
