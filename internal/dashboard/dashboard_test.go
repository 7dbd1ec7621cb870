package dashboard

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jasminek987/WageFlowApp/internal/payroll"
	"github.com/jasminek987/WageFlowApp/internal/session"
)

// memStorage keeps the session in memory for controller tests.
type memStorage struct {
	rec session.Record
}

func (m *memStorage) Load(ctx context.Context) (session.Record, error) { return m.rec, nil }

func (m *memStorage) Save(ctx context.Context, rec session.Record) error {
	m.rec = rec
	return nil
}

func (m *memStorage) Clear(ctx context.Context) error {
	m.rec = session.Record{}
	return nil
}

func newSessionStore(t *testing.T, token string, role payroll.Role) *session.Store {
	t.Helper()
	store, err := session.NewStore(context.Background(), &memStorage{rec: session.Record{Token: token, Role: role}})
	require.NoError(t, err)
	return store
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
