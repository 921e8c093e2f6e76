package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"studioworks/internal/config"
	"studioworks/internal/domain"
)

func TestOpenTestMigratesEveryTable(t *testing.T) {
	conn := OpenTest(t)

	for _, table := range []string{
		domain.TableUsers,
		domain.TableAdminUsers,
		domain.TableBlogPosts,
		domain.TablePortfolio,
		domain.TableProjects,
		domain.TableTeamMembers,
		domain.TableContactSubmissions,
	} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}
	require.NoError(t, Ping(context.Background(), conn))

	stats, err := Stats(conn)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
}

func TestInitAndClose(t *testing.T) {
	url := "sqlite:///" + filepath.Join(t.TempDir(), "site.db")

	require.NoError(t, Init(&config.DatabaseConfig{URL: url}, zap.NewNop()))
	assert.NotNil(t, GetDB())
	assert.True(t, GetDB().Migrator().HasTable(domain.TableBlogPosts))
	require.NoError(t, Close())
}
