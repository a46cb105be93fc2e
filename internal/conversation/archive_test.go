package conversation

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nexacred/ragengine/internal/config"
)

func testConversationConfig(dir string) config.ConversationConfig {
	return config.ConversationConfig{
		StorageDir:       dir,
		MaxHistory:       10,
		MaxContextLength: 2000,
	}
}

func TestArchiveRecordAndList(t *testing.T) {
	a := NewArchive(filepath.Join(t.TempDir(), "archive.db"))
	defer a.Close()

	now := time.Now().UTC()
	a.Record("s1", RoleUser, "hello", now)
	a.Record("s1", RoleAssistant, "hi there", now.Add(time.Second))
	a.Record("s2", RoleUser, "unrelated", now)

	msgs, err := a.Messages("s1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, RoleUser, msgs[0].Role)
	require.Equal(t, "hi there", msgs[1].Content)

	n, err := a.Count()
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestArchiveDeleteBefore(t *testing.T) {
	a := NewArchive(filepath.Join(t.TempDir(), "archive.db"))
	defer a.Close()

	old := time.Now().UTC().Add(-48 * time.Hour)
	a.Record("s1", RoleUser, "stale", old)
	a.Record("s1", RoleUser, "fresh", time.Now().UTC())

	a.DeleteBefore(time.Now().UTC().Add(-24 * time.Hour))

	n, err := a.Count()
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestArchiveSurvivesStoreCleanup(t *testing.T) {
	dir := t.TempDir()
	a := NewArchive(filepath.Join(dir, "archive.db"))
	defer a.Close()

	s, err := NewStore(testConversationConfig(dir), a)
	require.NoError(t, err)

	id, _ := s.Create("u")
	require.NoError(t, s.Append(id, RoleUser, "kept in archive", nil))

	msgs, err := a.Messages(id)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "kept in archive", msgs[0].Content)
}
