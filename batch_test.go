package grovedb

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ops.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestInsertFromFile(t *testing.T) {
	t.Parallel()

	tr := setup(t, 4, 4)
	path := writeTempFile(t, "5 3 8\n1 9  2\n7 4 6\n")

	require.NoError(t, tr.InsertFromFile(path))
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9}, checkInvariants(t, tr))

	// The integer doubles as the payload.
	v, found := getInt(t, tr, 7)
	assert.True(t, found)
	assert.Equal(t, uint64(7), v)
}

func TestRemoveFromFile(t *testing.T) {
	t.Parallel()

	tr := setup(t, 4, 4)
	require.NoError(t, tr.InsertFromFile(writeTempFile(t, "1 2 3 4 5 6 7 8")))

	path := writeTempFile(t, "2 4 6 8 100")
	require.NoError(t, tr.RemoveFromFile(path))
	assert.Equal(t, []int64{1, 3, 5, 7}, checkInvariants(t, tr))
}

func TestBatchOpsFromFile(t *testing.T) {
	t.Parallel()

	tr := setup(t, 4, 4)
	path := writeTempFile(t, strings.TrimSpace(`
i 1
i 2
i 3
d 2
i 4
x 9
d 100
`))

	require.NoError(t, tr.BatchOpsFromFile(path))
	assert.Equal(t, []int64{1, 3, 4}, checkInvariants(t, tr))
}

func TestBatchOpsFromFileBadKey(t *testing.T) {
	t.Parallel()

	tr := setup(t, 4, 4)
	path := writeTempFile(t, "i notanumber")
	assert.Error(t, tr.BatchOpsFromFile(path))
}
