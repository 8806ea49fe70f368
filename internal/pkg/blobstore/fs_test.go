package blobstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSStoreSaveLoad(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFSStore(dir)
	require.NoError(t, err)

	path, err := store.Save(context.Background(), "contract_AV-20260827-ABCD1234.docx", []byte("document body"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "contract_AV-20260827-ABCD1234.docx"), path)

	data, err := store.Load(context.Background(), "contract_AV-20260827-ABCD1234.docx")
	require.NoError(t, err)
	assert.Equal(t, "document body", string(data))
}

func TestFSStoreLoadMissing(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "contract_missing.docx")
	assert.Error(t, err)
}

func TestFSStoreStripsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFSStore(dir)
	require.NoError(t, err)

	path, err := store.Save(context.Background(), "../../etc/contract.docx", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "contract.docx"), path)
}
