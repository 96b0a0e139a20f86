package sync

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"menu-manager/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewSource(t *testing.T) {
	src, err := NewSource(Config{Source: SourceFile, File: "Menu.xlsx"}, nil, "")
	require.NoError(t, err)
	assert.IsType(t, &FileSource{}, src)

	src, err = NewSource(Config{Source: SourceStorage, Object: "Menu.xlsx"}, &mocks.Client{}, "menus")
	require.NoError(t, err)
	assert.IsType(t, &StorageSource{}, src)

	_, err = NewSource(Config{Source: SourceStorage}, nil, "menus")
	assert.Error(t, err)

	_, err = NewSource(Config{Source: "ftp"}, nil, "")
	assert.Error(t, err)
}

func TestFileSourceLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Menu.xlsx")

	r := buildWorkbook(t, [][]any{
		{"m1", "Drinks", "Cold and hot"},
	})
	raw, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	menus, err := (&FileSource{Path: path}).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, menus, 1)
	assert.Equal(t, "Drinks", menus[0].Title)
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := (&FileSource{Path: filepath.Join(t.TempDir(), "absent.xlsx")}).Load(context.Background())
	assert.Error(t, err)
}

func TestStorageSourceLoad(t *testing.T) {
	r := buildWorkbook(t, [][]any{
		{"m1", "Drinks", "Cold and hot"},
	})

	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "menus").Return(true, nil)
	client.On("GetObject", mock.Anything, "menus", "Menu.xlsx", minio.GetObjectOptions{}).
		Return(io.NopCloser(r), nil)

	src := &StorageSource{Client: client, Bucket: "menus", Object: "Menu.xlsx"}
	menus, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, menus, 1)
	assert.Equal(t, "m1", menus[0].ID)
	client.AssertExpectations(t)
}

func TestStorageSourceMissingBucket(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "menus").Return(false, nil)

	src := &StorageSource{Client: client, Bucket: "menus", Object: "Menu.xlsx"}
	_, err := src.Load(context.Background())
	assert.Error(t, err)
	client.AssertExpectations(t)
}

func TestStorageSourceBucketCheckFails(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "menus").Return(false, errors.New("connection refused"))

	src := &StorageSource{Client: client, Bucket: "menus", Object: "Menu.xlsx"}
	_, err := src.Load(context.Background())
	assert.Error(t, err)
}
