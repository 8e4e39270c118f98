package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orcastack/dummy-agent/core"
)

// Interface compliance (compile-time assertions)
var (
	_ Client = (*S3Client)(nil)
	_ Client = (*InMemoryClient)(nil)
)

func TestObjectKey(t *testing.T) {
	cases := []struct {
		folder   string
		file     string
		expected string
	}{
		{"", "file.txt", "file.txt"},
		{"folder", "file.txt", "folder/file.txt"},
		{"folder/", "file.txt", "folder/file.txt"},
		{"a/b/", "c.txt", "a/b/c.txt"},
		{"./folder", "file.txt", "folder/file.txt"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.expected, ObjectKey(tc.folder, tc.file), "folder=%q file=%q", tc.folder, tc.file)
	}
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{})
	require.Error(t, err)
	se, ok := core.AsError(err)
	require.True(t, ok)
	assert.Equal(t, core.ErrConfiguration, se.Kind)
	assert.Equal(t, "STORAGE_CREDENTIALS", se.Code)
}

func TestInMemoryClient_ListBuckets(t *testing.T) {
	c := NewInMemoryClient("alpha", "beta")
	buckets, err := c.ListBuckets(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	names := map[string]bool{}
	for _, b := range buckets {
		names[b.Name] = true
		assert.False(t, b.Created.IsZero())
	}
	assert.True(t, names["alpha"] && names["beta"])
}

func TestInMemoryClient_UploadBuffer(t *testing.T) {
	c := NewInMemoryClient("bucket")

	info, err := c.UploadBuffer(context.Background(), UploadInput{
		Bucket:      "bucket",
		FileName:    "hello.txt",
		Buffer:      []byte("payload"),
		FolderPath:  "demo/",
		GenerateURL: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "demo/hello.txt", info.Key)
	assert.Equal(t, "memory://bucket/demo/hello.txt", info.URL)

	data, ok := c.Object("bucket", "demo/hello.txt")
	require.True(t, ok)
	assert.Equal(t, "payload", string(data))
}

func TestInMemoryClient_UploadUnknownBucketFails(t *testing.T) {
	c := NewInMemoryClient()
	_, err := c.UploadBuffer(context.Background(), UploadInput{Bucket: "missing", FileName: "f.txt"})
	assert.Error(t, err)
}

func TestInMemoryClient_UploadCopiesBuffer(t *testing.T) {
	c := NewInMemoryClient("bucket")
	buf := []byte("original")
	_, err := c.UploadBuffer(context.Background(), UploadInput{Bucket: "bucket", FileName: "f.txt", Buffer: buf})
	require.NoError(t, err)

	buf[0] = 'X'
	data, ok := c.Object("bucket", "f.txt")
	require.True(t, ok)
	assert.Equal(t, "original", string(data))
}
