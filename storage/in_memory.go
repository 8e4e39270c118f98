package storage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// InMemoryClient is a process-local Client implementation for tests and
// single-process demos. Buckets and objects live in nested maps guarded by an
// RWMutex; uploaded buffers are copied on save.
type InMemoryClient struct {
	mu      sync.RWMutex
	objects map[string]map[string][]byte // bucket -> key -> data
	created map[string]time.Time
}

// NewInMemoryClient returns an empty in-memory storage client with the given
// pre-created buckets.
func NewInMemoryClient(buckets ...string) *InMemoryClient {
	c := &InMemoryClient{
		objects: make(map[string]map[string][]byte),
		created: make(map[string]time.Time),
	}
	for _, b := range buckets {
		c.objects[b] = make(map[string][]byte)
		c.created[b] = time.Now().UTC()
	}
	return c
}

// ListBuckets returns the known buckets.
func (c *InMemoryClient) ListBuckets(ctx context.Context) ([]Bucket, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	buckets := make([]Bucket, 0, len(c.objects))
	for name := range c.objects {
		buckets = append(buckets, Bucket{Name: name, Created: c.created[name]})
	}
	return buckets, nil
}

// UploadBuffer stores a copy of the buffer. Unknown buckets fail, matching
// the remote service's behavior.
func (c *InMemoryClient) UploadBuffer(ctx context.Context, in UploadInput) (FileInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	bucket, ok := c.objects[in.Bucket]
	if !ok {
		return FileInfo{}, fmt.Errorf("bucket %q does not exist", in.Bucket)
	}
	key := ObjectKey(in.FolderPath, in.FileName)
	cp := make([]byte, len(in.Buffer))
	copy(cp, in.Buffer)
	bucket[key] = cp

	info := FileInfo{Key: key}
	if in.GenerateURL {
		info.URL = fmt.Sprintf("memory://%s/%s", in.Bucket, key)
	}
	return info, nil
}

// Object returns the stored bytes for a bucket/key pair, if present.
func (c *InMemoryClient) Object(bucket, key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.objects[bucket][key]
	if !ok {
		return nil, false
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, true
}
