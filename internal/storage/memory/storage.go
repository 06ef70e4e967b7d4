// Package memory is an in-process ObjectStorage used with the memory store
// driver and in tests.
package memory

import (
	"context"
	"fmt"
	"io"
	"sync"

	"docrecon/internal/domain"
	"docrecon/internal/port"
)

type object struct {
	data        []byte
	contentType string
}

// Storage keeps objects in a map keyed by bucket and key.
type Storage struct {
	mu      sync.RWMutex
	objects map[string]object
}

// NewStorage creates an empty in-memory ObjectStorage.
func NewStorage() *Storage {
	return &Storage{objects: map[string]object{}}
}

var _ port.ObjectStorage = (*Storage)(nil)

func path(bucket, key string) string {
	return bucket + "/" + key
}

func (s *Storage) Upload(_ context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, fmt.Errorf("memory upload: %w", err)
	}
	s.mu.Lock()
	s.objects[path(input.Bucket, input.Key)] = object{data: data, contentType: input.ContentType}
	s.mu.Unlock()
	return &port.UploadOutput{Location: "mem://" + path(input.Bucket, input.Key)}, nil
}

func (s *Storage) Download(_ context.Context, bucket, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[path(bucket, key)]
	if !ok {
		return nil, fmt.Errorf("memory download %s: %w", key, domain.ErrNotFound)
	}
	out := make([]byte, len(obj.data))
	copy(out, obj.data)
	return out, nil
}

func (s *Storage) Delete(_ context.Context, bucket, key string) error {
	s.mu.Lock()
	delete(s.objects, path(bucket, key))
	s.mu.Unlock()
	return nil
}

func (s *Storage) GetPresignedURL(_ context.Context, bucket, key string, _ int64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.objects[path(bucket, key)]; !ok {
		return "", fmt.Errorf("memory presign %s: %w", key, domain.ErrNotFound)
	}
	return "mem://" + path(bucket, key), nil
}

// Len returns the number of stored objects.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
