package testutil

import (
	"Blogstone/internal/pkg/kafka"
	"context"
	"fmt"
	"strings"
	"sync"
)

// BlobStore 内存对象存储
type BlobStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Deleted []string
	// FailPut 非空时上传返回该错误
	FailPut error
	seq     int
}

func NewBlobStore() *BlobStore {
	return &BlobStore{Objects: map[string][]byte{}}
}

const blobPrefix = "https://blobs.test/blogstone/"

func (s *BlobStore) Put(_ context.Context, data []byte, _, ext string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailPut != nil {
		return "", s.FailPut
	}
	s.seq++
	key := fmt.Sprintf("posts/%d.%s", s.seq, ext)
	s.Objects[key] = data
	return blobPrefix + key, nil
}

func (s *BlobStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Objects, key)
	s.Deleted = append(s.Deleted, key)
	return nil
}

func (s *BlobStore) KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, blobPrefix) {
		return "", false
	}
	return strings.TrimPrefix(url, blobPrefix), true
}

// Producer 记录已发布的事件
type Producer struct {
	mu     sync.Mutex
	Events []*kafka.EngagementEvent
}

func (p *Producer) Publish(_ context.Context, evt *kafka.EngagementEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, evt)
}

func (p *Producer) Close() error { return nil }

// Types 已发布事件类型序列
func (p *Producer) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.Events))
	for i, e := range p.Events {
		types[i] = e.Type
	}
	return types
}
