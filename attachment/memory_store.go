package attachment

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process ObjectStore. It records every call and can be
// told to fail, which makes it the store of choice for tests and local runs.
type MemoryStore struct {
	mu         sync.Mutex
	baseURL    string
	objects    map[string]memoryObject
	calls      []StoreCall
	failStore  map[string]error
	failRemove map[string]error
	now        func() time.Time
}

type memoryObject struct {
	data        []byte
	contentType string
	modified    time.Time
}

// StoreCall is one recorded call. Target is the key for Store and the URL for
// Remove.
type StoreCall struct {
	Op     string
	Target string
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		objects:    make(map[string]memoryObject),
		failStore:  make(map[string]error),
		failRemove: make(map[string]error),
		now:        time.Now,
	}
}

func (s *MemoryStore) URLFor(key string) string {
	return s.baseURL + "/" + key
}

func (s *MemoryStore) Store(ctx context.Context, data []byte, key, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, StoreCall{Op: "store", Target: key})
	if err := ctx.Err(); err != nil {
		return "", err
	}
	for match, err := range s.failStore {
		if strings.Contains(key, match) {
			return "", err
		}
	}

	copied := make([]byte, len(data))
	copy(copied, data)
	s.objects[key] = memoryObject{data: copied, contentType: contentType, modified: s.now()}
	return s.URLFor(key), nil
}

func (s *MemoryStore) Remove(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, StoreCall{Op: "remove", Target: url})
	if err := ctx.Err(); err != nil {
		return err
	}
	if err, ok := s.failRemove[url]; ok {
		return err
	}

	key, err := s.keyFromURL(url)
	if err != nil {
		return err
	}
	delete(s.objects, key)
	return nil
}

func (s *MemoryStore) KeyFromURL(url string) (string, error) {
	return s.keyFromURL(url)
}

func (s *MemoryStore) keyFromURL(url string) (string, error) {
	key, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok || key == "" {
		return "", fmt.Errorf("url %q is not served by this store", url)
	}
	return key, nil
}

func (s *MemoryStore) List(_ context.Context, prefix string) ([]ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []ObjectInfo
	for key, obj := range s.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, ObjectInfo{
				Key:          key,
				URL:          s.URLFor(key),
				Size:         int64(len(obj.data)),
				LastModified: obj.modified,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Get returns the bytes stored behind url.
func (s *MemoryStore) Get(url string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := s.keyFromURL(url)
	if err != nil {
		return nil, false
	}
	obj, ok := s.objects[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), obj.data...), true
}

func (s *MemoryStore) ContentType(url string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := s.keyFromURL(url)
	if err != nil {
		return ""
	}
	return s.objects[key].contentType
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// Put seeds an object without recording a call.
func (s *MemoryStore) Put(key string, data []byte, modified time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memoryObject{data: append([]byte(nil), data...), modified: modified}
	return s.URLFor(key)
}

// FailStore makes every Store whose key contains match fail with err.
func (s *MemoryStore) FailStore(match string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStore[match] = err
}

// FailRemove makes Remove of url fail with err.
func (s *MemoryStore) FailRemove(url string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failRemove[url] = err
}

func (s *MemoryStore) Calls() []StoreCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]StoreCall(nil), s.calls...)
}

func (s *MemoryStore) Removed() []string {
	var urls []string
	for _, c := range s.Calls() {
		if c.Op == "remove" {
			urls = append(urls, c.Target)
		}
	}
	return urls
}

func (s *MemoryStore) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// Ping satisfies the health check of the storage layer.
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
