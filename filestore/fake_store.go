package filestore

import (
	"io"
	"io/ioutil"
	"sync"

	"github.com/google/uuid"
)

// FakeFileStore is an in-memory FileStore for tests.
type FakeFileStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func NewFakeFileStore() *FakeFileStore {
	return &FakeFileStore{files: map[string][]byte{}}
}

func (f *FakeFileStore) Store(fileName string, body io.Reader) (string, string, error) {
	data, err := ioutil.ReadAll(body)
	if err != nil {
		return "", "", err
	}
	key := uuid.New().String()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[key] = data
	return key, f.GetUrlFromKey(key), nil
}

func (f *FakeFileStore) Delete(keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.files, key)
	}
	return nil
}

func (f *FakeFileStore) GetUrlFromKey(key string) string {
	return "fake://" + key
}

// Exists reports whether a blob is still stored, for cleanup assertions.
func (f *FakeFileStore) Exists(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.files[key]
	return ok
}
