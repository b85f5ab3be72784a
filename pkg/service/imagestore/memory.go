package imagestore

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/snapnote-lab/snapnote/pkg/domain/interfaces"
)

type object struct {
	mimeType string
	data     []byte
}

// Memory keeps images in process memory for development and tests.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]object
}

var _ interfaces.ImageStore = &Memory{}

func NewMemory() *Memory {
	return &Memory{
		objects: make(map[string]object),
	}
}

func (m *Memory) Put(_ context.Context, key string, mimeType string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	m.objects[key] = object{mimeType: mimeType, data: stored}
	return nil
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[key]
	if !ok {
		return nil, "", goerr.Wrap(ErrNotFound, "no object for key", goerr.V("key", key))
	}

	data := make([]byte, len(obj.data))
	copy(data, obj.data)
	return data, obj.mimeType, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objects, key)
	return nil
}
