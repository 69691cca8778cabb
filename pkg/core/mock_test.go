package core

import (
	"bytes"
	"context"
	"io"
	"io/ioutil"
	"sort"
	"sync"

	"github.com/oneconcern/buildsync/pkg/storage"
)

// mockStore is an in-memory remote store recording every call, with
// injectable failures.
type mockStore struct {
	mu      sync.Mutex
	objects map[string]mockObject

	hasErr    map[string][]error // per-key error queue for Has
	putErr    map[string][]error // per-key error queue for Put
	authErr   error              // returned by every Has when set
	hasCalls  []string
	putCalls  []string
}

type mockObject struct {
	data     []byte
	settings storage.PutSettings
}

func newMockStore() *mockStore {
	return &mockStore{
		objects: map[string]mockObject{},
		hasErr:  map[string][]error{},
		putErr:  map[string][]error{},
	}
}

func (m *mockStore) seed(key, content string) {
	m.objects[key] = mockObject{data: []byte(content)}
}

func (m *mockStore) failHas(key string, errs ...error) {
	m.hasErr[key] = append(m.hasErr[key], errs...)
}

func (m *mockStore) failPut(key string, errs ...error) {
	m.putErr[key] = append(m.putErr[key], errs...)
}

func (m *mockStore) String() string { return "mock" }

func (m *mockStore) Has(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hasCalls = append(m.hasCalls, key)
	if m.authErr != nil {
		return false, m.authErr
	}
	if q := m.hasErr[key]; len(q) > 0 {
		err := q[0]
		m.hasErr[key] = q[1:]
		return false, err
	}
	_, ok := m.objects[key]
	return ok, nil
}

func (m *mockStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, io.EOF
	}
	return ioutil.NopCloser(bytes.NewReader(obj.data)), nil
}

func (m *mockStore) Put(_ context.Context, key string, rdr io.Reader, settings storage.PutSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls = append(m.putCalls, key)
	if q := m.putErr[key]; len(q) > 0 {
		err := q[0]
		m.putErr[key] = q[1:]
		return err
	}
	b, err := ioutil.ReadAll(rdr)
	if err != nil {
		return err
	}
	m.objects[key] = mockObject{data: b, settings: settings}
	return nil
}

func (m *mockStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *mockStore) Keys(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *mockStore) uploads() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.putCalls))
	copy(out, m.putCalls)
	return out
}
