package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/repository"
	"github.com/inkpress/inkpress/internal/storage"
)

// MockUserRepository is an in-memory implementation of
// repository.UserRepository.
type MockUserRepository struct {
	mu        sync.Mutex
	users     map[string]*domain.User // keyed by ID
	createErr error
	getErr    error
	updateErr error
	listErr   error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if u, ok := m.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	for _, u := range m.users {
		if u.ID != user.ID && u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	user.UpdatedAt = time.Now().UTC()
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *MockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		clone := *u
		result = append(result, &clone)
	}
	// Newest first, matching the real repositories.
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			if result[j].CreatedAt.After(result[i].CreatedAt) {
				result[i], result[j] = result[j], result[i]
			}
		}
	}
	return result, nil
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return false, m.getErr
	}
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// MockBlogRepository is an in-memory implementation of
// repository.BlogRepository.
type MockBlogRepository struct {
	mu        sync.Mutex
	blogs     map[string]*domain.Blog
	createErr error
	getErr    error
	deleteErr error
}

func NewMockBlogRepository() *MockBlogRepository {
	return &MockBlogRepository{blogs: make(map[string]*domain.Blog)}
}

func (m *MockBlogRepository) Create(ctx context.Context, blog *domain.Blog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	clone := *blog
	m.blogs[blog.ID] = &clone
	return nil
}

func (m *MockBlogRepository) GetByID(ctx context.Context, id string) (*domain.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if b, ok := m.blogs[id]; ok {
		clone := *b
		return &clone, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MockBlogRepository) List(ctx context.Context) ([]*domain.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Blog, 0, len(m.blogs))
	for _, b := range m.blogs {
		clone := *b
		result = append(result, &clone)
	}
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			if result[j].CreatedAt.After(result[i].CreatedAt) {
				result[i], result[j] = result[j], result[i]
			}
		}
	}
	return result, nil
}

func (m *MockBlogRepository) Update(ctx context.Context, blog *domain.Blog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blogs[blog.ID]; !ok {
		return repository.ErrNotFound
	}
	blog.UpdatedAt = time.Now().UTC()
	clone := *blog
	m.blogs[blog.ID] = &clone
	return nil
}

func (m *MockBlogRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.blogs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.blogs, id)
	return nil
}

// MockStorage is an in-memory implementation of storage.Backend that
// records saved and removed blobs.
type MockStorage struct {
	mu      sync.Mutex
	saved   map[string][]byte
	removed []string
	nextID  int
	saveErr error
}

func NewMockStorage() *MockStorage {
	return &MockStorage{saved: make(map[string][]byte)}
}

func (m *MockStorage) Save(ctx context.Context, category storage.Category, originalFilename string, reader io.Reader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return "", m.saveErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	m.nextID++
	path := fmt.Sprintf("/uploads/%s/%s-%d", category.Dir, category.Prefix, m.nextID)
	m.saved[path] = data
	return path, nil
}

func (m *MockStorage) Remove(ctx context.Context, publicPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.saved[publicPath]; !ok {
		return storage.ErrBlobNotFound
	}
	delete(m.saved, publicPath)
	m.removed = append(m.removed, publicPath)
	return nil
}

func (m *MockStorage) Has(publicPath string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.saved[publicPath]
	return ok
}
