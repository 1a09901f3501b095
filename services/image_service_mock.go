package services

import (
	"fmt"
	"sync"
)

// MockImageService is a mock implementation of ImageService for testing
type MockImageService struct {
	deletedKeys []string
	failURLs    bool
	mu          sync.RWMutex
}

// NewMockImageService creates a new mock image service
func NewMockImageService() *MockImageService {
	return &MockImageService{}
}

// SetAsMockForTesting sets this mock as the global image service instance
func (m *MockImageService) SetAsMockForTesting() {
	SetImageService(m)
}

// FailURLGeneration makes subsequent GetImageURL calls return an error
func (m *MockImageService) FailURLGeneration() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failURLs = true
}

// GetImageURL returns a deterministic fake URL for the given key
func (m *MockImageService) GetImageURL(imageKey string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failURLs {
		return "", fmt.Errorf("mock image service failure")
	}
	if imageKey == "" {
		return "", nil
	}
	return fmt.Sprintf("https://images.test/%s", imageKey), nil
}

// DeleteImage records the deletion
func (m *MockImageService) DeleteImage(imageKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletedKeys = append(m.deletedKeys, imageKey)
	return nil
}

// DeletedKeys returns the keys deleted through this mock
func (m *MockImageService) DeletedKeys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, len(m.deletedKeys))
	copy(keys, m.deletedKeys)
	return keys
}
