package services

import (
	"fmt"
	"sync"
)

// MockS3Service is a mock implementation of S3Service for testing
type MockS3Service struct {
	deletedKeys []string
	mu          sync.RWMutex
}

// NewMockS3Service creates a new mock S3 service
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{}
}

// SetAsMockForTesting sets this mock as the global S3 service instance for testing
func (m *MockS3Service) SetAsMockForTesting() {
	SetS3Service(m)
}

// GetPresignedURL returns a deterministic fake URL for the given key
func (m *MockS3Service) GetPresignedURL(s3Key string) (string, error) {
	if s3Key == "" {
		return "", nil
	}
	return fmt.Sprintf("https://mock-bucket.s3.amazonaws.com/%s?signature=mock", s3Key), nil
}

// DeleteFile records the deletion without touching any real storage
func (m *MockS3Service) DeleteFile(s3Key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletedKeys = append(m.deletedKeys, s3Key)
	return nil
}

// DeletedKeys returns the keys deleted through this mock
func (m *MockS3Service) DeletedKeys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, len(m.deletedKeys))
	copy(keys, m.deletedKeys)
	return keys
}
