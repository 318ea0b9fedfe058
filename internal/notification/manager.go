package notification

import (
	"fmt"
	"sync"
)

var (
	instance *Service
	once     sync.Once
	mu       sync.RWMutex
)

// Initialize sets up the global notice service instance.
func Initialize() {
	once.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		instance = NewService()
	})
}

// GetService returns the global notice service instance, or nil before
// Initialize has run.
func GetService() *Service {
	mu.RLock()
	defer mu.RUnlock()
	return instance
}

// SetServiceForTesting allows setting a custom service instance for tests.
// It returns an error if the service is already initialized in production.
func SetServiceForTesting(service *Service) error {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return fmt.Errorf("notification service already initialized")
	}

	instance = service
	return nil
}

// IsInitialized checks if the notice service has been initialized.
func IsInitialized() bool {
	mu.RLock()
	defer mu.RUnlock()
	return instance != nil
}
