package repository

import (
	"errors"
	"sync"
	"time"

	"signals-backend/internal/domain"
)

// ExecutionRepository manages exchange credentials and execution settings in
// memory. The secret key is encrypted at rest even here, so a heap dump does
// not leak it in the clear.
type ExecutionRepository struct {
	credentials map[string]*domain.ExecutionCredentials // key: userID
	settings    map[string]*domain.ExecutionSettings    // key: userID
	mu          sync.RWMutex
	encryptKey  []byte // 32 bytes for AES-256
}

func NewExecutionRepository(encryptionKey string) *ExecutionRepository {
	return &ExecutionRepository{
		credentials: make(map[string]*domain.ExecutionCredentials),
		settings:    make(map[string]*domain.ExecutionSettings),
		encryptKey:  normalizeKey(encryptionKey),
	}
}

// SaveCredentials saves or updates API credentials
func (r *ExecutionRepository) SaveCredentials(cred *domain.ExecutionCredentials) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	encryptedSecret, err := encryptSecret(r.encryptKey, cred.SecretKey)
	if err != nil {
		return err
	}

	stored := *cred
	stored.SecretKey = encryptedSecret
	stored.UpdatedAt = time.Now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	r.credentials[cred.UserID] = &stored
	return nil
}

// GetCredentials retrieves credentials with decrypted secret
func (r *ExecutionRepository) GetCredentials(userID string) (*domain.ExecutionCredentials, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cred, exists := r.credentials[userID]
	if !exists {
		return nil, errors.New("credentials not found")
	}

	decryptedSecret, err := decryptSecret(r.encryptKey, cred.SecretKey)
	if err != nil {
		return nil, err
	}

	result := *cred
	result.SecretKey = decryptedSecret
	return &result, nil
}

// DeleteCredentials removes credentials
func (r *ExecutionRepository) DeleteCredentials(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.credentials, userID)
	return nil
}

// SaveSettings saves execution settings
func (r *ExecutionRepository) SaveSettings(settings *domain.ExecutionSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *settings
	r.settings[settings.UserID] = &stored
	return nil
}

// GetSettings retrieves execution settings, falling back to safe defaults.
func (r *ExecutionRepository) GetSettings(userID string) (*domain.ExecutionSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	settings, exists := r.settings[userID]
	if !exists {
		return defaultExecutionSettings(userID), nil
	}

	result := *settings
	return &result, nil
}

// defaultExecutionSettings keeps real trading off until explicitly enabled.
func defaultExecutionSettings(userID string) *domain.ExecutionSettings {
	return &domain.ExecutionSettings{
		UserID:            userID,
		EnableRealTrading: false,
		Leverage:          1,
		RiskPercent:       1.0,
		MaxOpenIntents:    5,
		MaxDailyTrades:    10,
	}
}

var _ domain.ExecutionStore = (*ExecutionRepository)(nil)
