package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "configly/internal/errors"
	"configly/internal/models"
)

// clientService handles client account business logic.
type clientService struct {
	db *gorm.DB
}

// NewClientService creates a new ClientServicer.
func NewClientService(db *gorm.DB) ClientServicer {
	return &clientService{db: db}
}

// newPublicKey mints the opaque embed credential for a client.
func newPublicKey() string {
	return "pk_" + strings.ReplaceAll(uuid.New().String(), "-", "")
}

// Register creates a new client with a hashed password and a fresh
// public key.
func (s *clientService) Register(email, password, companyName string) (*models.Client, error) {
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Email and password required")
	}
	if len(password) < 8 {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Password must be at least 8 characters")
	}

	var count int64
	if err := s.db.Model(&models.Client{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	client := &models.Client{
		Email:          email,
		Password:       string(hash),
		CompanyName:    companyName,
		IsActive:       true,
		PublicKey:      newPublicKey(),
		AllowedDomains: models.StringList{},
	}

	if err := s.db.Create(client).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return client, nil
}

// AttemptLogin verifies credentials and returns the client.
func (s *clientService) AttemptLogin(email, password string) (*models.Client, error) {
	var client models.Client
	if err := s.db.Where("email = ?", email).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !client.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(client.Password), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return &client, nil
}

// GetByID retrieves a client by ID.
func (s *clientService) GetByID(id uint) (*models.Client, error) {
	var client models.Client
	if err := s.db.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrClientNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &client, nil
}

// UpdateAllowedDomains replaces the client's embed domain allow-list.
// Entries are normalized to bare lowercase hostnames.
func (s *clientService) UpdateAllowedDomains(clientID uint, domains []string) (*models.Client, error) {
	client, err := s.GetByID(clientID)
	if err != nil {
		return nil, err
	}

	normalized := make(models.StringList, 0, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		d = strings.TrimPrefix(d, "https://")
		d = strings.TrimPrefix(d, "http://")
		d = strings.TrimSuffix(d, "/")
		if d == "" {
			continue
		}
		normalized = append(normalized, d)
	}

	if err := s.db.Model(client).Update("allowed_domains", normalized).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	client.AllowedDomains = normalized
	return client, nil
}

// StoreRefreshTokenHash stores the hash of a client's refresh token.
func (s *clientService) StoreRefreshTokenHash(clientID uint, tokenHash string) error {
	if err := s.db.Model(&models.Client{}).Where("id = ?", clientID).
		Update("refresh_token_hash", tokenHash).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetRefreshTokenHash retrieves the stored refresh token hash.
func (s *clientService) GetRefreshTokenHash(clientID uint) (string, error) {
	client, err := s.GetByID(clientID)
	if err != nil {
		return "", err
	}
	return client.RefreshTokenHash, nil
}
