package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"quickbite/internal/apperrors"
	"quickbite/internal/models"
	"quickbite/internal/repositories"
)

// AuthService handles registration, login and token validation for both
// customer and seller accounts.
type AuthService struct {
	userRepo    repositories.UserRepository
	sellerRepo  repositories.SellerRepository
	catalogRepo repositories.CatalogRepository
	jwtSecret   []byte
	tokenTTL    time.Duration
}

// NewAuthService creates a new AuthService. ttl is the JWT validity window.
func NewAuthService(userRepo repositories.UserRepository, sellerRepo repositories.SellerRepository, catalogRepo repositories.CatalogRepository, jwtSecret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &AuthService{
		userRepo:    userRepo,
		sellerRepo:  sellerRepo,
		catalogRepo: catalogRepo,
		jwtSecret:   []byte(jwtSecret),
		tokenTTL:    ttl,
	}
}

// RegisterUser registers a customer account with a hashed password.
func (s *AuthService) RegisterUser(user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return apperrors.Conflictf("email %s already registered", user.Email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)
	user.Role = "user"

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// LoginUser authenticates a customer and returns a signed JWT.
func (s *AuthService) LoginUser(email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// Do not reveal whether the email exists.
		return "", nil, apperrors.Unauthorizedf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, apperrors.Unauthorizedf("invalid credentials")
	}

	token, err := s.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// RegisterSeller registers a cafeteria operator bound to a college.
func (s *AuthService) RegisterSeller(seller *models.Seller) error {
	seller.Email = strings.ToLower(strings.TrimSpace(seller.Email))
	if existing, err := s.sellerRepo.GetByEmail(seller.Email); err == nil && existing != nil {
		return apperrors.Conflictf("seller with email %s already exists", seller.Email)
	}
	if _, err := s.catalogRepo.GetCollege(seller.CollegeID); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(seller.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	seller.Password = string(hashed)
	seller.Role = "seller"
	seller.Status = "active"
	if seller.OpeningTime == "" {
		seller.OpeningTime = "08:00"
	}
	if seller.ClosingTime == "" {
		seller.ClosingTime = "18:00"
	}

	if err := s.sellerRepo.Create(seller); err != nil {
		return fmt.Errorf("failed to register seller: %w", err)
	}
	return nil
}

// LoginSeller authenticates a seller and returns a signed JWT.
func (s *AuthService) LoginSeller(email, password string) (string, *models.Seller, error) {
	seller, err := s.sellerRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, apperrors.Unauthorizedf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(seller.Password), []byte(password)); err != nil {
		return "", nil, apperrors.Unauthorizedf("invalid credentials")
	}

	token, err := s.GenerateToken(seller.ID, seller.Email, seller.Role)
	if err != nil {
		return "", nil, err
	}
	return token, seller, nil
}

// GenerateToken signs an HS256 JWT carrying the principal's id, email and role.
func (s *AuthService) GenerateToken(id, email, role string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": id,
		"email":   email,
		"role":    role,
		"iat":     now.Unix(),
		"exp":     now.Add(s.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, apperrors.Unauthorizedf("invalid token: %v", err)
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, apperrors.Unauthorizedf("invalid token")
}
