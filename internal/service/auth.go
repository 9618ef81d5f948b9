package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eshop-assistant/internal/config"
	"eshop-assistant/internal/dto"
	"eshop-assistant/internal/model"
	"eshop-assistant/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Identity is the caller as seen by the chat and REST layers. An anonymous
// caller has Authenticated false and zero values elsewhere.
type Identity struct {
	Authenticated bool
	UserID        uint
	Role          model.UserRole
	Email         string
}

func (id Identity) IsAdmin() bool {
	return id.Authenticated && id.Role == model.RoleAdmin
}

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, email, password string) (*dto.LoginResponse, error)
	ParseToken(token string) (Identity, error)
}

type authServiceImpl struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	secret   []byte
	ttl      time.Duration
}

func NewAuthService(db *gorm.DB, userRepo repository.UserRepository, cfg *config.JWT) AuthService {
	return &authServiceImpl{
		db:       db,
		userRepo: userRepo,
		secret:   []byte(cfg.Secret),
		ttl:      time.Duration(cfg.TTLHours) * time.Hour,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*model.User, error) {
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := model.RoleCustomer
	if req.Role != "" {
		role = model.UserRole(req.Role)
	}
	user := &model.User{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := s.userRepo.Create(ctx, s.db, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.userRepo.Update(ctx, s.db, user); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}

	claims := jwt.MapClaims{
		"uid":   user.UserID,
		"role":  string(user.Role),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &dto.LoginResponse{
		Token:    token,
		UserID:   user.UserID,
		FullName: user.FullName,
		Role:     string(user.Role),
	}, nil
}

func (s *authServiceImpl) ParseToken(tokenStr string) (Identity, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("invalid token")
	}

	uid, ok := claims["uid"].(float64)
	if !ok {
		return Identity{}, fmt.Errorf("invalid token: missing uid")
	}
	role, _ := claims["role"].(string)
	email, _ := claims["email"].(string)

	return Identity{
		Authenticated: true,
		UserID:        uint(uid),
		Role:          model.UserRole(role),
		Email:         email,
	}, nil
}
