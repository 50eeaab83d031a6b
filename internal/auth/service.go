package auth

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/Avi-17/Z/internal/apperror"
	"github.com/Avi-17/Z/internal/db"
	"github.com/Avi-17/Z/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// sessionTTL is how long an issued session cookie stays valid.
const sessionTTL = 15 * 24 * time.Hour

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Service struct {
	secret []byte
	db     db.Querier
}

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func NewService(secret string, db db.Querier) *Service {
	return &Service{
		secret: []byte(secret),
		db:     db,
	}
}

func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (user.Public, string, error) {
	if req.FullName == "" || req.Username == "" {
		return user.Public{}, "", apperror.NewValidation("Full name and username are required")
	}
	if !emailRegex.MatchString(req.Email) {
		return user.Public{}, "", apperror.NewValidation("Please enter a valid mail format")
	}

	taken, err := s.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username=$1)`, req.Username)
	if err != nil {
		return user.Public{}, "", err
	}
	if taken {
		return user.Public{}, "", apperror.NewConflict("Username is already taken")
	}

	taken, err = s.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email=$1)`, req.Email)
	if err != nil {
		return user.Public{}, "", err
	}
	if taken {
		return user.Public{}, "", apperror.NewConflict("Email already exists")
	}

	if len(req.Password) < 6 {
		return user.Public{}, "", apperror.NewValidation("Password must be at least 6 characters long")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.Public{}, "", err
	}

	u := user.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, username, full_name, email, password_hash)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at
	`, u.ID, u.Username, u.FullName, u.Email, u.PasswordHash)
	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		return user.Public{}, "", err
	}

	token, err := s.SignToken(u.ID)
	if err != nil {
		return user.Public{}, "", err
	}

	return user.PublicOf(u, []string{}, []string{}, []string{}), token, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (user.Public, string, error) {
	u, err := user.ByUsername(ctx, s.db, req.Username)
	if err != nil {
		if apperror.IsNotFound(err) {
			return user.Public{}, "", apperror.NewNotFound("User not found. Try signing up")
		}
		return user.Public{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return user.Public{}, "", apperror.NewAuth("Invalid Password")
	}

	public, err := user.LoadPublic(ctx, s.db, u)
	if err != nil {
		return user.Public{}, "", err
	}

	token, err := s.SignToken(u.ID)
	if err != nil {
		return user.Public{}, "", err
	}
	return public, token, nil
}

func (s *Service) Me(ctx context.Context, userID string) (user.Public, error) {
	u, err := user.ByID(ctx, s.db, userID)
	if err != nil {
		return user.Public{}, err
	}
	return user.LoadPublic(ctx, s.db, u)
}

func (s *Service) SignToken(userID string) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) ParseToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", errors.New("token invalid")
	}
	return claims.UserID, nil
}

func (s *Service) exists(ctx context.Context, sql, arg string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, sql, arg).Scan(&exists)
	return exists, err
}
