package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"secure-file-share/internal/event"
	"secure-file-share/internal/model"
)

const sessionTokenType = "session"

// AuthService owns signup, credential verification, and the session
// token lifecycle. Session tokens are self-contained HS256 JWTs; no
// server-side session table exists and there is no revocation before
// expiry.
type AuthService struct {
	users      UserStore
	secret     []byte
	sessionTTL time.Duration
	bus        event.Bus
}

func NewAuthService(users UserStore, secret string, sessionTTL time.Duration, bus event.Bus) (*AuthService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("auth token secret is required")
	}

	return &AuthService{
		users:      users,
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		bus:        bus,
	}, nil
}

func (s *AuthService) Signup(ctx context.Context, email string, password string, role model.Role) (model.User, error) {
	email = strings.TrimSpace(email)

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.User{}, err
	}
	if exists {
		return model.User{}, model.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.User{}, err
	}

	s.bus.Publish(event.New(event.TypeUserSignedUp, user.ID, map[string]string{"role": role.String()}))
	return user, nil
}

// Login verifies credentials and issues a session token. A declared
// user type, when present, must match the stored role; a mismatch is
// reported as invalid credentials so login never acts as a role
// oracle.
func (s *AuthService) Login(ctx context.Context, email string, password string, declaredType string) (model.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			return model.LoginResponse{}, model.ErrInvalidCredentials
		}
		return model.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.LoginResponse{}, model.ErrInvalidCredentials
	}

	if strings.TrimSpace(declaredType) != "" {
		declared, parseErr := model.ParseRole(declaredType)
		if parseErr != nil || declared != user.Role {
			return model.LoginResponse{}, model.ErrInvalidCredentials
		}
	}

	token, err := s.IssueSessionToken(user)
	if err != nil {
		return model.LoginResponse{}, err
	}

	s.bus.Publish(event.New(event.TypeUserLoggedIn, user.ID, nil))

	return model.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.sessionTTL.Seconds()),
	}, nil
}

// IssueSessionToken binds subject and role into a signed token valid
// for the configured session TTL. Stateless: nothing is persisted.
func (s *AuthService) IssueSessionToken(user model.User) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role.String(),
		"typ":   sessionTokenType,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.sessionTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateSessionToken checks signature integrity first, then expiry,
// then extracts claims. The HMAC comparison inside jwt's verify is
// constant-time.
func (s *AuthService) ValidateSessionToken(tokenString string) (*model.SessionClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.ErrTokenMalformed
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, model.ErrTokenExpired
		}
		return nil, model.ErrTokenMalformed
	}
	if !parsed.Valid {
		return nil, model.ErrTokenMalformed
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, model.ErrTokenMalformed
	}

	typ, _ := claimsMap["typ"].(string)
	if typ != sessionTokenType {
		return nil, model.ErrTokenMalformed
	}

	subject, _ := claimsMap["sub"].(string)
	if subject == "" {
		return nil, model.ErrTokenMalformed
	}

	rawRole, _ := claimsMap["role"].(string)
	role, err := model.ParseRole(rawRole)
	if err != nil {
		return nil, model.ErrTokenMalformed
	}

	claims := &model.SessionClaims{
		UserID: subject,
		Role:   role,
	}
	claims.Email, _ = claimsMap["email"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	return claims, nil
}
