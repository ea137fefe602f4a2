package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"secure-file-share/internal/access"
	"secure-file-share/internal/event"
	"secure-file-share/internal/model"
)

const downloadTokenType = "download"

// DownloadTokenService mints single-use download tokens and exchanges
// them for file metadata. A token is a signed JWT (stateless signature
// and expiry checks) backed by a grant row whose state field is the
// only mutable piece; the repository's conditional update makes the
// issued -> consumed transition atomic under concurrent exchanges.
type DownloadTokenService struct {
	files  FileStore
	grants GrantStore
	secret []byte
	ttl    time.Duration
	bus    event.Bus
}

func NewDownloadTokenService(files FileStore, grants GrantStore, secret string, ttl time.Duration, bus event.Bus) (*DownloadTokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("download token secret is required")
	}

	return &DownloadTokenService{
		files:  files,
		grants: grants,
		secret: []byte(secret),
		ttl:    ttl,
		bus:    bus,
	}, nil
}

// TTL reports how long issued tokens stay valid.
func (s *DownloadTokenService) TTL() time.Duration {
	return s.ttl
}

// Generate issues a token scoped to one file and one requester. The
// token id comes from uuid's CSPRNG, so it cannot be derived from the
// file id or the timestamp.
func (s *DownloadTokenService) Generate(ctx context.Context, fileID string, requester model.SessionClaims) (string, error) {
	if err := access.Authorize(requester.Role, access.OpRequestDownloadLink); err != nil {
		return "", err
	}

	exists, err := s.files.Exists(ctx, fileID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", model.ErrFileNotFound
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.ttl)
	tokenID := uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"jti":     tokenID,
		"sub":     requester.UserID,
		"file_id": fileID,
		"typ":     downloadTokenType,
		"iat":     now.Unix(),
		"exp":     expiresAt.Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign download token: %w", err)
	}

	grant := model.DownloadGrant{
		ID:        tokenID,
		FileID:    fileID,
		IssuedTo:  requester.UserID,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
		State:     model.GrantStateIssued,
	}
	if err := s.grants.Create(ctx, grant); err != nil {
		return "", err
	}

	s.bus.Publish(event.New(event.TypeDownloadLinkIssued, requester.UserID, map[string]string{
		"file_id":  fileID,
		"token_id": tokenID,
	}))

	return signed, nil
}

// Exchange redeems a presented token for the file it was issued
// against. Order matters: signature, then expiry, then the atomic
// consume, then metadata resolution. A grant can be consumed exactly
// once regardless of remaining time-to-live.
func (s *DownloadTokenService) Exchange(ctx context.Context, presented string) (model.File, error) {
	claims, err := s.parseToken(presented)
	if err != nil {
		s.publishRejected("", err)
		return model.File{}, err
	}

	if err := s.grants.Consume(ctx, claims.TokenID, time.Now().UTC()); err != nil {
		s.publishRejected(claims.TokenID, err)
		return model.File{}, err
	}

	file, err := s.files.FindByID(ctx, claims.FileID)
	if err != nil {
		// Consumed a grant for a file that no longer exists; the
		// token is spent either way.
		s.publishRejected(claims.TokenID, err)
		return model.File{}, model.ErrDownloadTokenInvalid
	}

	s.bus.Publish(event.New(event.TypeDownloadConsumed, claims.IssuedTo, map[string]string{
		"file_id":  file.ID,
		"token_id": claims.TokenID,
	}))

	return file, nil
}

// SweepExpired removes grant rows past their expiry. Expired tokens
// already fail exchange on the stateless check; this keeps the table
// from growing without bound.
func (s *DownloadTokenService) SweepExpired(ctx context.Context) (int64, error) {
	return s.grants.DeleteExpired(ctx, time.Now().UTC())
}

func (s *DownloadTokenService) parseToken(presented string) (model.DownloadClaims, error) {
	parsed, err := jwt.Parse(presented, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.ErrDownloadTokenInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.DownloadClaims{}, model.ErrDownloadTokenExpired
		}
		return model.DownloadClaims{}, model.ErrDownloadTokenInvalid
	}
	if !parsed.Valid {
		return model.DownloadClaims{}, model.ErrDownloadTokenInvalid
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return model.DownloadClaims{}, model.ErrDownloadTokenInvalid
	}

	typ, _ := claimsMap["typ"].(string)
	tokenID, _ := claimsMap["jti"].(string)
	fileID, _ := claimsMap["file_id"].(string)
	issuedTo, _ := claimsMap["sub"].(string)
	if typ != downloadTokenType || tokenID == "" || fileID == "" || issuedTo == "" {
		return model.DownloadClaims{}, model.ErrDownloadTokenInvalid
	}

	claims := model.DownloadClaims{
		TokenID:  tokenID,
		FileID:   fileID,
		IssuedTo: issuedTo,
	}
	if exp, expErr := claimsMap.GetExpirationTime(); expErr == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	return claims, nil
}

func (s *DownloadTokenService) publishRejected(tokenID string, cause error) {
	s.bus.Publish(event.New(event.TypeDownloadRejected, "", map[string]string{
		"token_id": tokenID,
		"reason":   cause.Error(),
	}))
}
