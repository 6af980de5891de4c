package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	wrap "github.com/Temutjin2k/ride-share-system/pkg/logger/wrapper"
)

// Claims are issued by the external auth provider. The subject is the user id.
type Claims struct {
	Role            types.UserRole `json:"role"`
	ApprovedToDrive bool           `json:"approved_to_drive"`
	Name            string         `json:"name,omitempty"`
	Phone           string         `json:"phone,omitempty"`
	jwt.RegisteredClaims
}

// Service turns bearer tokens into actors. It never stores anything.
type Service struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func New(secret, issuer string) *Service {
	return &Service{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
}

// Resolve validates an HS256 token and returns the actor it describes.
func (s *Service) Resolve(ctx context.Context, token string) (*models.Actor, error) {
	ctx = wrap.WithAction(ctx, "resolve_identity")

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, wrap.Error(ctx, ErrExpToken)
		}
		return nil, wrap.Error(ctx, ErrInvalidToken.Wrap(err))
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, wrap.Error(ctx, ErrInvalidToken.Wrap(fmt.Errorf("invalid 'sub' in token claims: %w", err)))
	}
	if !claims.Role.IsValid() {
		return nil, wrap.Error(ctx, ErrInvalidRole)
	}

	return &models.Actor{
		ID:              id,
		Role:            claims.Role,
		ApprovedToDrive: claims.Role == types.RoleDriver && claims.ApprovedToDrive,
		Name:            claims.Name,
		Phone:           claims.Phone,
	}, nil
}

// Issue signs a token for the actor. Used by tests and the dev token tool.
func (s *Service) Issue(actor *models.Actor, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		Role:            actor.Role,
		ApprovedToDrive: actor.ApprovedToDrive,
		Name:            actor.Name,
		Phone:           actor.Phone,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID.String(),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
