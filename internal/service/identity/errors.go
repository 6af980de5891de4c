package identity

import (
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
)

var (
	ErrInvalidToken = types.ErrUnauthenticated.WithMessage("invalid or malformed token")
	ErrExpToken     = types.ErrUnauthenticated.WithMessage("token has expired")
	ErrInvalidRole  = types.ErrUnauthenticated.WithMessage("token carries an unknown role")
)
