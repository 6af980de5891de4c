package wshandler

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Temutjin2k/ride-share-system/internal/adapter/http/middleware"
	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
)

const msgTypeAuth = "auth"

type authMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// authenticate reads the first frame and resolves the token it carries.
// Browsers cannot set headers on the upgrade request, so the token travels in-band.
func (h *InventoryHandler) authenticate(ctx context.Context, raw *websocket.Conn) (*models.Actor, error) {
	if err := raw.SetReadDeadline(time.Now().Add(authTimeout)); err != nil {
		return nil, err
	}
	defer raw.SetReadDeadline(time.Time{})

	var msg authMessage
	if err := raw.ReadJSON(&msg); err != nil {
		return nil, types.ErrUnauthenticated.Wrap(err)
	}
	if msg.Type != msgTypeAuth {
		return nil, types.ErrUnauthenticated.WithMessage("first message must be of type auth")
	}

	token, err := middleware.ExtractBearerToken(msg.Token)
	if err != nil {
		return nil, err
	}
	return h.identity.Resolve(ctx, token)
}
