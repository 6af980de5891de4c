package wshandler

import (
	"time"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	ws "github.com/Temutjin2k/ride-share-system/pkg/wsHub"
)

const msgTypeInventory = "seat_inventory"

type inventoryMessage struct {
	Type string                   `json:"type"`
	Data models.InventorySnapshot `json:"data"`
	Sent time.Time                `json:"sent_at"`
}

func newInventoryMessage(s models.InventorySnapshot) inventoryMessage {
	return inventoryMessage{Type: msgTypeInventory, Data: s, Sent: time.Now().UTC()}
}

func errorResponse(conn *ws.Conn, e *types.Error) error {
	return conn.Send(map[string]any{
		"type": "error",
		"error": map[string]any{
			"kind":    e.Kind,
			"code":    e.Code,
			"message": e.Message,
		},
	})
}
