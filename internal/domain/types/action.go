package types

// Log actions used outside of a single engine operation.
const (
	ActionRabbitPublish         = "rabbit_publish"
	ActionRabbitReconnect       = "rabbit_reconnect"
	ActionDatabaseTxFailed      = "database_transaction_failed"
	ActionExternalServiceFailed = "external_service_failed"
	ActionWebsocketConnected    = "websocket_connected"
	ActionWebsocketClosed       = "websocket_closed"
)
