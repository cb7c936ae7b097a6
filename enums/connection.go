package enums

type ConnectionStatus string

const (
	ConnectionStatusNone      ConnectionStatus = "none"
	ConnectionStatusPending   ConnectionStatus = "pending"
	ConnectionStatusConnected ConnectionStatus = "connected"
	ConnectionStatusFollowing ConnectionStatus = "following"
)
