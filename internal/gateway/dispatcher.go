package gateway

// Dispatcher is the interface services use to push events to connected
// WebSocket clients. The concrete Manager implements it.
type Dispatcher interface {
	DispatchToGuild(guildID int64, event string, data interface{})
	DispatchToUser(userID int64, event string, data interface{})
	SubscribeToGuild(userID, guildID int64)
	UnsubscribeFromGuild(userID, guildID int64)
}
