package chat

// Config holds the chat module's policy knobs.
type Config struct {
	// ImplicitJoin, when set, makes appending a message to a chat the
	// sender does not belong to silently add them as a participant
	// instead of rejecting the append.
	ImplicitJoin bool

	// HistoryLimit bounds how many messages a chat read returns.
	HistoryLimit int
}

// DefaultHistoryLimit is used when no limit is configured.
const DefaultHistoryLimit = 50

func (c Config) historyLimit() int {
	if c.HistoryLimit <= 0 {
		return DefaultHistoryLimit
	}
	return c.HistoryLimit
}
