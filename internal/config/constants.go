package config

// Default setting values
const (
	// DefaultPort is the port the backend listens on when none is supplied
	DefaultPort = 3001

	// DefaultKeepAlive is how long Ollama keeps a model loaded between requests
	DefaultKeepAlive = "5m"

	// DefaultDatabasePath is where chat history is stored
	DefaultDatabasePath = "data/db.sqlite"
)
