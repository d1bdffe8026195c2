package config

// Default paths
const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./nbserve.db"

	// DefaultNotebookDir is where notebooks are served from when no root is configured
	DefaultNotebookDir = "."
)
