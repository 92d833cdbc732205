package cascade

// Version is the library version, also reported by the CLI, the HTTP control
// API and the MCP server.
const Version = "0.1.0"
