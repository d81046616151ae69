// Package foldbatch holds metadata shared by the CLI and the MCP server.
package foldbatch

// Version is the current foldbatch release.
const Version = "0.2.1"
