// Package tools declares the six MCP tools the daemon exposes (token
// lookup, search, category listings, token count, wallet balances, and
// swap quotes) and dispatches their invocations to the directory and
// pricing clients. The registry is immutable after construction; the
// dispatcher converts every internal failure into an error-flagged result
// so no fault ever crosses the MCP boundary.
package tools
