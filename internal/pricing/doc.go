// Package pricing requests swap quotes from the pathfinder service. Token
// identifiers are resolved to on-chain addresses first: symbols through
// the directory's verified set and free-text search, the native alias
// through a sentinel address. Quotes come back transaction-ready but are
// never signed or submitted here.
package pricing
