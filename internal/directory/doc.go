// Package directory is a thin typed façade over the token directory
// service: single-token lookup, free-text search, category listings, the
// token count, and per-wallet balances. Nothing is cached or retried; every
// call is one HTTP read whose failure surfaces the upstream message.
package directory
