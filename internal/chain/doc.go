// Package chain holds the static parameters of the network the daemon
// serves: the native asset alias and its sentinel address, the canonical
// address shape, and the chain identifier. Parameters default to the Monad
// testnet and can be overridden through a YAML profile file.
package chain
