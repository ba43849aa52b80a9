// Package database owns the bun connection the repositories run on. It
// picks the dialect from the configured type and keeps the pool healthy,
// and its migrations create the registered entity tables.
package database
