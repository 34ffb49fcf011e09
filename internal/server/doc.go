// Package server hosts the Fiber HTTP service that fronts the cache store:
// request-ID and access-log middleware, JSON error rendering, and the app
// constructor that main and tests share. Route groups live in the routes
// subpackage and receive the store explicitly; nothing here looks up global
// state.
package server
