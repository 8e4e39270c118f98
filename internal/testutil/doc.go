// Package testutil contains helper builders and utilities used across tests
// to reduce boilerplate when constructing inbound messages and inspecting the
// frames a session produced. These helpers are intentionally minimal and are
// not intended for production usage.
package testutil
