// Package textutil provides small string helpers for filesystem-safe tokens and
// length-limited text.
package textutil
