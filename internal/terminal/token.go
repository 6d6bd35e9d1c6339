// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package terminal

import (
	"io"
)

// Ownership is the outcome of a claim.
type Ownership int

const (
	// NotApplicable means no stream was requested; nothing is held.
	NotApplicable Ownership = iota
	// Denied means another claimant already owns the terminal.
	Denied
	// Owned means the claimant owns the requested streams until it releases the token.
	Owned
)

// String implements the Stringer interface for Ownership.
func (o Ownership) String() string {
	switch o {
	case NotApplicable:
		return "not-applicable"
	case Denied:
		return "denied"
	case Owned:
		return "owned"
	default:
		return "unknown"
	}
}

// Token is the capability handed out by Claim.
// The zero value is a NotApplicable token without a writer.
type Token struct {
	ownership Ownership
	stdout    bool
	stderr    bool
	out       io.Writer
	gen       uint64
}

// Ownership returns the claim outcome.
func (t Token) Ownership() Ownership {
	return t.ownership
}

// Owned reports whether the token holds the terminal.
func (t Token) Owned() bool {
	return t.ownership == Owned
}

// CanDraw reports whether the holder may animate: it owns the terminal or nobody does.
func (t Token) CanDraw() bool {
	return t.ownership != Denied
}

// Stdout reports whether standard output was diverted for this token.
func (t Token) Stdout() bool {
	return t.stdout
}

// Stderr reports whether standard error was diverted for this token.
func (t Token) Stderr() bool {
	return t.stderr
}

// Writer returns where the holder draws: the original standard output when owned,
// the currently visible standard output otherwise.
func (t Token) Writer() io.Writer {
	return t.out
}

// NewExternal returns a token for a caller that bypasses arbitration and draws to w.
func NewExternal(w io.Writer) Token {
	return Token{ownership: NotApplicable, out: w}
}
