// Package auth implements Warden's credential verification and
// authorization gate.
//
// Verification is a pure function over token, secret, and clock: the
// identity claims embedded at issuance are returned verbatim, with no
// re-resolution against storage. Authorization evaluates a verified
// claim set against the role and privilege names a route requires.
package auth
