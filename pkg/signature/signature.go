// Package signature computes the X-Signature header of OpenSRS requests.
//
// The signature is a keyed double MD5 over the exact request text:
//
//	md5_hex(md5_hex(body + key) + key)
//
// The vendor fixes the digest algorithm; it authenticates the request, it is
// not meant to protect the key against offline attack.
package signature

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
)

// Sign returns the lowercase hex signature of body under secret.
func Sign(secret, body string) string {
	inner := digest(body + secret)
	return digest(inner + secret)
}

// Verify reports whether sig is the signature of body under secret.
// The comparison runs in constant time.
func Verify(secret, body, sig string) bool {
	want := Sign(secret, body)
	return subtle.ConstantTimeCompare([]byte(want), []byte(sig)) == 1
}

func digest(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
