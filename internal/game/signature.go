package game

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// signatureMessage is the canonical byte string the submission MAC commits
// to. Changing any of the three fields after signing invalidates it.
func signatureMessage(fid int64, score int, clientTimestamp int64) []byte {
	return []byte(fmt.Sprintf("%d:%d:%d", fid, score, clientTimestamp))
}

// Sign computes the hex-encoded HMAC-SHA256 a client must attach to a
// submission. Exported for tests and client tooling.
func Sign(secret string, fid int64, score int, clientTimestamp int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(signatureMessage(fid, score, clientTimestamp))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a submitted hex MAC against the session secret.
// The comparison is constant time.
func VerifySignature(secret string, fid int64, score int, clientTimestamp int64, signature string) bool {
	submitted, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(signatureMessage(fid, score, clientTimestamp))
	return hmac.Equal(submitted, mac.Sum(nil))
}
