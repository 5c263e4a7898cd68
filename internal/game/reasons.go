package game

import "net/http"

// Rejection and outcome reason codes returned to the submitting client.
const (
	ReasonInvalidScore     = "invalid_score"
	ReasonUnknownTier      = "unknown_tier"
	ReasonInvalidSession   = "invalid_session"
	ReasonIdentityMismatch = "identity_mismatch"
	ReasonTierMismatch     = "tier_mismatch"
	ReasonSessionReplay    = "session_replay"
	ReasonSessionExpired   = "session_expired"
	ReasonInvalidSignature = "invalid_signature"
	ReasonImpossibleTiming = "impossible_timing"
	ReasonRateLimited      = "rate_limited"
	ReasonLowerOrEqual     = "lower_or_equal_score"
)

var reasonStatus = map[string]int{
	ReasonInvalidScore:     http.StatusBadRequest,
	ReasonUnknownTier:      http.StatusBadRequest,
	ReasonInvalidSession:   http.StatusForbidden,
	ReasonIdentityMismatch: http.StatusForbidden,
	ReasonTierMismatch:     http.StatusForbidden,
	ReasonSessionReplay:    http.StatusForbidden,
	ReasonSessionExpired:   http.StatusForbidden,
	ReasonInvalidSignature: http.StatusForbidden,
	ReasonImpossibleTiming: http.StatusForbidden,
	ReasonRateLimited:      http.StatusTooManyRequests,
	ReasonLowerOrEqual:     http.StatusOK,
}

// StatusForResult maps a validator decision to its HTTP status. Accepted
// submissions are always 200, including the not-a-new-best case.
func StatusForResult(result *Result) int {
	if result.Accepted {
		return http.StatusOK
	}
	if status, ok := reasonStatus[result.Reason]; ok {
		return status
	}
	return http.StatusForbidden
}
