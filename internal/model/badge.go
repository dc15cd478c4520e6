package model

// BadgeStatus is the claim eligibility of an account.
type BadgeStatus struct {
	ClaimOpen  bool `json:"claim_open"`
	HasClaimed bool `json:"has_claimed"`
}
