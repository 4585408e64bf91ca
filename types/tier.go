package types

// MembershipTier is the guild-scoped authority level of a user within a single
// in-game guild. Tiers are strictly ordered: none < member < officer < leader.
type MembershipTier string

const (
	TierNone    MembershipTier = "NONE"
	TierMember  MembershipTier = "MEMBER"
	TierOfficer MembershipTier = "OFFICER"
	TierLeader  MembershipTier = "LEADER"
)

// tierRank maps tiers onto their position in the ordering. Unknown values
// rank below TierNone so a corrupt stored tier can never grant access.
var tierRank = map[MembershipTier]int{
	TierNone:    0,
	TierMember:  1,
	TierOfficer: 2,
	TierLeader:  3,
}

// AtLeast reports whether t grants at least the authority of required.
func (t MembershipTier) AtLeast(required MembershipTier) bool {
	tr, ok := tierRank[t]
	if !ok {
		return false
	}
	rr, ok := tierRank[required]
	if !ok {
		return false
	}
	return tr >= rr
}

// Max returns the higher of the two tiers.
func (t MembershipTier) Max(other MembershipTier) MembershipTier {
	if tierRank[other] > tierRank[t] {
		return other
	}
	return t
}

// String returns the string representation of the tier.
func (t MembershipTier) String() string {
	return string(t)
}

// IsValid checks if the tier is one of the defined membership tiers.
func (t MembershipTier) IsValid() bool {
	_, ok := tierRank[t]
	return ok
}
