package permission

// Tier names the authorization scope that granted (or failed to grant) access.
type Tier string

const (
	TierAll      Tier = "all"
	TierCompany  Tier = "company"
	TierAssigned Tier = "assigned"
	TierSelf     Tier = "self"
	TierNone     Tier = "none"
)

type Decision struct {
	Allowed bool
	Tier    Tier
}

func Granted(t Tier) Decision { return Decision{Allowed: true, Tier: t} }

func Denied() Decision { return Decision{Tier: TierNone} }
