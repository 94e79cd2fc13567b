package normalize

import "github.com/akkash/bizsearch-new-sub002/internal/models"

// TimeCommitment is how much of the investor's week goes into the business.
type TimeCommitment string

const (
	CommitmentUnspecified TimeCommitment = ""
	CommitmentFullTime    TimeCommitment = "full-time"
	CommitmentPartTime    TimeCommitment = "part-time"
	CommitmentSemiAbsent  TimeCommitment = "semi-absentee"
	CommitmentAbsentee    TimeCommitment = "absentee"
)

var timeCommitments = map[string]TimeCommitment{
	"":              CommitmentUnspecified,
	"full-time":     CommitmentFullTime,
	"part-time":     CommitmentPartTime,
	"semi-absentee": CommitmentSemiAbsent,
	"absentee":      CommitmentAbsentee,
}

// Profile is a fully resolved investor profile.
type Profile struct {
	ID                        string         `json:"id,omitempty"`
	Budget                    Range          `json:"budget"`
	LiquidCapital             float64        `json:"liquidCapital"`
	NetWorth                  float64        `json:"netWorth"`
	ManagementExperienceYears int            `json:"managementExperienceYears"`
	TimeCommitment            TimeCommitment `json:"timeCommitment,omitempty"`
}

// NormalizeProfile validates and coerces a raw investor profile.
func NormalizeProfile(in models.InvestorProfileInput) (Profile, error) {
	var p Profile
	p.ID = in.ID

	if in.Budget != nil {
		budget, err := rangeOf("budget", in.Budget.Min, in.Budget.Max)
		if err != nil {
			return Profile{}, err
		}
		p.Budget = budget
	}

	var err error
	if p.LiquidCapital, err = number("liquidCapital", in.LiquidCapital); err != nil {
		return Profile{}, err
	}
	if p.NetWorth, err = number("netWorth", in.NetWorth); err != nil {
		return Profile{}, err
	}
	if p.ManagementExperienceYears, err = integer("managementExperienceYears", in.ManagementExperienceYears); err != nil {
		return Profile{}, err
	}

	tc, ok := timeCommitments[enumKey(in.TimeCommitment)]
	if !ok {
		return Profile{}, invalid("timeCommitment", "unknown value %q", in.TimeCommitment)
	}
	p.TimeCommitment = tc

	return p, nil
}
