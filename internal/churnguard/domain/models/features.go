package models

import (
	"fmt"
	"strings"
)

// RequiredFeatures are the attributes the churn classifier is trained on.
var RequiredFeatures = []string{ //nolint:gochecknoglobals
	"Age", "EmploymentStatus", "HousingStatus", "ActiveMember", "Country",
	"EstimatedSalary", "Balance", "Gender", "ProductsNumber", "DebitCard",
	"SavingsAccount", "FlexiLoan", "Tenure", "DaysSinceLastTransaction",
	"CustomerEngagementScore", "TechSupportTicketCount", "NumberOfAppCrashes",
	"NavigationDifficulty", "UserFrustration", "CustomerSatisfactionSurvey",
	"CustomerServiceCalls", "NPS",
}

type FeatureRecord map[string]Value

// NewFeatureRecord projects f onto RequiredFeatures. Every feature must be
// present; a null value counts as present.
func NewFeatureRecord(f Fields) (FeatureRecord, error) {
	fr := make(FeatureRecord, len(RequiredFeatures))

	var missing []string

	for _, name := range RequiredFeatures {
		v, ok := f[name]
		if !ok {
			missing = append(missing, name)

			continue
		}

		fr[name] = v
	}

	if len(missing) != 0 {
		return nil, fmt.Errorf("%w: missing required features: %s", ErrValidation, strings.Join(missing, ", "))
	}

	return fr, nil
}
