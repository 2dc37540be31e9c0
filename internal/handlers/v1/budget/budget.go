package budget

import (
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/params"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/money"
)

// Version is the API model of a budget version.
type Version struct {
	ID            string `json:"id" doc:"Version UUID"`
	BudgetID      string `json:"budgetID" doc:"Budget UUID"`
	MonthlyAmount string `json:"monthlyAmount" doc:"Decimal monthly amount"`
	From          string `json:"effectiveFromMonth" doc:"First month, YYYY-MM"`
	Until         string `json:"effectiveUntilMonth,omitempty" doc:"Last month, YYYY-MM; absent when open-ended"`
	ChangeReason  string `json:"changeReason,omitempty" doc:"Why the amount changed"`
}

func toVersion(v ledger.BudgetVersion) Version {
	return Version{
		ID:            v.ID.String(),
		BudgetID:      v.BudgetID.String(),
		MonthlyAmount: money.FormatCents(v.MonthlyAmount),
		From:          v.From.String(),
		Until:         params.FormatOptionalMonth(v.Until),
		ChangeReason:  v.ChangeReason,
	}
}

func toVersions(versions []ledger.BudgetVersion) []Version {
	out := make([]Version, len(versions))
	for i, v := range versions {
		out[i] = toVersion(v)
	}
	return out
}

// VersionBody is the request body describing a version's range and amount.
type VersionBody struct {
	MonthlyAmount string `json:"monthlyAmount" doc:"Decimal monthly amount, not negative"`
	From          string `json:"effectiveFromMonth" pattern:"^[0-9]{4}-[0-9]{2}$" doc:"First month, YYYY-MM"`
	Until         string `json:"effectiveUntilMonth,omitempty" pattern:"^[0-9]{4}-[0-9]{2}$" doc:"Last month, YYYY-MM; omit for open-ended"`
	ChangeReason  string `json:"changeReason,omitempty" maxLength:"500" doc:"Why the amount changed"`
}

// parseVersion converts body into a version without ids.
func parseVersion(body VersionBody) (ledger.BudgetVersion, error) {
	amount, err := params.Amount("monthlyAmount", body.MonthlyAmount)
	if err != nil {
		return ledger.BudgetVersion{}, err
	}
	from, err := params.Month("effectiveFromMonth", body.From)
	if err != nil {
		return ledger.BudgetVersion{}, err
	}
	until, err := params.OptionalMonth("effectiveUntilMonth", body.Until)
	if err != nil {
		return ledger.BudgetVersion{}, err
	}
	return ledger.BudgetVersion{
		MonthlyAmount: amount,
		From:          from,
		Until:         until,
		ChangeReason:  body.ChangeReason,
	}, nil
}
