package queries

import (
	"errors"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrGetSLAComplianceReportQueryIsNotConstructed = errors.New(
	"GetSLAComplianceReportQuery must be created via NewGetSLAComplianceReportQuery constructor",
)

// GetSLAComplianceReportQuery tracks every open order at now.
type GetSLAComplianceReportQuery struct {
	now time.Time

	guard guard.ConstructorGuard
}

func NewGetSLAComplianceReportQuery(now time.Time) (GetSLAComplianceReportQuery, error) {
	if now.IsZero() {
		return GetSLAComplianceReportQuery{}, errs.NewValueIsRequiredError("now")
	}
	return GetSLAComplianceReportQuery{now: now, guard: guard.NewConstructorGuard()}, nil
}

func (q GetSLAComplianceReportQuery) Validate() error {
	return q.guard.Validate(ErrGetSLAComplianceReportQueryIsNotConstructed)
}

func (q GetSLAComplianceReportQuery) Now() time.Time { return q.now }
