package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SalaryBand is the fixed bracket a job posting falls into.
type SalaryBand int

const (
	SalaryBandUpTo1K SalaryBand = iota + 1
	SalaryBandFrom1KTo2K
	SalaryBandFrom2KTo3K
	SalaryBandAbove3K
)

var (
	oneThousand   = decimal.NewFromInt(1000)
	twoThousand   = decimal.NewFromInt(2000)
	threeThousand = decimal.NewFromInt(3000)
)

var salaryBandLabels = map[SalaryBand]string{
	SalaryBandUpTo1K:     "Até R$ 1.000",
	SalaryBandFrom1KTo2K: "De 1.000 até R$ 2.000",
	SalaryBandFrom2KTo3K: "De 2.000 até R$ 3.000",
	SalaryBandAbove3K:    "Acima de R$ 3.000",
}

func (b SalaryBand) Valid() bool {
	return b >= SalaryBandUpTo1K && b <= SalaryBandAbove3K
}

func (b SalaryBand) String() string {
	if label, ok := salaryBandLabels[b]; ok {
		return label
	}
	return fmt.Sprintf("SalaryBand(%d)", int(b))
}

// Fits reports whether a salary expectation falls inside the band.
// Boundaries are inclusive, except that the top band starts strictly above 3000.
func (b SalaryBand) Fits(salary decimal.Decimal) bool {
	switch b {
	case SalaryBandUpTo1K:
		return salary.LessThanOrEqual(oneThousand)
	case SalaryBandFrom1KTo2K:
		return salary.GreaterThanOrEqual(oneThousand) && salary.LessThanOrEqual(twoThousand)
	case SalaryBandFrom2KTo3K:
		return salary.GreaterThanOrEqual(twoThousand) && salary.LessThanOrEqual(threeThousand)
	case SalaryBandAbove3K:
		return salary.GreaterThan(threeThousand)
	default:
		return false
	}
}

// SalaryBands lists every band in ascending order.
func SalaryBands() []SalaryBand {
	return []SalaryBand{SalaryBandUpTo1K, SalaryBandFrom1KTo2K, SalaryBandFrom2KTo3K, SalaryBandAbove3K}
}

// Job is a posting owned by a company.
type Job struct {
	ID           int64
	CompanyID    int64
	Title        string
	SalaryBand   SalaryBand
	Requirements string
	MinEducation Education
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Read-model fields populated by listing queries.
	CompanyName      string
	ApplicationCount int
}

// JobFilter narrows job listings. A zero CompanyID lists every company.
type JobFilter struct {
	CompanyID int64
}
