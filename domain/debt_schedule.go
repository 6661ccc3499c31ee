package domain

type DebtScheduleInput struct {
	Inputs    ValuationInputs `json:"inputs"`
	Principal float64         `json:"principal,omitempty"` // 0 means maxBorrowingAmount
}

type DebtScheduleYear struct {
	Year           int     `json:"year"`
	OpeningBalance float64 `json:"openingBalance"`
	Payment        float64 `json:"payment"`
	Interest       float64 `json:"interest"`
	Principal      float64 `json:"principal"`
	ClosingBalance float64 `json:"closingBalance"`
	CoverageEBITDA float64 `json:"coverageEBITDA"`
	DSCR           float64 `json:"dscr"`
}

type DebtSchedule struct {
	Principal       float64            `json:"principal"`
	InterestRate    float64            `json:"interestRate"`
	LoanPeriodYears float64            `json:"loanPeriodYears"`
	AnnualPayment   float64            `json:"annualPayment"`
	TotalInterest   float64            `json:"totalInterest"`
	MinDSCR         float64            `json:"minDSCR"`
	Years           []DebtScheduleYear `json:"years"`
}
