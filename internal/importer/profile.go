package importer

// amountMode determines how the expense amount is read from a row.
type amountMode int

const (
	// amountPlain is one positive column; every row is an expense.
	amountPlain amountMode = iota
	// amountSigned is one signed column; only negative rows (debits) are imported.
	amountSigned
	// amountSplit has separate debit and credit columns; only debits are imported.
	amountSplit
)

// numberStyle is the decimal convention of the amount columns.
type numberStyle int

const (
	decimalPoint numberStyle = iota // 1,234.56
	decimalComma                    // 1.234,56
)

// Profile describes the column layout of a supported CSV export. Column names
// are matched case-insensitively after trimming.
type Profile struct {
	Name        string
	DateCol     string
	DescCol     string
	AmountMode  amountMode
	AmountCol   string // amountPlain and amountSigned
	DebitCol    string // amountSplit
	CreditCol   string // amountSplit
	CategoryCol string // optional
	StatusCol   string // optional
	Numbers     numberStyle
	DateLayouts []string
}

// requiredCols returns the columns that must be present for the profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountPlain, amountSigned:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// bank reports whether the profile is a bank export, where rows that cannot be
// read are footers or balances and are skipped rather than reported.
func (p Profile) bank() bool {
	return p.AmountMode != amountPlain
}

var (
	isoLayouts      = []string{"2006-01-02", "2006/01/02"}
	europeanLayouts = []string{"02-01-2006", "02/01/2006", "2006-01-02"}
)

// profiles is tried in order against each row until a header matches. More
// specific layouts come first.
var profiles = []Profile{
	{
		Name:        "cgd-card",
		DateCol:     "data",
		DescCol:     "descrição",
		AmountMode:  amountSplit,
		DebitCol:    "débito",
		CreditCol:   "crédito",
		Numbers:     decimalComma,
		DateLayouts: europeanLayouts,
	},
	{
		Name:        "cgd-statement",
		DateCol:     "data mov.",
		DescCol:     "descrição",
		AmountMode:  amountSigned,
		AmountCol:   "movimento",
		Numbers:     decimalComma,
		DateLayouts: europeanLayouts,
	},
	{
		Name:        "cgd-account",
		DateCol:     "data mov.",
		DescCol:     "descrição",
		AmountMode:  amountSigned,
		AmountCol:   "montante",
		Numbers:     decimalComma,
		DateLayouts: europeanLayouts,
	},
	{
		Name:        "card",
		DateCol:     "date",
		DescCol:     "description",
		AmountMode:  amountSplit,
		DebitCol:    "debit",
		CreditCol:   "credit",
		Numbers:     decimalPoint,
		DateLayouts: isoLayouts,
	},
	{
		Name:        "statement",
		DateCol:     "transaction date",
		DescCol:     "description",
		AmountMode:  amountSigned,
		AmountCol:   "amount",
		Numbers:     decimalPoint,
		DateLayouts: isoLayouts,
	},
	{
		Name:        "generic",
		DateCol:     "date",
		DescCol:     "description",
		AmountMode:  amountPlain,
		AmountCol:   "amount",
		CategoryCol: "category",
		StatusCol:   "status",
		Numbers:     decimalPoint,
		DateLayouts: isoLayouts,
	},
}
