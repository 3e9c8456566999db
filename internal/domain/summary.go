package domain

import "github.com/shopspring/decimal"

// StatBlock is a count/amount pair with its derived average.
type StatBlock struct {
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
	Avg    decimal.Decimal `json:"avg"`
}

func (b *StatBlock) Add(count int64, amount decimal.Decimal) {
	b.Count += count
	b.Amount = b.Amount.Add(amount)
	b.Avg = Average(b.Amount, b.Count)
}

type BuySellNet struct {
	Buy  StatBlock `json:"buy"`
	Sell StatBlock `json:"sell"`
	Net  StatBlock `json:"net"`
}

// Settle recomputes Net from Buy and Sell.
func (b *BuySellNet) Settle() {
	b.Net.Count = b.Buy.Count - b.Sell.Count
	b.Net.Amount = b.Buy.Amount.Sub(b.Sell.Amount)
	b.Net.Avg = Average(b.Net.Amount, b.Net.Count)
}

type StrikeBlock struct {
	StrikePrice decimal.Decimal `json:"strike_price"`
	CallShares  int64           `json:"call_total_share"`
	CallAvg     decimal.Decimal `json:"call_avg"`
	CallAmount  decimal.Decimal `json:"call_amount"`
	PutShares   int64           `json:"put_total_share"`
	PutAvg      decimal.Decimal `json:"put_avg"`
	PutAmount   decimal.Decimal `json:"put_amount"`
}

type StatusSummary struct {
	Kostak       map[InvestorTier]*BuySellNet `json:"kostak"`
	SubjectTo    map[InvestorTier]*BuySellNet `json:"subject_to"`
	Premium      BuySellNet                   `json:"premium"`
	StrikePrices []StrikeBlock                `json:"strike_prices"`
}

// Average is amount/count, zero when count is zero.
func Average(amount decimal.Decimal, count int64) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return amount.Div(decimal.NewFromInt(count))
}

type CategoryBilling struct {
	Count   int64           `json:"count"`
	Alloted int64           `json:"alloted"`
	Billing decimal.Decimal `json:"billing"`
}

func (c CategoryBilling) IsZero() bool {
	return c.Count == 0 && c.Billing.IsZero()
}

type PremiumBilling struct {
	Shares  int64           `json:"shares"`
	Billing decimal.Decimal `json:"billing"`
}

type OptionBilling struct {
	CallAmount decimal.Decimal `json:"call_amount"`
	PutAmount  decimal.Decimal `json:"put_amount"`
}

type GroupBilling struct {
	GroupID         string          `json:"group_id"`
	GroupName       string          `json:"group_name"`
	Retail          CategoryBilling `json:"retail"`
	SHNI            CategoryBilling `json:"shni"`
	BHNI            CategoryBilling `json:"bhni"`
	SubjectToRetail CategoryBilling `json:"subject_to_retail"`
	SubjectToSHNI   CategoryBilling `json:"subject_to_shni"`
	SubjectToBHNI   CategoryBilling `json:"subject_to_bhni"`
	Premium         PremiumBilling  `json:"premium"`
	Options         OptionBilling   `json:"options"`
	TotalShares     int64           `json:"total_shares"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

// AllZero reports whether every bucket of the group is zero.
func (g *GroupBilling) AllZero() bool {
	for _, c := range []CategoryBilling{g.Retail, g.SHNI, g.BHNI, g.SubjectToRetail, g.SubjectToSHNI, g.SubjectToBHNI} {
		if !c.IsZero() {
			return false
		}
	}
	return g.Premium.Shares == 0 && g.Premium.Billing.IsZero() &&
		g.Options.CallAmount.IsZero() && g.Options.PutAmount.IsZero()
}

type ClientBillingRow struct {
	UnitID        string          `json:"unit_id"`
	LineID        string          `json:"line_id"`
	PAN           string          `json:"pan"`
	ClientName    string          `json:"client_name"`
	DematNumber   string          `json:"demat_number"`
	ApplicationNo string          `json:"application_no"`
	GroupID       string          `json:"group_id"`
	GroupName     string          `json:"group_name"`
	Direction     Direction       `json:"direction"`
	Category      Category        `json:"category"`
	Investor      InvestorTier    `json:"investor"`
	StrikePrice   string          `json:"strike_price"`
	Rate          decimal.Decimal `json:"rate"`
	AllottedQty   *int            `json:"allotted_qty"`
	Amount        decimal.Decimal `json:"amount"`
}

type DashboardRow struct {
	GroupID      string          `json:"group_id"`
	GroupName    string          `json:"group_name"`
	OfferingID   string          `json:"offering_id"`
	OfferingName string          `json:"offering_name"`
	Collection   decimal.Decimal `json:"collection"`
	Due          decimal.Decimal `json:"due"`
	Total        decimal.Decimal `json:"total"`
}

type DashboardFooter struct {
	Collection decimal.Decimal `json:"collection"`
	Due        decimal.Decimal `json:"due"`
	Total      decimal.Decimal `json:"total"`
}
