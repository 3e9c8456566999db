package domain

import "strings"

type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

type Category string

const (
	CategoryKostak    Category = "Kostak"
	CategorySubjectTo Category = "SubjectTo"
	CategoryPremium   Category = "Premium"
	CategoryCall      Category = "Call"
	CategoryPut       Category = "Put"
)

type InvestorTier string

const (
	InvestorRetail  InvestorTier = "Retail"
	InvestorSHNI    InvestorTier = "SHNI"
	InvestorBHNI    InvestorTier = "BHNI"
	InvestorPremium InvestorTier = "Premium"
	InvestorOptions InvestorTier = "Options"
)

// BaseInvestorTiers are the tiers every Kostak/SubjectTo summary carries.
var BaseInvestorTiers = []InvestorTier{InvestorRetail, InvestorSHNI, InvestorBHNI}

type AmountType string

const (
	AmountDebit  AmountType = "DEBIT"
	AmountCredit AmountType = "CREDIT"
)

// Lifecycle is the explicit deletion state of a record.
type Lifecycle string

const (
	LifecycleActive  Lifecycle = "ACTIVE"
	LifecycleDeleted Lifecycle = "DELETED"
)

// StrikeKind tells whether OrderLine.StrikePrice holds a marker or a numeric strike.
type StrikeKind string

const (
	StrikeApplication StrikeKind = "Application"
	StrikePremium     StrikeKind = "Premium"
	StrikeValue       StrikeKind = "Strike"
)

var (
	directionNames = vocabulary(DirectionBuy, DirectionSell)
	categoryNames  = vocabulary(CategoryKostak, CategorySubjectTo, CategoryPremium, CategoryCall, CategoryPut)
	investorNames  = vocabulary(InvestorRetail, InvestorSHNI, InvestorBHNI, InvestorPremium, InvestorOptions)
	amountNames    = vocabulary(AmountDebit, AmountCredit)
)

func vocabulary[T ~string](values ...T) map[string]T {
	m := make(map[string]T, len(values))
	for _, v := range values {
		m[strings.ToLower(string(v))] = v
	}
	return m
}

func lookup[T ~string](vocab map[string]T, s string) (T, bool) {
	v, ok := vocab[strings.ToLower(strings.TrimSpace(s))]
	return v, ok
}

func ParseDirection(s string) (Direction, bool) { return lookup(directionNames, s) }

func ParseCategory(s string) (Category, bool) { return lookup(categoryNames, s) }

func ParseInvestorTier(s string) (InvestorTier, bool) { return lookup(investorNames, s) }

func ParseAmountType(s string) (AmountType, bool) { return lookup(amountNames, s) }

func (d Direction) Valid() bool {
	v, ok := directionNames[strings.ToLower(string(d))]
	return ok && v == d
}

func (c Category) Valid() bool {
	v, ok := categoryNames[strings.ToLower(string(c))]
	return ok && v == c
}

func (t InvestorTier) Valid() bool {
	v, ok := investorNames[strings.ToLower(string(t))]
	return ok && v == t
}

func (a AmountType) Valid() bool {
	v, ok := amountNames[strings.ToLower(string(a))]
	return ok && v == a
}

// IsOption reports whether lines of this category carry a numeric strike.
func (c Category) IsOption() bool {
	return c == CategoryCall || c == CategoryPut
}

// Sign is +1 for buys and -1 for sells.
func (d Direction) Sign() int64 {
	if d == DirectionSell {
		return -1
	}
	return 1
}
