package types

import "time"

// for mongo
//	time: 快照时间
//	label: 账户标签
//	curLtv: 当前质押率(百分比)
type LoanSnapshot struct {
	Time          time.Time    `bson:"time" json:"time"`
	Label         string       `bson:"label" json:"label" gorm:"Column:label"`
	Equity        float64      `bson:"equity" json:"equity" gorm:"Column:equity"`
	CollateralUsd float64      `bson:"collateralUsd" json:"collateralUsd" gorm:"Column:collateral_usd"`
	LoanUsd       float64      `bson:"loanUsd" json:"loanUsd" gorm:"Column:loan_usd"`
	CurLTV        float64      `bson:"curLtv" json:"curLtv" gorm:"Column:cur_ltv"`
	MarginCallLTV float64      `bson:"marginCallLtv" json:"marginCallLtv" gorm:"Column:margin_call_ltv"`
	LiqLTV        float64      `bson:"liqLtv" json:"liqLtv" gorm:"Column:liq_ltv"`
	Risk          string       `bson:"risk" json:"risk" gorm:"Column:risk"`
	Collateral    []AssetValue `bson:"collateral" json:"collateral,omitempty" gorm:"-"`
	Borrowed      []AssetValue `bson:"borrowed" json:"borrowed,omitempty" gorm:"-"`
}

// one priced position, amount in coin, value in USD
type AssetValue struct {
	Currency string  `bson:"currency" json:"currency"`
	Amount   float64 `bson:"amount" json:"amount"`
	Price    float64 `bson:"price" json:"price"`
	Value    float64 `bson:"value" json:"value"`
}

type LoanSummary struct {
	Hours         int
	Count         int
	First         time.Time
	Last          time.Time
	MinLTV        float64
	MaxLTV        float64
	AvgLTV        float64
	CollateralUsd float64 // latest
	LoanUsd       float64 // latest
}
