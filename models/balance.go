package models

// FundAmount is a single balance expressed in the base unit plus the
// deployment's display fiat.
type FundAmount struct {
	ETH  float64 `json:"eth"`
	Fiat float64 `json:"fiat"`
}

// BalanceSummary is returned for GET /api/balances: the caller's individual
// fund plus the sum of the communal funds they belong to.
type BalanceSummary struct {
	Individual FundAmount `json:"individual"`
	Communal   FundAmount `json:"communal"`
	Currency   string     `json:"currency"` // fiat code, e.g. HNL
	Rate       float64    `json:"rate"`     // 1 ETH in fiat
}
