package models

// Balance is a member's net position within one group.
// Positive = the member is owed money, negative = the member owes money.
type Balance struct {
	MemberID   string
	MemberName string
	Amount     float64
	TotalPaid  float64 // paid across all expenses
	TotalShare float64 // charged across all splits
}

// GroupBalance holds the balances of every member of one group.
type GroupBalance struct {
	GroupID   string
	GroupName string
	Balances  []Balance
}

// UserBalance summarizes one member's position across groups.
type UserBalance struct {
	MemberID      string
	TotalOwed     float64 // money owed to the member
	TotalOwing    float64 // money the member owes
	GroupBalances []GroupBalance
}

// DebtEdge is a suggested payment from one member to another.
type DebtEdge struct {
	From   string // member who owes
	To     string // member who is owed
	Amount float64
}
