// Package api defines the request and response messages of the
// splitgroups.v1 services. Messages are serialized as JSON with lowerCamelCase
// field names; amounts are currency units and timestamps are Unix seconds.
package api

// Member is a participant in a group.
type Member struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewMember describes a member to add to a group.
type NewMember struct {
	Id    string `json:"id,omitempty"`
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email"`
}

// Group is a named collection of members sharing expenses.
type Group struct {
	Id            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Members       []*Member `json:"members"`
	TotalExpenses float64   `json:"totalExpenses"`
	CreatedAt     int64     `json:"createdAt"`
}

// Split is one member's share of an expense.
type Split struct {
	MemberId   string  `json:"memberId"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage,omitempty"`
}

// Share assigns a percentage of an expense to a member.
type Share struct {
	MemberId   string  `json:"memberId" validate:"required"`
	Percentage float64 `json:"percentage" validate:"gte=0,lte=100"`
}

// Expense is a payment by one member divided among members.
type Expense struct {
	Id          string   `json:"id"`
	GroupId     string   `json:"groupId"`
	GroupName   string   `json:"groupName,omitempty"`
	Description string   `json:"description"`
	Amount      float64  `json:"amount"`
	PaidBy      string   `json:"paidBy"`
	SplitType   string   `json:"splitType"`
	Splits      []*Split `json:"splits"`
	CreatedAt   int64    `json:"createdAt"`
}

// Balance is a member's net position in a group.
// Positive = owed money, negative = owes money.
type Balance struct {
	MemberId   string  `json:"memberId"`
	MemberName string  `json:"memberName"`
	Amount     float64 `json:"amount"`
	TotalPaid  float64 `json:"totalPaid"`
	TotalShare float64 `json:"totalShare"`
}

// GroupBalance holds the balances of one group.
type GroupBalance struct {
	GroupId   string     `json:"groupId"`
	GroupName string     `json:"groupName"`
	Balances  []*Balance `json:"balances"`
}

// DebtEdge is a suggested payment between two members.
type DebtEdge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// Settlement is a recorded payment between two members.
type Settlement struct {
	Id           string  `json:"id"`
	GroupId      string  `json:"groupId"`
	FromMemberId string  `json:"fromMemberId"`
	ToMemberId   string  `json:"toMemberId"`
	Amount       float64 `json:"amount"`
	Note         string  `json:"note,omitempty"`
	CreatedAt    int64   `json:"createdAt"`
}

// GroupService messages.

type CreateGroupRequest struct {
	Name        string       `json:"name" validate:"required,max=100"`
	Description string       `json:"description,omitempty" validate:"max=500"`
	Members     []*NewMember `json:"members" validate:"required,min=1,unique_ids,dive,required"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupId string `json:"groupId" validate:"required"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct {
	// MemberId restricts the result to groups containing this member.
	MemberId string `json:"memberId,omitempty"`
}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type AddMembersRequest struct {
	GroupId string       `json:"groupId" validate:"required"`
	Members []*NewMember `json:"members" validate:"required,min=1,unique_ids,dive,required"`
}

type AddMembersResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupId string `json:"groupId" validate:"required"`
}

type DeleteGroupResponse struct{}

type GetGroupBalancesRequest struct {
	GroupId string `json:"groupId" validate:"required"`
}

type GetGroupBalancesResponse struct {
	GroupId   string      `json:"groupId"`
	GroupName string      `json:"groupName"`
	Balances  []*Balance  `json:"balances"`
	Debts     []*DebtEdge `json:"debts"`
}

type GetUserBalanceRequest struct {
	MemberId string `json:"memberId" validate:"required"`
}

type GetUserBalanceResponse struct {
	MemberId      string          `json:"memberId"`
	TotalOwed     float64         `json:"totalOwed"`
	TotalOwing    float64         `json:"totalOwing"`
	GroupBalances []*GroupBalance `json:"groupBalances"`
}

// ExpenseService messages.

type PreviewSplitRequest struct {
	Amount    float64  `json:"amount" validate:"gt=0"`
	SplitType string   `json:"splitType" validate:"required,oneof=equal percentage"`
	MemberIds []string `json:"memberIds,omitempty" validate:"required_if=SplitType equal,dive,required"`
	Shares    []*Share `json:"shares,omitempty" validate:"required_if=SplitType percentage,dive,required"`
}

type PreviewSplitResponse struct {
	Splits []*Split `json:"splits"`
}

type CreateExpenseRequest struct {
	GroupId     string  `json:"groupId" validate:"required"`
	Description string  `json:"description" validate:"required,max=200"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	PaidBy      string  `json:"paidBy" validate:"required"`
	SplitType   string  `json:"splitType" validate:"required,oneof=equal percentage"`
	// MemberIds selects who shares an equal split. Empty means every group member.
	MemberIds []string `json:"memberIds,omitempty" validate:"dive,required"`
	Shares    []*Share `json:"shares,omitempty" validate:"required_if=SplitType percentage,dive,required"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseId string `json:"expenseId" validate:"required"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesByGroupRequest struct {
	GroupId string `json:"groupId" validate:"required"`
}

type ListExpensesByGroupResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type ListRecentExpensesRequest struct {
	// Limit caps the number of expenses returned. Zero means the server default.
	Limit int `json:"limit,omitempty" validate:"gte=0,lte=100"`
}

type ListRecentExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type DeleteExpenseRequest struct {
	ExpenseId string `json:"expenseId" validate:"required"`
}

type DeleteExpenseResponse struct{}

type RecordSettlementRequest struct {
	GroupId      string  `json:"groupId" validate:"required"`
	FromMemberId string  `json:"fromMemberId" validate:"required"`
	ToMemberId   string  `json:"toMemberId" validate:"required,nefield=FromMemberId"`
	Amount       float64 `json:"amount" validate:"gt=0"`
	Note         string  `json:"note,omitempty" validate:"max=200"`
}

type RecordSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type ListSettlementsRequest struct {
	GroupId string `json:"groupId" validate:"required"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}
