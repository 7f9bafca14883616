// Package scenario evaluates expense scenarios described in YAML files
// without a running server.
//
// A scenario names one group, its members, the expenses recorded against it
// and optionally settlements already paid:
//
//	group:
//	  name: Weekend Trip
//	  members:
//	    - {id: alice, name: Alice}
//	    - {id: bob, name: Bob}
//	expenses:
//	  - description: Dinner
//	    amount: 120.50
//	    paidBy: alice
//	    split: equal
//	  - description: Groceries
//	    amount: 80
//	    paidBy: bob
//	    split: percentage
//	    shares:
//	      - {member: alice, percentage: 25}
//	      - {member: bob, percentage: 75}
//	settlements:
//	  - {from: bob, to: alice, amount: 20}
//
// Members without an id use their name as id. An equal expense without
// members is shared by the whole group.
package scenario

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/splitgroups/internal/calculator"
	"github.com/mmynk/splitgroups/internal/models"
)

// File is the YAML form of a scenario.
type File struct {
	Group       Group        `yaml:"group"`
	Expenses    []Expense    `yaml:"expenses"`
	Settlements []Settlement `yaml:"settlements"`
}

type Group struct {
	Name    string   `yaml:"name"`
	Members []Member `yaml:"members"`
}

type Member struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

type Expense struct {
	Description string   `yaml:"description"`
	Amount      float64  `yaml:"amount"`
	PaidBy      string   `yaml:"paidBy"`
	Split       string   `yaml:"split"`
	Members     []string `yaml:"members"`
	Shares      []Share  `yaml:"shares"`
}

type Share struct {
	Member     string  `yaml:"member"`
	Percentage float64 `yaml:"percentage"`
}

type Settlement struct {
	From   string  `yaml:"from"`
	To     string  `yaml:"to"`
	Amount float64 `yaml:"amount"`
	Note   string  `yaml:"note"`
}

// Result is the outcome of evaluating a scenario.
type Result struct {
	Group    string
	Total    float64
	Balances []models.Balance
	Debts    []models.DebtEdge
}

// Parse decodes a scenario. Unknown fields are rejected.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("scenario is empty")
		}
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	return &f, nil
}

// Load reads and parses the scenario file at path.
func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario: %w", err)
	}
	defer fh.Close()

	f, err := Parse(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Evaluate computes the balances and suggested payments of the scenario.
// Expense and settlement problems are reported with their position in the
// file and satisfy errors.Is(err, calculator.ErrInvalidInput).
func (f *File) Evaluate() (*Result, error) {
	group, err := f.group()
	if err != nil {
		return nil, err
	}

	expenses := make([]models.Expense, len(f.Expenses))
	for i, e := range f.Expenses {
		expense, err := e.build(group, i)
		if err != nil {
			return nil, fmt.Errorf("expense %d (%s): %w", i+1, e.Description, err)
		}
		expenses[i] = expense
	}

	balances, err := calculator.GroupBalances(group, expenses)
	if err != nil {
		return nil, err
	}

	settlements := make([]models.Settlement, len(f.Settlements))
	for i, s := range f.Settlements {
		settlements[i] = models.Settlement{
			ID:           fmt.Sprintf("s%d", i+1),
			GroupID:      group.ID,
			FromMemberID: s.From,
			ToMemberID:   s.To,
			Amount:       s.Amount,
			Note:         s.Note,
		}
	}
	balances, err = calculator.ApplySettlements(balances, settlements)
	if err != nil {
		return nil, err
	}

	return &Result{
		Group:    group.Name,
		Total:    calculator.TotalAmount(expenses),
		Balances: balances,
		Debts:    calculator.SimplifyDebts(balances),
	}, nil
}

func (f *File) group() (models.Group, error) {
	if f.Group.Name == "" {
		return models.Group{}, &calculator.ValidationError{Reason: "group name is required"}
	}
	group := models.Group{ID: f.Group.Name, Name: f.Group.Name}
	for i, m := range f.Group.Members {
		id := m.ID
		if id == "" {
			id = m.Name
		}
		if id == "" {
			return models.Group{}, &calculator.ValidationError{Reason: fmt.Sprintf("member %d needs an id or a name", i+1)}
		}
		if group.HasMember(id) {
			return models.Group{}, &calculator.ValidationError{Reason: fmt.Sprintf("duplicate member %s", id)}
		}
		name := m.Name
		if name == "" {
			name = id
		}
		group.Members = append(group.Members, models.Member{ID: id, Name: name, Email: m.Email})
	}
	return group, nil
}

func (e Expense) build(group models.Group, index int) (models.Expense, error) {
	splitType, err := models.ParseSplitType(e.Split)
	if err != nil {
		return models.Expense{}, &calculator.ValidationError{Reason: err.Error()}
	}

	var policy calculator.SplitPolicy
	switch splitType {
	case models.SplitTypePercentage:
		shares := make([]calculator.MemberShare, len(e.Shares))
		for i, s := range e.Shares {
			shares[i] = calculator.MemberShare{MemberID: s.Member, Percentage: s.Percentage}
		}
		policy = calculator.PercentagePolicy{Shares: shares}
	default:
		members := e.Members
		if len(members) == 0 {
			members = group.MemberIDs()
		}
		policy = calculator.EqualPolicy{Members: members}
	}

	splits, err := calculator.ComputeSplits(policy, e.Amount)
	if err != nil {
		return models.Expense{}, err
	}
	expense := models.Expense{
		ID:          fmt.Sprintf("e%d", index+1),
		GroupID:     group.ID,
		Description: e.Description,
		Amount:      e.Amount,
		PaidBy:      e.PaidBy,
		SplitType:   splitType,
		Splits:      splits,
	}
	if err := calculator.ValidateExpense(group, expense); err != nil {
		return models.Expense{}, err
	}
	return expense, nil
}
