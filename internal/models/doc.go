// Package models defines the core domain models for splitgroups.
//
// # Models
//
//   - Member: a participant identified by an opaque ID, with a name and email
//   - Group: a named set of Members that share Expenses
//   - Expense: a payment by one Member, divided among Members via Splits
//   - Split: one Member's share of an Expense
//   - Settlement: a payment between two Members that clears debt
//
// Balances (Balance, GroupBalance, UserBalance, DebtEdge) are derived values.
// They are computed by the calculator package from Groups, Expenses and
// Settlements and are never stored.
//
// # Design Principles
//
//  1. Relationships use ID strings instead of pointers.
//  2. Monetary amounts are float64 currency units at this level; the
//     calculator works in integer cents internally.
//  3. Timestamps are Unix seconds.
package models
