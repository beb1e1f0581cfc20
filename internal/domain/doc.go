// Package domain holds the assignment marketplace types shared by the client
// and the reference backend: users, roles, assignments, payout destinations
// and the financial summary, plus the validating JSON decoder used on every
// backend response.
package domain
