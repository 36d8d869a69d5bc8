// Large Expense File Generator
//
// This tool generates a large expense data file for performance testing and profiling.
// It creates realistic expenses spread over several years to stress-test loading,
// filtering and report rendering.
//
// Usage:
//
//	go run main.go > large.json
//	go run main.go 500000 > large.json  # Specify number of expenses
package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/expenses/expense"
)

const (
	defaultCount = 100_000
)

var (
	categories = append(append([]string{}, expense.Presets...), "Rent", "Education", "Pets", "Travel")

	descriptions = map[string][]string{
		"Food":          {"Groceries", "Jollof rice", "Suya", "Coffee", "Restaurant dinner", "Market run"},
		"Transport":     {"Bus fare", "Taxi", "Fuel", "Ride share", "Train ticket"},
		"Bills":         {"Electricity", "Water", "Internet", "Phone airtime", "Cable TV"},
		"Shopping":      {"Clothes", "Shoes", "Electronics", "Household items"},
		"Health":        {"Pharmacy", "Clinic visit", "Gym membership"},
		"Entertainment": {"Cinema", "Concert", "Streaming subscription", "Games"},
		"Other":         {"Gift", "Donation", "Miscellaneous"},
		"Rent":          {"Monthly rent", "Service charge"},
		"Education":     {"Books", "Course fee", "School supplies"},
		"Pets":          {"Pet food", "Vet visit"},
		"Travel":        {"Flight", "Hotel", "Visa fee"},
	}
)

func main() {
	count := defaultCount
	if len(os.Args) > 1 {
		if n, err := strconv.Atoi(os.Args[1]); err == nil && n >= 0 {
			count = n
		}
	}

	doc := generate(count, time.Now())

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode: %v\n", err)
		os.Exit(1)
	}

	_, _ = os.Stdout.Write(append(data, '\n'))
	fmt.Fprintf(os.Stderr, "Generated %d expenses (%d bytes)\n", count, len(data)+1)
}

// generate builds count expenses in chronological order ending at end.
func generate(count int, end time.Time) *expense.Document {
	doc := expense.NewDocument()
	doc.Budget = decimal.NewFromInt(int64(count) * 50)

	// Spread expenses over the last three years, roughly evenly.
	start := end.AddDate(-3, 0, 0)
	step := time.Duration(0)
	if count > 0 {
		step = end.Sub(start) / time.Duration(count)
	}

	current := start
	for i := 0; i < count; i++ {
		category := categories[rand.Intn(len(categories))]
		options := descriptions[category]

		doc.Expenses = append(doc.Expenses, expense.Expense{
			ID:          uuid.New(),
			Amount:      randomAmount(category),
			Category:    category,
			Description: options[rand.Intn(len(options))],
			Date:        expense.FormatDate(current),
		})

		current = current.Add(step + time.Duration(rand.Intn(60))*time.Second)
	}

	return doc
}

func randomAmount(category string) decimal.Decimal {
	var base int64
	switch category {
	case "Rent", "Travel":
		base = 50_000
	case "Bills", "Shopping", "Education":
		base = 10_000
	default:
		base = 2_000
	}
	cents := rand.Int63n(base * 100)
	return decimal.New(cents, -2)
}
