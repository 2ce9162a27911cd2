package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"outlay/internal/api"
	"outlay/internal/expense"
)

const formDateFormat = "2006-01-02"

const (
	fieldDescription = iota
	fieldAmount
	fieldDate
	fieldCount
)

var formLabels = [fieldCount]string{"Description", "Amount", "Date"}

// manageForm backs the create/edit expense modal. An empty editingID
// means the form creates a new expense.
type manageForm struct {
	editingID string
	fields    [fieldCount]string
	focus     int
}

func newManageForm(now time.Time) manageForm {
	var f manageForm
	f.fields[fieldDate] = now.Format(formDateFormat)
	return f
}

func editManageForm(e expense.Expense) manageForm {
	var f manageForm
	f.editingID = e.ID
	f.fields[fieldDescription] = e.Description
	f.fields[fieldAmount] = strconv.FormatFloat(e.Amount, 'f', 2, 64)
	f.fields[fieldDate] = e.Date.Format(formDateFormat)
	return f
}

// validate turns the raw field values into a draft, mirroring the
// invariants of the domain: description present, amount a non-negative
// number, date a real calendar date.
func (f *manageForm) validate() (api.Draft, error) {
	desc := strings.TrimSpace(f.fields[fieldDescription])
	if desc == "" {
		return api.Draft{}, errors.New("description is required")
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(f.fields[fieldAmount]), 64)
	if err != nil {
		return api.Draft{}, fmt.Errorf("amount %q is not a number", f.fields[fieldAmount])
	}
	if amount < 0 {
		return api.Draft{}, errors.New("amount must not be negative")
	}
	date, err := time.Parse(formDateFormat, strings.TrimSpace(f.fields[fieldDate]))
	if err != nil {
		return api.Draft{}, fmt.Errorf("date %q is not YYYY-MM-DD", f.fields[fieldDate])
	}
	return api.Draft{Description: desc, Amount: amount, Date: date}, nil
}
