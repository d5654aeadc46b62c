package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/court-calendar/internal/hearing"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortNone    SortOrder = "none"
	SortByDate  SortOrder = "date"
	SortByCourt SortOrder = "court"
	SortByCase  SortOrder = "case"
)

func parseSortOrder(s string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	switch order {
	case "":
		return SortNone, nil
	case SortNone, SortByDate, SortByCourt, SortByCase:
		return order, nil
	}
	return "", fmt.Errorf("invalid sort order: %s (must be none, date, court or case)", s)
}

// sortCases sorts hearings in place. SortNone keeps the page order.
func sortCases(cases []hearing.Case, order SortOrder) {
	switch order {
	case SortByDate:
		hearing.SortByStart(cases)
	case SortByCourt:
		hearing.SortByStart(cases)
		sort.SliceStable(cases, func(i, j int) bool {
			return strings.ToLower(cases[i].Court) < strings.ToLower(cases[j].Court)
		})
	case SortByCase:
		hearing.SortByStart(cases)
		sort.SliceStable(cases, func(i, j int) bool {
			return cases[i].CaseNumber < cases[j].CaseNumber
		})
	}
}
