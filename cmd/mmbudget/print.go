package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/James-hg/MountMadness2026/internal/core"
)

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func printPlan(plan core.PlanExport) {
	fmt.Printf("Budget plan %s: total %s %s (%s)\n",
		plan.Month, core.FormatCents(plan.TotalCents), plan.Currency, plan.Strategy)

	w := newTable()
	fmt.Fprintln(w, "CATEGORY\tLIMIT\tFLAGS")
	for _, row := range plan.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\n", row.Slug, core.FormatCents(row.LimitCents), rowFlags(row.IsFixed, row.IsUserModified))
	}
	w.Flush()
}

func printSummary(summary core.MonthSummary) {
	fmt.Printf("Budget %s: total %s %s, spent %s\n",
		summary.MonthStart.Label(), core.FormatCents(summary.Total.Cents),
		summary.Currency, core.FormatCents(summary.TotalSpent.Cents))

	w := newTable()
	fmt.Fprintln(w, "CATEGORY\tLIMIT\tSPENT\tREMAINING\tSTATUS")
	for _, line := range summary.Lines {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			line.Slug, core.FormatCents(line.Limit.Cents), core.FormatCents(line.Spent.Cents),
			core.FormatCents(line.Remaining.Cents), line.Status)
	}
	w.Flush()
}

func printTransactions(month core.MonthStart, list []core.Transaction, slugs map[uuid.UUID]string) {
	if len(list) == 0 {
		fmt.Printf("No transactions in %s\n", month.Label())
		return
	}

	w := newTable()
	fmt.Fprintln(w, "DATE\tCATEGORY\tKIND\tAMOUNT\tMERCHANT\tID")
	for _, t := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.OccurredOn.Format("2006-01-02"), orDash(slugs[t.CategoryID]), t.Kind,
			core.FormatCents(t.Amount.Cents), orDash(t.Merchant), t.ID)
	}
	w.Flush()
}

func printCategories(list []core.Category, fixed map[uuid.UUID]bool) {
	w := newTable()
	fmt.Fprintln(w, "SLUG\tNAME\tSOURCE\tFIXED")
	for _, c := range list {
		source := "custom"
		if c.IsSystem {
			source = "system"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Slug, c.Name, source, yesNo(fixed[c.ID]))
	}
	w.Flush()
}

func printRules(rules []core.RecurringRule, slugs map[uuid.UUID]string) {
	if len(rules) == 0 {
		fmt.Println("No recurring rules")
		return
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tCATEGORY\tKIND\tAMOUNT\tFREQUENCY\tNEXT DUE\tACTIVE")
	for _, r := range rules {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, orDash(slugs[r.CategoryID]), r.Kind, core.FormatCents(r.Amount.Cents),
			r.Frequency, r.NextDueDate.Format("2006-01-02"), yesNo(r.IsActive))
	}
	w.Flush()
}

func rowFlags(fixed, pinned bool) string {
	var flags []string
	if fixed {
		flags = append(flags, "fixed")
	}
	if pinned {
		flags = append(flags, "pinned")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
