package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"strings"

	"expensetracker/internal/core"
	"expensetracker/internal/services"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// Ledger is the subset of the query engine the commands call.
type Ledger interface {
	AddExpense(ctx context.Context, p services.AddExpenseParams) services.Result[services.AddedExpense]
	ListExpenses(ctx context.Context, startDate, endDate string) services.Result[services.ExpenseList]
	Summarize(ctx context.Context, startDate, endDate, category string) services.Result[services.Summary]
}

type App struct {
	Stdout io.Writer
	Stderr io.Writer
	// Open is called once per command that touches the store.
	Open func(ctx context.Context) (Ledger, func(), error)
}

// Run executes one command and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		a.usage()
		return exitUsage
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "add":
		return a.add(ctx, rest)
	case "list":
		return a.list(ctx, rest)
	case "summarize":
		return a.summarize(ctx, rest)
	case "categories":
		return a.print(map[string][]string{"categories": core.Categories()}, true)
	case "help", "-h", "--help":
		a.usage()
		return exitOK
	default:
		fmt.Fprintf(a.Stderr, "unknown command %q\n", cmd)
		a.usage()
		return exitUsage
	}
}

func (a *App) add(ctx context.Context, args []string) int {
	fs := a.flagSet("add")
	date := fs.String("date", "", "expense date, YYYY-MM-DD")
	amount := fs.String("amount", "", "positive amount, e.g. 12.50")
	category := fs.String("category", "", "one of: "+strings.Join(core.Categories(), ", "))
	subcategory := optional(fs, "subcategory", "optional subcategory")
	note := optional(fs, "note", "optional free-text note")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	// An unparsable amount becomes NaN so the engine still reports a bad
	// date before a bad amount.
	value, err := core.ParseAmount(*amount)
	if err != nil {
		value = math.NaN()
	}

	return a.withLedger(ctx, func(l Ledger) int {
		return a.print(l.AddExpense(ctx, services.AddExpenseParams{
			Date:        *date,
			Amount:      value,
			Category:    *category,
			Subcategory: subcategory.ptr(),
			Note:        note.ptr(),
		}), false)
	})
}

func (a *App) list(ctx context.Context, args []string) int {
	fs := a.flagSet("list")
	start := fs.String("start", "", "first date, YYYY-MM-DD")
	end := fs.String("end", "", "last date, YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	return a.withLedger(ctx, func(l Ledger) int {
		return a.print(l.ListExpenses(ctx, *start, *end), false)
	})
}

func (a *App) summarize(ctx context.Context, args []string) int {
	fs := a.flagSet("summarize")
	start := fs.String("start", "", "first date, YYYY-MM-DD")
	end := fs.String("end", "", "last date, YYYY-MM-DD")
	category := fs.String("category", "", "only total this category")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	return a.withLedger(ctx, func(l Ledger) int {
		return a.print(l.Summarize(ctx, *start, *end, *category), false)
	})
}

func (a *App) withLedger(ctx context.Context, fn func(Ledger) int) int {
	ledger, closeFn, err := a.Open(ctx)
	if err != nil {
		fmt.Fprintf(a.Stderr, "ledger: %v\n", err)
		return exitError
	}
	defer closeFn()
	return fn(ledger)
}

type statusResult interface {
	OK() bool
}

// print writes v as JSON. Results that carry an error exit non-zero.
func (a *App) print(v any, indent bool) int {
	enc := json.NewEncoder(a.Stdout)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(a.Stderr, "ledger: encode result: %v\n", err)
		return exitError
	}
	if r, ok := v.(statusResult); ok && !r.OK() {
		return exitError
	}
	return exitOK
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	return fs
}

func (a *App) usage() {
	fmt.Fprint(a.Stderr, `usage: ledger <command> [flags]

commands:
  add         record an expense (-date, -amount, -category, -subcategory, -note)
  list        list expenses in a date range (-start, -end)
  summarize   total expenses per category (-start, -end, -category)
  categories  print the allowed categories
`)
}

// optionalString distinguishes an unset flag from one set to "".
type optionalString struct {
	value string
	set   bool
}

func optional(fs *flag.FlagSet, name, usage string) *optionalString {
	o := &optionalString{}
	fs.Var(o, name, usage)
	return o
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(s string) error {
	o.value, o.set = s, true
	return nil
}

func (o *optionalString) ptr() *string {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}
