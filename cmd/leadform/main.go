// Command leadform walks the two-step cash-offer form in a terminal and
// submits to a running API server.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/enmirex/cashoffer/internal/leadform"
)

type prompt struct {
	field leadform.Field
	label string
}

var propertyPrompts = []prompt{
	{leadform.FieldPropertyAddress, "Property address*"},
	{leadform.FieldCity, "City*"},
	{leadform.FieldState, "State*"},
	{leadform.FieldZipCode, "ZIP code*"},
	{leadform.FieldPropertyType, "Property type"},
	{leadform.FieldBedrooms, "Bedrooms"},
	{leadform.FieldBathrooms, "Bathrooms"},
	{leadform.FieldSquareFootage, "Square footage"},
	{leadform.FieldPropertyCondition, "Condition"},
	{leadform.FieldPhoneNumber, "Phone number*"},
}

var detailPrompts = []prompt{
	{leadform.FieldSellingReason, "Reason for selling (enter \"other\" to describe)"},
	{leadform.FieldOtherReason, "Other reason"},
	{leadform.FieldFullName, "Full name*"},
	{leadform.FieldEmail, "Email*"},
	{leadform.FieldAdditionalDetails, "Additional details"},
}

var errInputClosed = errors.New("input closed")

// clearAnswer empties a field; a blank answer keeps the current value.
const clearAnswer = "-"

func main() {
	baseURL := flag.String("api", "http://localhost:5000", "API base URL")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	form := leadform.New(leadform.NewHTTPSubmitter(*baseURL, nil))
	if err := run(ctx, os.Stdin, os.Stdout, form); err != nil && !errors.Is(err, errInputClosed) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, in io.Reader, out io.Writer, form *leadform.Form) error {
	sc := bufio.NewScanner(in)
	fmt.Fprintf(out, "Press enter to keep an answer, %q to clear it.\n", clearAnswer)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch form.Step() {
		case leadform.StepProperty:
			fmt.Fprintln(out, "Step 1 of 2: property and contact")
			if err := fill(sc, out, form, propertyPrompts); err != nil {
				return err
			}
			if err := form.Next(); err != nil {
				printNotice(out, form.Notice())
			}
		case leadform.StepDetails:
			fmt.Fprintln(out, "Step 2 of 2: about you")
			if err := fill(sc, out, form, detailPrompts); err != nil {
				return err
			}
			action, err := ask(sc, out, "submit, back or quit", "submit")
			if err != nil {
				return err
			}
			switch strings.ToLower(action) {
			case "back":
				_ = form.Back()
			case "quit":
				return nil
			default:
				err := form.Submit(ctx)
				printNotice(out, form.Notice())
				if err != nil {
					continue
				}
				again, err := ask(sc, out, "submit another? (y/N)", "n")
				if err != nil || !strings.HasPrefix(strings.ToLower(again), "y") {
					return err
				}
			}
		}
	}
}

func fill(sc *bufio.Scanner, out io.Writer, form *leadform.Form, prompts []prompt) error {
	for _, p := range prompts {
		if p.field == leadform.FieldOtherReason && !form.ShowsOtherReason() {
			continue
		}
		v, err := ask(sc, out, p.label, form.Value(p.field))
		if err != nil {
			return err
		}
		_ = form.Set(p.field, v)
	}
	return nil
}

// ask keeps current when the answer is blank and returns "" for clearAnswer.
func ask(sc *bufio.Scanner, out io.Writer, label, current string) (string, error) {
	if current != "" {
		fmt.Fprintf(out, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(out, "%s: ", label)
	}
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	switch v := strings.TrimSpace(sc.Text()); v {
	case "":
		return current, nil
	case clearAnswer:
		return "", nil
	default:
		return v, nil
	}
}

func printNotice(out io.Writer, n leadform.Notice) {
	if n.Kind == leadform.NoticeNone {
		return
	}
	fmt.Fprintf(out, "%s %s\n", n.Title, n.Message)
	for _, f := range n.Missing {
		fmt.Fprintf(out, "  - %s is required\n", f)
	}
	for _, fe := range n.Fields {
		fmt.Fprintf(out, "  - %s\n", fe.Message)
	}
}
