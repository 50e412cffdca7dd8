package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/jwalitptl/triage-assistant/internal/model"
	"github.com/jwalitptl/triage-assistant/internal/service/health"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold).SprintFunc()
	successColor = color.New(color.FgGreen).SprintFunc()
	warnColor    = color.New(color.FgYellow).SprintFunc()
	errorColor   = color.New(color.FgRed).SprintFunc()
)

type printer struct {
	out io.Writer
	err io.Writer
}

func newPrinter(out, err io.Writer) printer {
	return printer{out: out, err: err}
}

func (p printer) heading(title string) {
	fmt.Fprintln(p.out, headingColor("== "+title+" =="))
}

func (p printer) line(s string) {
	fmt.Fprintln(p.out, s)
}

func (p printer) success(msg string) {
	fmt.Fprintln(p.out, successColor(msg))
}

func (p printer) warn(msg string) {
	fmt.Fprintln(p.err, warnColor(msg))
}

func (p printer) fail(msg string) {
	fmt.Fprintln(p.err, errorColor(msg))
}

func (p printer) status(st model.ServiceStatus) {
	paint := successColor
	if !st.Available {
		paint = errorColor
	}
	fmt.Fprintln(p.out, paint(health.Mark(st.Available)+" "+st.Label+": "+st.Message))
}
