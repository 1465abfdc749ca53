package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/spendtag/cmd/aliases"
	"fjacquet/spendtag/cmd/approve"
	"fjacquet/spendtag/cmd/duplicates"
	"fjacquet/spendtag/cmd/enrich"
	"fjacquet/spendtag/cmd/list"
	"fjacquet/spendtag/cmd/normalize"
	"fjacquet/spendtag/cmd/recurring"
	"fjacquet/spendtag/cmd/report"
	"fjacquet/spendtag/cmd/root"
	"fjacquet/spendtag/cmd/rules"
	"fjacquet/spendtag/cmd/split"
	"fjacquet/spendtag/cmd/status"
	"fjacquet/spendtag/cmd/tag"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(enrich.Cmd)
	root.Cmd.AddCommand(list.Cmd)
	root.Cmd.AddCommand(normalize.Cmd)
	root.Cmd.AddCommand(duplicates.Cmd)
	root.Cmd.AddCommand(recurring.Cmd)
	root.Cmd.AddCommand(tag.Cmd)
	root.Cmd.AddCommand(approve.Cmd)
	root.Cmd.AddCommand(status.Cmd)
	root.Cmd.AddCommand(split.Cmd)
	root.Cmd.AddCommand(split.UnsplitCmd)
	root.Cmd.AddCommand(rules.Cmd)
	root.Cmd.AddCommand(aliases.Cmd)
	root.Cmd.AddCommand(report.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
