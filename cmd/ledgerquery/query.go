// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/blinklabs-io/ledgerquery"
	"github.com/blinklabs-io/ledgerquery/ledger"
	"github.com/blinklabs-io/ledgerquery/query"
)

type queryFlags struct {
	flagset         *flag.FlagSet
	queryPayment    string
	maxQueryPayment string
}

func newQueryFlags(name string) *queryFlags {
	f := &queryFlags{
		flagset: flag.NewFlagSet(name, flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.queryPayment,
		"payment",
		"",
		"pay exactly this amount instead of asking the node for the cost",
	)
	f.flagset.StringVar(
		&f.maxQueryPayment,
		"max-payment",
		"",
		"most to pay for this query, overriding the global ceiling",
	)
	return f
}

// parse parses the subcommand args and returns the remaining positional args
func (f *queryFlags) parse(args []string, want int, usage string) []string {
	if err := f.flagset.Parse(args); err != nil {
		fmt.Printf("failed to parse subcommand args: %s\n", err)
		os.Exit(1)
	}
	if f.flagset.NArg() != want {
		fmt.Printf("Usage: %s\n", usage)
		os.Exit(1)
	}
	return f.flagset.Args()
}

func (f *queryFlags) builderOptions(cfg cliConfig) []query.BuilderOption {
	var opts []query.BuilderOption
	if cfg.Timeout > 0 {
		opts = append(opts, query.WithTimeout(cfg.Timeout))
	}
	if f.queryPayment != "" {
		amount, err := ledger.ParseAmount(f.queryPayment)
		if err != nil {
			fmt.Printf("ERROR: %s\n", err)
			os.Exit(1)
		}
		opts = append(opts, query.WithQueryPayment(amount))
	}
	if f.maxQueryPayment != "" {
		amount, err := ledger.ParseAmount(f.maxQueryPayment)
		if err != nil {
			fmt.Printf("ERROR: %s\n", err)
			os.Exit(1)
		}
		opts = append(opts, query.WithMaxQueryPayment(amount))
	}
	return opts
}

func newClient(cfg cliConfig) *ledgerquery.Client {
	opts, err := buildClientOptions(cfg)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	client, err := ledgerquery.New(opts...)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	return client
}

func parseAccountArg(value string) ledger.AccountID {
	accountID, err := ledger.ParseAccountID(value)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	return accountID
}

// exitOnError closes the client before exiting so pooled connections are released
func exitOnError(client *ledgerquery.Client, err error) {
	if err == nil {
		return
	}
	fmt.Printf("ERROR: %s\n", err)
	_ = client.Close()
	os.Exit(1)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runBalance(f *globalFlags, cfg cliConfig) {
	qf := newQueryFlags("balance")
	args := qf.parse(f.flagset.Args()[1:], 1, "balance [flags] <account>")
	accountID := parseAccountArg(args[0])
	client := newClient(cfg)
	defer client.Close()
	ctx, cancel := signalContext()
	defer cancel()
	balance, err := query.NewAccountBalanceQuery(qf.builderOptions(cfg)...).
		SetAccountID(accountID).
		Execute(ctx, client)
	exitOnError(client, err)
	fmt.Printf("account: %s\n", balance.AccountID)
	fmt.Printf("balance: %s\n", balance.Balance)
}

func runInfo(f *globalFlags, cfg cliConfig) {
	qf := newQueryFlags("info")
	args := qf.parse(f.flagset.Args()[1:], 1, "info [flags] <account>")
	accountID := parseAccountArg(args[0])
	client := newClient(cfg)
	defer client.Close()
	ctx, cancel := signalContext()
	defer cancel()
	info, err := query.NewAccountInfoQuery(qf.builderOptions(cfg)...).
		SetAccountID(accountID).
		Execute(ctx, client)
	exitOnError(client, err)
	fmt.Printf("account:    %s\n", info.AccountID)
	fmt.Printf("key:        %x\n", info.Key)
	fmt.Printf("balance:    %s\n", info.Balance)
	fmt.Printf("deleted:    %t\n", info.Deleted)
	fmt.Printf("expiration: %d\n", info.ExpirationSeconds)
	fmt.Printf("auto renew: %d\n", info.AutoRenewSeconds)
	fmt.Printf("memo:       %s\n", info.Memo)
}

func runReceipt(f *globalFlags, cfg cliConfig) {
	qf := newQueryFlags("receipt")
	args := qf.parse(f.flagset.Args()[1:], 1, "receipt [flags] <account@seconds.nanos>")
	txID, err := ledger.ParseTransactionID(args[0])
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	client := newClient(cfg)
	defer client.Close()
	ctx, cancel := signalContext()
	defer cancel()
	receipt, err := query.NewTransactionReceiptQuery(qf.builderOptions(cfg)...).
		SetTransactionID(txID).
		Execute(ctx, client)
	exitOnError(client, err)
	fmt.Printf("status: %s\n", receipt.Status)
	if receipt.AccountID != nil {
		fmt.Printf("account: %s\n", receipt.AccountID)
	}
}

func runCost(f *globalFlags, cfg cliConfig) {
	qf := newQueryFlags("cost")
	args := qf.parse(f.flagset.Args()[1:], 2, "cost [flags] <balance|info> <account>")
	accountID := parseAccountArg(args[1])
	client := newClient(cfg)
	defer client.Close()
	ctx, cancel := signalContext()
	defer cancel()
	var cost ledger.Amount
	var err error
	switch args[0] {
	case "balance":
		cost, err = query.NewAccountBalanceQuery(qf.builderOptions(cfg)...).
			SetAccountID(accountID).
			GetCost(ctx, client)
	case "info":
		cost, err = query.NewAccountInfoQuery(qf.builderOptions(cfg)...).
			SetAccountID(accountID).
			GetCost(ctx, client)
	default:
		err = fmt.Errorf("unknown query kind: %s", args[0])
	}
	exitOnError(client, err)
	fmt.Printf("cost: %s\n", cost)
}
