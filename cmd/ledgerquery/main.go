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
	"crypto/tls"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/blinklabs-io/ledgerquery"
	"github.com/blinklabs-io/ledgerquery/ledger"
)

type nodeListFlag []string

func (n *nodeListFlag) String() string {
	return strings.Join(*n, ",")
}

func (n *nodeListFlag) Set(value string) error {
	*n = append(*n, value)
	return nil
}

type globalFlags struct {
	flagset         *flag.FlagSet
	config          string
	network         string
	addressBook     string
	nodes           nodeListFlag
	operatorID      string
	operatorKey     string
	maxQueryPayment string
	timeout         time.Duration
	useTls          bool
	debug           bool
}

func newGlobalFlags() *globalFlags {
	f := &globalFlags{
		flagset: flag.NewFlagSet(os.Args[0], flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.config,
		"config",
		"",
		"path to a TOML config file",
	)
	f.flagset.StringVar(
		&f.network,
		"network",
		"localnet",
		"named network to use when no nodes are given",
	)
	f.flagset.StringVar(
		&f.addressBook,
		"address-book",
		"",
		"path to a JSON address book listing the network's nodes",
	)
	f.flagset.Var(
		&f.nodes,
		"node",
		"node to query in account=host:port format (may be repeated)",
	)
	f.flagset.StringVar(
		&f.operatorID,
		"operator-id",
		"",
		"account that pays for queries, in shard.realm.num format",
	)
	f.flagset.StringVar(
		&f.operatorKey,
		"operator-key",
		"",
		"hex-encoded ed25519 private key seed of the operator (or LEDGERQUERY_OPERATOR_KEY)",
	)
	f.flagset.StringVar(
		&f.maxQueryPayment,
		"max-query-payment",
		"",
		"most to pay for a single query, in whole units or with a u suffix for smallest units",
	)
	f.flagset.DurationVar(
		&f.timeout,
		"timeout",
		0,
		"overall deadline for each query (defaults to the query's own)",
	)
	f.flagset.BoolVar(&f.useTls, "tls", false, "enable TLS")
	f.flagset.BoolVar(&f.debug, "debug", false, "enable debug logging")
	return f
}

// buildConfig merges defaults, the config file and explicitly set flags, in that order
func (f *globalFlags) buildConfig() (cliConfig, error) {
	cfg := defaultConfig()
	if f.config != "" {
		if err := loadConfigFile(f.config, &cfg); err != nil {
			return cliConfig{}, err
		}
	}
	if cfg.OperatorKey == "" {
		cfg.OperatorKey = os.Getenv("LEDGERQUERY_OPERATOR_KEY")
	}
	var err error
	f.flagset.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "network":
			cfg.Network = f.network
		case "address-book":
			cfg.AddressBook = f.addressBook
		case "node":
			cfg.Nodes = nil
			for _, value := range f.nodes {
				node, nodeErr := parseNodeFlag(value)
				if nodeErr != nil {
					err = nodeErr
					return
				}
				cfg.Nodes = append(cfg.Nodes, node)
			}
		case "operator-id":
			cfg.OperatorID = f.operatorID
		case "operator-key":
			cfg.OperatorKey = f.operatorKey
		case "max-query-payment":
			cfg.MaxQueryPayment = f.maxQueryPayment
		case "timeout":
			cfg.Timeout = f.timeout
		case "tls":
			cfg.TLS = f.useTls
		case "debug":
			cfg.Debug = f.debug
		}
	})
	if err != nil {
		return cliConfig{}, err
	}
	return cfg, nil
}

// buildClientOptions turns the config into client options
func buildClientOptions(cfg cliConfig) ([]ledgerquery.ClientOptionFunc, error) {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	)
	opts := []ledgerquery.ClientOptionFunc{
		ledgerquery.WithLogger(logger),
		ledgerquery.WithNodes(cfg.Nodes...),
	}
	if len(cfg.Nodes) == 0 && cfg.AddressBook == "" {
		network := ledgerquery.NetworkByName(cfg.Network)
		if network.Name == ledgerquery.NetworkInvalid.Name {
			return nil, fmt.Errorf("invalid network specified: %s", cfg.Network)
		}
		opts = append(opts, ledgerquery.WithNetwork(network))
	}
	if cfg.AddressBook != "" {
		addressBook, err := ledgerquery.NewAddressBookFromFile(cfg.AddressBook)
		if err != nil {
			return nil, fmt.Errorf("failed to load address book: %w", err)
		}
		opts = append(opts, ledgerquery.WithAddressBook(addressBook))
	}
	if cfg.OperatorID != "" || cfg.OperatorKey != "" {
		if cfg.OperatorID == "" || cfg.OperatorKey == "" {
			return nil, fmt.Errorf("operator ID and operator key must be given together")
		}
		operatorID, err := ledger.ParseAccountID(cfg.OperatorID)
		if err != nil {
			return nil, err
		}
		signer, err := ledger.NewEd25519SignerFromHex(cfg.OperatorKey)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ledgerquery.WithOperator(operatorID, signer))
	}
	if cfg.MaxQueryPayment != "" {
		maxQueryPayment, err := ledger.ParseAmount(cfg.MaxQueryPayment)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ledgerquery.WithMaxQueryPayment(maxQueryPayment))
	}
	if cfg.TLS {
		opts = append(
			opts,
			ledgerquery.WithTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12}),
		)
	}
	return opts, nil
}

func main() {
	f := newGlobalFlags()
	err := f.flagset.Parse(os.Args[1:])
	if err != nil {
		fmt.Printf("failed to parse command args: %s\n", err)
		os.Exit(1)
	}
	cfg, err := f.buildConfig()
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}

	if len(f.flagset.Args()) > 0 {
		switch f.flagset.Arg(0) {
		case "balance":
			runBalance(f, cfg)
		case "info":
			runInfo(f, cfg)
		case "receipt":
			runReceipt(f, cfg)
		case "cost":
			runCost(f, cfg)
		default:
			fmt.Printf("Unknown subcommand: %s\n", f.flagset.Arg(0))
			os.Exit(1)
		}
	} else {
		fmt.Printf("You must specify a subcommand (balance, info, receipt or cost)\n")
		os.Exit(1)
	}
}
