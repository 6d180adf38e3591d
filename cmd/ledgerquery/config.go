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
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/blinklabs-io/ledgerquery/ledger"
	"github.com/blinklabs-io/ledgerquery/query"
)

// cliConfig holds the settings shared by every subcommand
type cliConfig struct {
	Network         string
	AddressBook     string
	Nodes           []query.Node
	OperatorID      string
	OperatorKey     string
	MaxQueryPayment string
	Timeout         time.Duration
	TLS             bool
	Debug           bool
}

func defaultConfig() cliConfig {
	return cliConfig{
		Network: "localnet",
	}
}

type fileConfig struct {
	Network         string           `toml:"network"`
	AddressBook     string           `toml:"address_book"`
	Nodes           []fileNodeConfig `toml:"nodes"`
	OperatorID      string           `toml:"operator_id"`
	OperatorKey     string           `toml:"operator_key"`
	MaxQueryPayment string           `toml:"max_query_payment"`
	Timeout         string           `toml:"timeout"`
	TLS             bool             `toml:"tls"`
	Debug           bool             `toml:"debug"`
}

type fileNodeConfig struct {
	AccountID string `toml:"account_id"`
	Address   string `toml:"address"`
}

// loadConfigFile overlays the settings present in the TOML file at path onto cfg
func loadConfigFile(path string, cfg *cliConfig) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("network") {
		cfg.Network = strings.TrimSpace(raw.Network)
	}

	if meta.IsDefined("address_book") {
		cfg.AddressBook = strings.TrimSpace(raw.AddressBook)
	}

	if meta.IsDefined("nodes") {
		nodes := make([]query.Node, 0, len(raw.Nodes))
		for idx, node := range raw.Nodes {
			accountID, err := ledger.ParseAccountID(node.AccountID)
			if err != nil {
				return fmt.Errorf("parse nodes[%d]: %w", idx, err)
			}
			nodes = append(
				nodes,
				query.Node{
					AccountID: accountID,
					Address:   strings.TrimSpace(node.Address),
				},
			)
		}
		cfg.Nodes = nodes
	}

	if meta.IsDefined("operator_id") {
		cfg.OperatorID = strings.TrimSpace(raw.OperatorID)
	}

	if meta.IsDefined("operator_key") {
		cfg.OperatorKey = strings.TrimSpace(raw.OperatorKey)
	}

	if meta.IsDefined("max_query_payment") {
		cfg.MaxQueryPayment = strings.TrimSpace(raw.MaxQueryPayment)
	}

	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}

	if meta.IsDefined("tls") {
		cfg.TLS = raw.TLS
	}

	if meta.IsDefined("debug") {
		cfg.Debug = raw.Debug
	}

	return nil
}

// parseNodeFlag parses a node given as "account=address"
func parseNodeFlag(value string) (query.Node, error) {
	account, address, ok := strings.Cut(value, "=")
	if !ok || strings.TrimSpace(address) == "" {
		return query.Node{}, fmt.Errorf(
			"invalid node %q: expected account=address",
			value,
		)
	}
	accountID, err := ledger.ParseAccountID(account)
	if err != nil {
		return query.Node{}, err
	}
	return query.Node{
		AccountID: accountID,
		Address:   strings.TrimSpace(address),
	}, nil
}
