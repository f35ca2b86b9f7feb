// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/hoard-network/hoard/hoard"
	"github.com/hoard-network/hoard/registry"
	"github.com/hoard-network/hoard/vault"
)

// BootConfig seeds the vault configuration at startup. All fields are
// optional; set fields overwrite the stored values.
type BootConfig struct {
	RewardRate    string   `yaml:"rewardRate"`
	LockPeriod    uint64   `yaml:"lockPeriod"`
	MaxPenaltyBps *uint64  `yaml:"maxPenaltyBps"`
	Treasury      string   `yaml:"treasury"`
	Whitelist     []string `yaml:"whitelist"`
	// Mint creates items at startup, for test & dev setups.
	Mint []MintEntry `yaml:"mint"`
}

// MintEntry is one item to mint at startup. Already existing items are
// skipped.
type MintEntry struct {
	Collection string `yaml:"collection"`
	ItemID     string `yaml:"itemID"`
	Owner      string `yaml:"owner"`
}

func loadBootConfig(path string) (*BootConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	var config BootConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	return &config, nil
}

// applyBootConfig writes the configured values through the vault's admin
// surface, so they get the same validation as runtime changes.
func applyBootConfig(config *BootConfig, v *vault.Vault, reg *registry.Registry) error {
	if config.RewardRate != "" {
		rate, ok := new(big.Int).SetString(config.RewardRate, 10)
		if !ok {
			return errors.Errorf("malformed reward rate %q", config.RewardRate)
		}
		if err := v.SetRewardRate(rate); err != nil {
			return err
		}
	}
	if config.LockPeriod != 0 {
		if err := v.SetLockPeriod(config.LockPeriod); err != nil {
			return err
		}
	}
	if config.MaxPenaltyBps != nil {
		if err := v.SetMaxPenaltyBps(*config.MaxPenaltyBps); err != nil {
			return err
		}
	}
	if config.Treasury != "" {
		treasury, err := hoard.ParseAddress(config.Treasury)
		if err != nil {
			return errors.WithMessage(err, "treasury")
		}
		if err := v.SetTreasury(treasury); err != nil {
			return err
		}
	}
	for _, item := range config.Whitelist {
		collection, err := hoard.ParseAddress(item)
		if err != nil {
			return errors.WithMessage(err, "whitelist")
		}
		if err := v.SetWhitelisted(collection, true); err != nil {
			return err
		}
	}
	for _, entry := range config.Mint {
		collection, err := hoard.ParseAddress(entry.Collection)
		if err != nil {
			return errors.WithMessage(err, "mint collection")
		}
		itemID, err := hoard.ParseBytes32(entry.ItemID)
		if err != nil {
			return errors.WithMessage(err, "mint itemID")
		}
		owner, err := hoard.ParseAddress(entry.Owner)
		if err != nil {
			return errors.WithMessage(err, "mint owner")
		}
		holder, err := reg.HolderOf(collection, itemID)
		if err != nil {
			return err
		}
		if !holder.IsZero() {
			continue
		}
		if err := reg.Mint(collection, itemID, owner); err != nil {
			return err
		}
	}
	return nil
}
