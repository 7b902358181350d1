// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Switch is a boolean flag that counts its occurrences so that
// Execute can reject repeats.
type Switch struct {
	count int
}

// Set records one occurrence. Only an explicit true is accepted.
func (s *Switch) Set(value string) error {
	if value != "true" {
		return fmt.Errorf("takes no value")
	}
	s.count++
	return nil
}

func (s *Switch) String() string { return fmt.Sprint(s.count > 0) }
func (s *Switch) Type() string   { return "bool" }

// Count returns how many times the switch appeared.
func (s *Switch) Count() int { return s.count }

// On reports whether the switch appeared.
func (s *Switch) On() bool { return s.count > 0 }

// Option is a string flag that counts its occurrences.
type Option struct {
	value string
	count int
}

// Set records one occurrence with its value.
func (o *Option) Set(value string) error {
	o.value = value
	o.count++
	return nil
}

func (o *Option) String() string { return o.value }
func (o *Option) Type() string   { return "string" }

// Count returns how many times the option appeared.
func (o *Option) Count() int { return o.count }

// Value returns the option's value and whether it was given.
func (o *Option) Value() (string, bool) { return o.value, o.count > 0 }

// SwitchVar defines a switch with a long name and optional shorthand.
func SwitchVar(flagSet *pflag.FlagSet, value *Switch, name, shorthand, usage string) {
	flag := flagSet.VarPF(value, name, shorthand, usage)
	flag.NoOptDefVal = "true"
}

// OptionVar defines a string option with a long name.
func OptionVar(flagSet *pflag.FlagSet, value *Option, name, usage string) {
	flagSet.Var(value, name, usage)
}
