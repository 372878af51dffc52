// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package proxy

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// RuleEnv is the evaluation environment routing rules see
type RuleEnv struct {
	Vendor   string `expr:"vendor"`
	Model    string `expr:"model"`
	Path     string `expr:"path"`
	Sentinel bool   `expr:"sentinel"`
}

type compiledRule struct {
	program *vm.Program
	mode    string
	match   string
}

// Rules evaluates routing rules in order, the first matching rule wins
type Rules struct {
	rules []compiledRule
}

// NewRules compiles the configured expr predicates
func NewRules(cfgs []RuleConfig) (*Rules, error) {
	rules := &Rules{}

	for _, c := range cfgs {
		program, err := expr.Compile(c.Match, expr.Env(RuleEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("invalid rule %q: %w", c.Match, err)
		}

		rules.rules = append(rules.rules, compiledRule{program: program, mode: c.Mode, match: c.Match})
	}

	return rules, nil
}

// Evaluate returns the forced mode of the first rule matching env, matched
// is false when no rule applies and sentinel detection decides
func (r *Rules) Evaluate(env RuleEnv) (mode string, matched bool, err error) {
	for _, rule := range r.rules {
		res, err := expr.Run(rule.program, env)
		if err != nil {
			return "", false, fmt.Errorf("rule %q failed: %w", rule.match, err)
		}

		if res.(bool) {
			return rule.mode, true, nil
		}
	}

	return "", false, nil
}
