// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package prompts folds vendor message lists into single CLI prompts
package prompts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/CloudyKit/jet/v6"
	"github.com/tidwall/gjson"
)

// Message is one conversation turn after vendor shapes are normalized
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Env represents the prompt render environment for one request
type Env struct {
	Vendor   string            `json:"vendor"`
	Model    string            `json:"model"`
	System   string            `json:"system"`
	Messages []Message         `json:"messages"`
	Environ  map[string]string `json:"environ"`

	// Body is the raw request body, reachable from templates via lookup()
	Body json.RawMessage `json:"-"`

	mu sync.Mutex
}

// DefaultTemplate renders the system text followed by role prefixed turns,
// the shape CLI tools expect on their prompt flag
const DefaultTemplate = `[[if .System != ""]][[.System]]

[[end]][[range i, m := .Messages]][[m.Role]]: [[m.Content]]
[[end]]`

// Render executes a jet prompt template against env, an empty template
// selects DefaultTemplate
func Render(template string, env *Env) (string, error) {
	if template == "" {
		template = DefaultTemplate
	}

	set := jet.NewSet(jet.NewInMemLoader(), jet.WithDelims("[[", "]]"))
	tpl, err := set.Parse("prompt", template)
	if err != nil {
		return "", fmt.Errorf("invalid prompt template: %w", err)
	}

	variables := jet.VarMap{
		"vendor":  reflect.ValueOf(env.Vendor),
		"model":   reflect.ValueOf(env.Model),
		"environ": reflect.ValueOf(env.Environ),
	}
	variables.SetFunc("lookup", func(args jet.Arguments) reflect.Value {
		args.RequireNumOfArguments("lookup", 1, 2)

		res, err := env.lookup(args.Get(0).String())
		if err != nil {
			args.Panicf("lookup failed: %v", err)
		}
		if res == nil {
			if args.NumOfArguments() == 2 {
				return args.Get(1)
			}
			return reflect.ValueOf("")
		}

		return reflect.ValueOf(res)
	})

	buff := bytes.NewBuffer([]byte{})
	err = tpl.Execute(buff, variables, env)
	if err != nil {
		return "", fmt.Errorf("prompt template failed: %w", err)
	}

	return strings.TrimRight(buff.String(), "\n"), nil
}

// lookup resolves a gjson path against the raw request body
func (e *Env) lookup(key string) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.Body == nil {
		return nil, nil
	}

	res := gjson.GetBytes(e.Body, key)
	if !res.Exists() {
		return nil, nil
	}

	if res.Type == gjson.Number {
		if strings.Contains(res.Raw, ".") {
			return res.Float(), nil
		}

		return res.Int(), nil
	}

	return res.Value(), nil
}
