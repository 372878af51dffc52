// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ninegate/ninegate/model"
)

var (
	factories = make(map[string]model.RouterFactory)
	mu        sync.Mutex
)

// Clear removes all registered router factories
func Clear() {
	mu.Lock()
	defer mu.Unlock()

	factories = make(map[string]model.RouterFactory)
}

// Register registers a plugin
func Register(p any) error {
	switch tp := p.(type) {
	case model.RouterFactory:
		return registerFactory(tp)
	default:
		return fmt.Errorf("cannot register router of type %T", p)
	}
}

// MustRegister registers a plugin and panics if registration fails
func MustRegister(p any) {
	err := Register(p)
	if err != nil {
		panic(err)
	}
}

// registerFactory registers a router factory for its vendor and returns an error when the vendor is already taken
func registerFactory(p model.RouterFactory) error {
	mu.Lock()
	defer mu.Unlock()

	vendor := p.Vendor()

	_, ok := factories[vendor]
	if ok {
		return model.ErrDuplicateRouter
	}

	factories[vendor] = p

	return nil
}

// Lookup finds the router factory registered for a vendor
func Lookup(vendor string) (model.RouterFactory, error) {
	mu.Lock()
	defer mu.Unlock()

	f, ok := factories[vendor]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrRouterNotFound, vendor)
	}

	return f, nil
}

// Vendors returns the sorted list of vendors with registered routers
func Vendors() []string {
	mu.Lock()
	defer mu.Unlock()

	var res []string
	for k := range factories {
		res = append(res, k)
	}

	sort.Strings(res)

	return res
}

// NewRouter instantiates the router registered for a vendor
func NewRouter(vendor string, cfg model.VendorConfig, log model.Logger, executor model.Executor) (model.Router, error) {
	f, err := Lookup(vendor)
	if err != nil {
		return nil, err
	}

	return f.New(cfg, log, executor)
}
