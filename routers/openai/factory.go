// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package openai

import (
	_ "embed"

	"github.com/ninegate/ninegate/internal/registry"
	"github.com/ninegate/ninegate/model"
	"github.com/ninegate/ninegate/routers/base"
)

//go:embed schema.json
var requestSchema []byte

var schema = base.MustCompileSchema("openai-chat-completions.json", requestSchema)

// Register registers this router with the registry
func Register() {
	registry.MustRegister(&factory{})
}

type factory struct{}

func (f *factory) Vendor() string { return model.OpenAIVendor }
func (f *factory) Name() string   { return RouterName }
func (f *factory) New(cfg model.VendorConfig, log model.Logger, executor model.Executor) (model.Router, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	router := &Router{
		Router: base.Router{
			RouterVendor: model.OpenAIVendor,
			RouterName:   RouterName,
			Config:       cfg,
			Schema:       schema,
			Log:          log,
			Executor:     executor,
		},
	}
	router.Router.Translator = router

	return router, nil
}
