// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package proxy

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/ninegate/ninegate/model"
)

// newForwarder builds a reverse proxy to a vendor's hosted upstream, the
// original credentials pass through untouched
func newForwarder(vendor string, upstream string, log model.Logger) (*httputil.ReverseProxy, error) {
	if upstream == "" {
		return nil, fmt.Errorf("%w: %s", model.ErrUpstreamNotSet, vendor)
	}

	target, err := url.Parse(upstream)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream for %s: %w", vendor, err)
	}

	forwarder := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.Out.Host = target.Host
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Error("Upstream request failed", "vendor", vendor, "upstream", target.Host, "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprintf(w, `{"error":{"type":"upstream_error","message":%q}}`, err.Error())
		},
	}

	return forwarder, nil
}
