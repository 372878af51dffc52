// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package proxy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	iu "github.com/ninegate/ninegate/internal/util"
	"github.com/ninegate/ninegate/metrics"
	"github.com/ninegate/ninegate/model"
)

// maxRequestBody bounds inbound request bodies
const maxRequestBody = 10 * 1024 * 1024

// defaultCLIs are the vendor CLI tools checked by the health endpoint
var defaultCLIs = map[string]string{
	model.AnthropicVendor: "claude",
	model.OpenAIVendor:    "codex",
	model.GeminiVendor:    "gemini",
}

func (p *Proxy) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", p.healthzHandler)
	mux.HandleFunc("/", p.requestHandler)

	return mux
}

// requestHandler serves the vendor API endpoints, deciding per request
// between local CLI execution and upstream forwarding
func (p *Proxy) requestHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	if !p.allowlist.Allows(path) {
		p.log.Warn("Refusing path outside the allowlist", "path", path)
		metrics.RejectedPathCount.WithLabelValues().Inc()
		p.writeError(w, http.StatusForbidden, "forbidden", fmt.Sprintf("%v: %s", model.ErrPathNotAllowed, path))
		return
	}

	vendor, err := VendorForPath(path)
	if err != nil {
		p.writeError(w, http.StatusNotFound, "not_found", fmt.Sprintf("%v: %s", err, path))
		return
	}

	if r.Method != http.MethodPost {
		p.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "only POST is supported")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		p.writeError(w, http.StatusRequestEntityTooLarge, "request_too_large", err.Error())
		return
	}

	credential := Credential(vendor, r)
	sentinel := IsSentinel(credential)

	modelName := ModelFromPath(path)
	if modelName == "" {
		modelName = gjson.GetBytes(body, "model").String()
	}

	mode, matched, err := p.rules.Evaluate(RuleEnv{
		Vendor:   vendor,
		Model:    modelName,
		Path:     path,
		Sentinel: sentinel,
	})
	if err != nil {
		p.log.Error("Routing rule evaluation failed", "vendor", vendor, "error", err)
		p.writeError(w, http.StatusInternalServerError, "internal_error", "routing failed")
		return
	}

	if !matched {
		mode = model.ModeForward
		if sentinel {
			mode = model.ModeLocal
		}
	}

	p.log.Debug("Routing request", "vendor", vendor, "model", modelName, "mode", mode, "sentinel", sentinel, "rule", matched, "credential", iu.RedactCredential(credential))

	event := model.NewInvocationEvent(vendor, modelName)
	event.Mode = mode

	switch mode {
	case model.ModeLocal:
		p.serveLocal(w, r, vendor, modelName, body, event)
	default:
		p.serveForward(w, r, vendor, body, event)
	}

	err = p.audit.RecordEvent(event)
	if err != nil {
		p.log.Warn("Could not record audit event", "error", err)
	}

	event.LogStatus(p.log)
}

// serveLocal satisfies the request by running the vendor's local CLI, the
// request context doubles as the cancellation bridge for client disconnects
func (p *Proxy) serveLocal(w http.ResponseWriter, r *http.Request, vendor string, modelName string, body []byte, event *model.InvocationEvent) {
	router, ok := p.routers[vendor]
	if !ok {
		p.writeError(w, http.StatusNotImplemented, "not_implemented", fmt.Sprintf("%v: %s", model.ErrRouterNotFound, vendor))
		return
	}

	resp, err := router.Generate(r.Context(), &model.ProxyRequest{
		Vendor: vendor,
		Model:  modelName,
		Path:   r.URL.Path,
		Body:   body,
	})
	if err != nil {
		p.log.Error("Local invocation failed", "vendor", vendor, "error", err)
		event.Error = err.Error()
		p.writeError(w, http.StatusInternalServerError, "internal_error", "local invocation failed")
		return
	}

	if resp.Outcome != nil {
		event.RecordOutcome(resp.Outcome)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	_, err = w.Write(resp.Body)
	if err != nil {
		p.log.Warn("Could not write response", "vendor", vendor, "error", err)
	}
}

// serveForward relays the request to the hosted upstream untouched
func (p *Proxy) serveForward(w http.ResponseWriter, r *http.Request, vendor string, body []byte, event *model.InvocationEvent) {
	forwarder, ok := p.forwarders[vendor]
	if !ok {
		p.writeError(w, http.StatusBadGateway, "upstream_error", fmt.Sprintf("%v: %s", model.ErrUpstreamNotSet, vendor))
		return
	}

	metrics.ForwardedCount.WithLabelValues(vendor).Inc()

	r.Body = io.NopCloser(bytes.NewReader(body))
	r.ContentLength = int64(len(body))

	forwarder.ServeHTTP(w, r)
}

// healthzHandler reports listener health and which vendor CLIs resolve on PATH
func (p *Proxy) healthzHandler(w http.ResponseWriter, r *http.Request) {
	clis := map[string]bool{}

	for vendor, cli := range defaultCLIs {
		if vcfg, ok := p.cfg.Vendors[vendor]; ok && vcfg.Command != "" {
			if fields := strings.Fields(vcfg.Command); len(fields) > 0 {
				cli = fields[0]
			}
		}

		_, ok, _ := iu.ExecutableInPath(cli)
		clis[cli] = ok
	}

	body, _ := json.Marshal(map[string]any{
		"status": "ok",
		"clis":   clis,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (p *Proxy) writeError(w http.ResponseWriter, status int, kind string, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":{"type":%q,"message":%q}}`, kind, msg)
}
