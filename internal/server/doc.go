// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package server exposes the resolver over HTTP so that training jobs can
// fetch their configuration from a long-running process:
//
//	GET /health                  liveness probe
//	GET /metrics                 Prometheus metrics
//	GET /v1/groups               root documents and group variants
//	GET /v1/configs/{entry}      resolved config; repeat ?override=k=v,
//	                             ?format=json|yaml
package server
