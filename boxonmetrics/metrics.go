/*
Copyright 2024 The Boxon Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package boxonmetrics holds the process-wide prometheus collectors engine
// updates around every decode/encode call. They are package vars, not
// per-Core state, so a process hosting several Cores still exposes one
// consistent metric family — callers register them with their own
// registerer via Collectors().
package boxonmetrics

import "github.com/prometheus/client_golang/prometheus"

var (
	FieldsDecoded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "boxon",
		Name:      "fields_decoded_total",
		Help:      "Total number of fields successfully decoded, per template.",
	}, []string{"template"})

	FieldsEncoded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "boxon",
		Name:      "fields_encoded_total",
		Help:      "Total number of fields successfully encoded, per template.",
	}, []string{"template"})

	DecodeErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "boxon",
		Name:      "decode_errors_total",
		Help:      "Total number of decode failures, per template.",
	}, []string{"template"})

	EncodeErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "boxon",
		Name:      "encode_errors_total",
		Help:      "Total number of encode failures, per template.",
	}, []string{"template"})

	ChecksumMismatches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "boxon",
		Name:      "checksum_mismatches_total",
		Help:      "Total number of checksum validation failures, per template.",
	}, []string{"template"})

	DecodeDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "boxon",
		Name:      "decode_duration_seconds",
		Help:      "Duration of a full record decode, per template.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"template"})

	EncodeDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "boxon",
		Name:      "encode_duration_seconds",
		Help:      "Duration of a full record encode, per template.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"template"})
)

// Collectors returns every collector defined in this package, for a caller
// that wants to register them on a non-default prometheus.Registerer.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		FieldsDecoded, FieldsEncoded, DecodeErrorsTotal, EncodeErrorsTotal,
		ChecksumMismatches, DecodeDurationSeconds, EncodeDurationSeconds,
	}
}
