// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package share

import (
	"github.com/walteh/sharedplugins/pkg/plugin"
	"github.com/walteh/sharedplugins/pkg/replicate"
)

// 📄 Result is what happened to one plugin.
type Result struct {
	Plugin      plugin.Descriptor
	Destination string
	Outcome     *replicate.Outcome // nil when Err is set
	Err         error              // fatal error for this plugin
}

// OK reports whether the plugin was copied completely.
func (r Result) OK() bool {
	return r.Err == nil && r.Outcome != nil && r.Outcome.OK()
}

// 📊 Report collects the results of one ShareAll call, in input order.
type Report struct {
	Results []Result
}

// Succeeded counts plugins copied without any failure.
func (r *Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.OK() {
			n++
		}
	}
	return n
}

// Failed counts plugins with a fatal error or at least one failed entry.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil || (res.Outcome != nil && len(res.Outcome.Failures) > 0) {
			n++
		}
	}
	return n
}

// Files is the total number of files copied.
func (r *Report) Files() int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome != nil {
			n += res.Outcome.Copied
		}
	}
	return n
}

// FailedEntries is the total number of entries that could not be copied.
func (r *Report) FailedEntries() int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome != nil {
			n += len(res.Outcome.Failures)
		}
	}
	return n
}

// Cancelled reports whether any plugin stopped early.
func (r *Report) Cancelled() bool {
	for _, res := range r.Results {
		if res.Outcome != nil && res.Outcome.Cancelled {
			return true
		}
	}
	return false
}

// OK reports whether every plugin was copied completely.
func (r *Report) OK() bool {
	return r.Succeeded() == len(r.Results)
}
