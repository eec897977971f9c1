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
package status

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/walteh/sharedplugins/pkg/replicate"
	"github.com/walteh/sharedplugins/pkg/share"
)

// 🎨 Display configuration
const (
	fileIndent = 4  // spaces to indent failed entries
	nameWidth  = 35 // width for plugin names and paths
)

// FormatProgress formats a progress line with a percentage.
func FormatProgress(text string, fraction float64) string {
	switch {
	case fraction < 0:
		fraction = 0
	case fraction > 1:
		fraction = 1
	}
	icon := "⏳"
	if fraction >= 1 {
		icon = "✅"
	}
	return fmt.Sprintf("%s %3.0f%% %s", icon, fraction*100, text)
}

// FormatResult formats the one line shown when a plugin is done.
func FormatResult(r share.Result) string {
	name := fmt.Sprintf("%-*s", nameWidth, r.Plugin.Name)

	switch {
	case r.Err != nil:
		return fmt.Sprintf("%s %s %s", color.RedString("✗"), name, color.RedString(r.Err.Error()))
	case r.Outcome == nil:
		return fmt.Sprintf("%s %s", color.HiBlackString("-"), name)
	case r.Outcome.Cancelled:
		return fmt.Sprintf("%s %s %s, cancelled", color.YellowString("…"), name, plural(r.Outcome.Copied, "file"))
	case len(r.Outcome.Failures) > 0:
		return fmt.Sprintf("%s %s %s, %s",
			color.YellowString("⟳"), name,
			plural(r.Outcome.Copied, "file"),
			color.RedString("%d failed", len(r.Outcome.Failures)))
	default:
		return fmt.Sprintf("%s %s %s", color.GreenString("✓"), name, plural(r.Outcome.Copied, "file"))
	}
}

// FormatFailure formats one failed entry, indented under its plugin.
func FormatFailure(f replicate.Failure) string {
	return fmt.Sprintf("%s%s %-*s %v",
		strings.Repeat(" ", fileIndent),
		color.RedString("✗"),
		nameWidth, f.RelativePath,
		f.Cause)
}

// FormatSummary formats the final line: copied vs failed counts.
func FormatSummary(report *share.Report) string {
	if report == nil || len(report.Results) == 0 {
		return "No plugins copied"
	}

	var b strings.Builder
	if report.Failed() == 0 {
		fmt.Fprintf(&b, "%s copied (%s)", plural(report.Succeeded(), "plugin"), plural(report.Files(), "file"))
	} else {
		fmt.Fprintf(&b, "%s copied, %s (%s copied, %s)",
			plural(report.Succeeded(), "plugin"),
			color.RedString("%d failed", report.Failed()),
			plural(report.Files(), "file"),
			plural(report.FailedEntries(), "entry failed", "entries failed"))
	}
	if report.Cancelled() {
		b.WriteString(", cancelled")
	}
	return b.String()
}

// plural renders "1 file" / "2 files". An explicit plural form may be given.
func plural(n int, singular string, pluralForm ...string) string {
	word := singular + "s"
	if len(pluralForm) > 0 {
		word = pluralForm[0]
	}
	if n == 1 {
		word = singular
	}
	return fmt.Sprintf("%d %s", n, word)
}
