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
package replicate_test

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/walteh/sharedplugins/pkg/replicate"
	"pgregory.net/rapid"
)

// genTree draws a set of file paths where no path is a directory prefix of
// another, with random content for each.
func genTree(t *rapid.T) map[string]string {
	paths := rapid.SliceOfN(rapid.StringMatching(`[a-c]{1,2}(/[a-c]{1,2}){0,2}`), 0, 12).Draw(t, "paths")
	sort.Strings(paths)

	files := map[string]string{}
	for _, p := range paths {
		conflict := false
		for q := range files {
			if p == q || strings.HasPrefix(p, q+"/") || strings.HasPrefix(q, p+"/") {
				conflict = true
				break
			}
		}
		if conflict {
			continue
		}
		files[p] = rapid.StringN(0, 64, -1).Draw(t, "content")
	}
	return files
}

func TestReplicateProperties(t *testing.T) {
	ctx := testContext(t)
	base := t.TempDir()

	rapid.Check(t, func(rt *rapid.T) {
		files := genTree(rt)

		tmp, err := os.MkdirTemp(base, "case-*")
		require.NoError(rt, err, "creating case dir")
		defer os.RemoveAll(tmp)

		src := filepath.Join(tmp, "src")
		dst := filepath.Join(tmp, "dst")
		writeTree(rt, src, files)

		out, err := replicate.Replicate(ctx, replicate.Request{Source: src, Destination: dst})
		require.NoError(rt, err, "replicate should succeed")

		// every file copied, nothing failed, contents byte identical
		require.Equal(rt, countFiles(files), out.Copied, "copied count")
		require.Empty(rt, out.Failures, "no failures")
		require.Equal(rt, readTree(rt, src), readTree(rt, dst), "trees match")

		// a second run overwrites everything again and changes nothing
		again, err := replicate.Replicate(ctx, replicate.Request{Source: src, Destination: dst})
		require.NoError(rt, err, "second replicate should succeed")
		require.Equal(rt, out.Copied, again.Copied, "second run copies the same count")
		require.Equal(rt, readTree(rt, src), readTree(rt, dst), "trees still match")
	})
}
