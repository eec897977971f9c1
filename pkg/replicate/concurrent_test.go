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
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/sharedplugins/pkg/replicate"
	"golang.org/x/sync/errgroup"
)

func TestReplicateConcurrentDisjointDestinations(t *testing.T) {
	ctx := testContext(t)
	tmp := t.TempDir()
	r := replicate.New()

	const n = 8
	for i := 0; i < n; i++ {
		writeTree(t, filepath.Join(tmp, "src", fmt.Sprintf("p%d", i)), map[string]string{
			"lib/a.jar":  fmt.Sprintf("a-%d", i),
			"lib/b.jar":  fmt.Sprintf("b-%d", i),
			"plugin.txt": fmt.Sprintf("p-%d", i),
		})
	}

	outcomes := make([]*replicate.Outcome, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			name := fmt.Sprintf("p%d", i)
			out, err := r.Replicate(ctx, replicate.Request{
				Source:      filepath.Join(tmp, "src", name),
				Destination: filepath.Join(tmp, "shared", name),
			})
			outcomes[i] = out
			return err
		})
	}
	require.NoError(t, g.Wait(), "all replications should succeed")

	for i := 0; i < n; i++ {
		name := fmt.Sprintf("p%d", i)
		assert.Equal(t, 3, outcomes[i].Copied, "copied count for %s", name)
		assert.Equal(t,
			readTree(t, filepath.Join(tmp, "src", name)),
			readTree(t, filepath.Join(tmp, "shared", name)),
			"tree for %s", name)
	}
}
