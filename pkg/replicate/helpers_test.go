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
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// tb is the part of testing.TB that *rapid.T also provides.
type tb interface {
	Helper()
	Errorf(format string, args ...any)
	FailNow()
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// 🧪 testContext returns a context carrying a test logger
func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	return logger.WithContext(context.Background())
}

// writeTree creates files under root. Keys are slash separated relative paths,
// a key ending in "/" creates an empty directory.
func writeTree(t tb, root string, files map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(root, 0o755), "creating tree root")
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if strings.HasSuffix(rel, "/") {
			require.NoError(t, os.MkdirAll(p, 0o755), "creating dir %s", rel)
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755), "creating parent of %s", rel)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644), "writing %s", rel)
	}
}

// readTree returns every regular file under root keyed by slash separated
// relative path.
func readTree(t tb, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err, "reading tree %s", root)
	return out
}

func countFiles(files map[string]string) int {
	n := 0
	for rel := range files {
		if !strings.HasSuffix(rel, "/") {
			n++
		}
	}
	return n
}
