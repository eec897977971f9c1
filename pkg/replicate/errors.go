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

package replicate

import (
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrSourceNotFound means the request source does not exist or cannot be stat'ed.
	ErrSourceNotFound = errors.Base("source not found")

	// ErrDestinationUncreatable means the destination root, or one of its
	// ancestors, could not be created.
	ErrDestinationUncreatable = errors.Base("destination uncreatable")

	// ErrNestedPathConflict means the destination is the source or lives inside
	// it. A followed link that leads into or above the destination records it
	// as an entry failure cause.
	ErrNestedPathConflict = errors.Base("destination is nested inside source")

	// ErrEntryCopyFailed marks a failure on a single entry. It never aborts a call.
	ErrEntryCopyFailed = errors.Base("entry copy failed")

	// ErrCancelled marks an outcome that stopped early on request.
	ErrCancelled = errors.Base("replication cancelled")

	// ErrSymlinkCycle is the cause recorded when following links loops back
	// onto a directory that is already being walked.
	ErrSymlinkCycle = errors.Base("symlink cycle")
)
