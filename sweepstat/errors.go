// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweepstat

import "fmt"

// An EmptyInputError reports that there was nothing to aggregate,
// typically because no record matched the discriminant.
type EmptyInputError struct {
	Field, Value string // discriminant, if known
}

func (e *EmptyInputError) Error() string {
	if e.Field == "" {
		return "no records to aggregate"
	}
	return fmt.Sprintf("no records with %s %q", e.Field, e.Value)
}

// An EmptyGroupError reports a group with no records. Groups are
// derived from the records themselves, so this indicates a bug.
type EmptyGroupError struct {
	Key Key
}

func (e *EmptyGroupError) Error() string {
	return fmt.Sprintf("group %v has no records", e.Key)
}
