// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package cmd

import "testing"

func TestCommandRegistersRunAndWorker(t *testing.T) {
	root := Command(nil)

	for _, name := range []string{"run", "worker"} {
		if c, _, err := root.Find([]string{name}); err != nil || c == nil {
			t.Fatalf("expected subcommand %q to be registered, got err=%v", name, err)
		}
	}
}

func TestWorkerCommandIsHidden(t *testing.T) {
	root := Command(nil)
	c, _, err := root.Find([]string{"worker"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Hidden {
		t.Fatalf("expected worker subcommand to be hidden")
	}
}
