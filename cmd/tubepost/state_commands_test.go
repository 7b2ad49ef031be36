package main

import "testing"

func TestStateSetShowClear(t *testing.T) {
	env := setupCLITestEnv(t, nil, "")

	out, _, err := runCLI(t, env, "state", "show")
	if err != nil {
		t.Fatalf("state show: %v", err)
	}
	requireContains(t, out, "(none)")

	out, _, err = runCLI(t, env, "state", "set", "vid42")
	if err != nil {
		t.Fatalf("state set: %v", err)
	}
	requireContains(t, out, "Stored vid42")

	out, _, err = runCLI(t, env, "state", "show")
	if err != nil {
		t.Fatalf("state show: %v", err)
	}
	requireContains(t, out, "vid42")
	requireContains(t, out, "file ")

	if _, _, err := runCLI(t, env, "state", "clear"); err != nil {
		t.Fatalf("state clear: %v", err)
	}
	out, _, err = runCLI(t, env, "state", "show")
	if err != nil {
		t.Fatalf("state show: %v", err)
	}
	requireContains(t, out, "(none)")
}

func TestStateSetRequiresID(t *testing.T) {
	env := setupCLITestEnv(t, nil, "")
	if _, _, err := runCLI(t, env, "state", "set"); err == nil {
		t.Fatal("expected error without id")
	}
}
