package main

import "testing"

func TestCaptureFPSDefaultsToUncapped(t *testing.T) {
	cmd := newRootCommand()
	flag := cmd.Flags().Lookup("capture-fps")
	if flag == nil {
		t.Fatal("capture-fps flag not registered")
	}
	if flag.DefValue != "0" {
		t.Fatalf("capture-fps default %q, want \"0\" (capture every frame)", flag.DefValue)
	}
}

func TestMouseDefaultsOn(t *testing.T) {
	cmd := newRootCommand()
	flag := cmd.Flags().Lookup("mouse")
	if flag == nil {
		t.Fatal("mouse flag not registered")
	}
	if flag.DefValue != "true" {
		t.Fatalf("mouse default %q, want \"true\"", flag.DefValue)
	}
}
