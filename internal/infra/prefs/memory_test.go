package prefs

import (
	"context"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	initial := map[string]string{"theme": "dark"}
	s := NewMemoryStore(initial)
	initial["theme"] = "light"

	if v, _ := s.GetString(ctx, "theme"); v != "dark" {
		t.Errorf("GetString(theme) = %q, want %q (store must copy initial values)", v, "dark")
	}

	if v, err := s.GetBool(ctx, "missing"); err != nil || v {
		t.Errorf("GetBool(missing) = %v, %v; want false, nil", v, err)
	}

	if err := s.SetBool(ctx, "hd_images", true); err != nil {
		t.Fatalf("SetBool() error = %v", err)
	}
	if v, err := s.GetBool(ctx, "hd_images"); err != nil || !v {
		t.Errorf("GetBool(hd_images) = %v, %v; want true, nil", v, err)
	}

	if _, err := s.GetBool(ctx, "theme"); err == nil {
		t.Error("GetBool(theme) expected parse error")
	}
}
