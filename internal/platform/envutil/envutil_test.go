package envutil

import (
	"testing"
	"time"
)

func TestReaders(t *testing.T) {
	t.Setenv("MW_INT", " 42 ")
	t.Setenv("MW_BAD_INT", "forty")
	t.Setenv("MW_BOOL", "off")
	t.Setenv("MW_SECONDS", "90")
	t.Setenv("MW_STRING", "  value ")

	if got := Int("MW_INT", 1); got != 42 {
		t.Fatalf("Int: want=%d got=%d", 42, got)
	}
	if got := Int("MW_BAD_INT", 7); got != 7 {
		t.Fatalf("Int (bad): want=%d got=%d", 7, got)
	}
	if got := Bool("MW_BOOL", true); got {
		t.Fatalf("Bool: want=false got=true")
	}
	if got := Bool("MW_MISSING_BOOL", true); !got {
		t.Fatalf("Bool (missing): want=true got=false")
	}
	if got := Seconds("MW_SECONDS", time.Second); got != 90*time.Second {
		t.Fatalf("Seconds: want=%s got=%s", 90*time.Second, got)
	}
	if got := String("MW_STRING", "def"); got != "value" {
		t.Fatalf("String: want=%q got=%q", "value", got)
	}
}

func TestFloatAndList(t *testing.T) {
	t.Setenv("MW_FLOAT", "0.25")
	t.Setenv("MW_LIST", " a, ,b ,")

	if got := Float("MW_FLOAT", 1); got != 0.25 {
		t.Fatalf("Float: want=%v got=%v", 0.25, got)
	}
	if got := Float("MW_MISSING_FLOAT", 1); got != 1 {
		t.Fatalf("Float (missing): want=%v got=%v", 1.0, got)
	}
	got := List("MW_LIST", nil)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("List: want=%v got=%v", []string{"a", "b"}, got)
	}
	if def := List("MW_MISSING_LIST", []string{"x"}); len(def) != 1 || def[0] != "x" {
		t.Fatalf("List (missing): want=[x] got=%v", def)
	}
}
