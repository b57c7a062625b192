package pkg

import (
	"bytes"
	"testing"
)

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	if err := Print(&buf, map[string]string{"values": "1 X"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "{\n  \"values\": \"1 X\"\n}\n"
	if buf.String() != want {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestPrint_MarshalError(t *testing.T) {
	if err := Print(&bytes.Buffer{}, make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}
}
