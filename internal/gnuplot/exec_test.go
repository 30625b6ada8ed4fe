package gnuplot

import (
	"errors"
	"testing"
)

func TestExecutorExecute(t *testing.T) {
	h, e := newFakeEngine(t)
	ex := NewExecutor(h)
	e.reply("print 1+1", "2")

	got, err := ex.Execute("print 1+1")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got != "2" {
		t.Fatalf("reply = %q, want %q", got, "2")
	}
}

func TestExecutorSurfacesEngineError(t *testing.T) {
	h, e := newFakeEngine(t)
	ex := NewExecutor(h)
	e.reply("print 1+1", "2")

	_, err := ex.Execute("plot sin(")
	var ee *EngineError
	if !errors.As(err, &ee) {
		t.Fatalf("bad statement: got %v, want EngineError", err)
	}
	if ee.Errno == "" || ee.Errno == noErrorValue {
		t.Fatalf("Errno = %q, want nonzero", ee.Errno)
	}
	if ee.Message != "invalid command" {
		t.Fatalf("Message = %q", ee.Message)
	}
	if ee.Statement != "plot sin(" {
		t.Fatalf("Statement = %q", ee.Statement)
	}

	// The error state was cleared engine-side: the session keeps going.
	got, err := ex.Execute("print 1+1")
	if err != nil {
		t.Fatalf("Execute after recovery: %v", err)
	}
	if got != "2" {
		t.Fatalf("reply after recovery = %q, want %q", got, "2")
	}
}

func TestExecutorJoinsMultiLineStatements(t *testing.T) {
	h, e := newFakeEngine(t)
	ex := NewExecutor(h)
	e.reply("set grid; set key off")

	if _, err := ex.Execute("set grid\n\nset key off\n"); err != nil {
		t.Fatalf("Execute: %v", err)
	}
}

func TestJoinStatements(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"set grid", "set grid"},
		{"set grid\nset key off", "set grid; set key off"},
		{"set grid\n\n  set key off  \n", "set grid; set key off"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := JoinStatements(tt.in); got != tt.want {
			t.Errorf("JoinStatements(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
