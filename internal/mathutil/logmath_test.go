package mathutil

import (
	"math"
	"testing"
)

func TestLogAdd(t *testing.T) {
	// log(exp(log(2)) + exp(log(3))) = log(5)
	a := math.Log(2)
	b := math.Log(3)
	got := LogAdd(a, b)
	want := math.Log(5)
	if math.Abs(got-want) > 1e-10 {
		t.Errorf("LogAdd(log(2), log(3)) = %f, want %f", got, want)
	}
	if rev := LogAdd(b, a); rev != got {
		t.Errorf("LogAdd not symmetric: %f vs %f", rev, got)
	}
}

func TestLogAddWithLogZero(t *testing.T) {
	a := math.Log(5)
	if got := LogAdd(LogZero, a); got != a {
		t.Errorf("LogAdd(LogZero, %f) = %f, want %f", a, got, a)
	}
	if got := LogAdd(a, LogZero); got != a {
		t.Errorf("LogAdd(%f, LogZero) = %f, want %f", a, got, a)
	}
	if got := LogAdd(LogZero, LogZero); !math.IsInf(got, -1) {
		t.Errorf("LogAdd(LogZero, LogZero) = %f, want -Inf", got)
	}
}

func TestLogAddLargeGap(t *testing.T) {
	// exp(-1000) underflows; result must stay finite and equal the larger operand.
	got := LogAdd(0, -1000)
	if got != 0 {
		t.Errorf("LogAdd(0, -1000) = %g, want 0", got)
	}
}

func TestLogSum(t *testing.T) {
	xs := []float64{math.Log(1), math.Log(2), math.Log(3)}
	if got := LogSum(xs); math.Abs(got-math.Log(6)) > 1e-12 {
		t.Errorf("LogSum = %f, want %f", got, math.Log(6))
	}
	if got := LogSum(nil); !math.IsInf(got, -1) {
		t.Errorf("LogSum(nil) = %f, want -Inf", got)
	}
}

func TestFlooredLog(t *testing.T) {
	if got := FlooredLog(0, 1e-10); math.Abs(got-math.Log(1e-10)) > 1e-12 {
		t.Errorf("FlooredLog(0) = %f, want %f", got, math.Log(1e-10))
	}
	if got := FlooredLog(math.E, 1e-10); math.Abs(got-1) > 1e-12 {
		t.Errorf("FlooredLog(e) = %f, want 1", got)
	}
}
