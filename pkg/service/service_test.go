package service

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeServer struct {
	name    string
	stopErr error
	order   *[]string
}

func (s *fakeServer) Run() { *s.order = append(*s.order, "run "+s.name) }

func (s *fakeServer) Shutdown(context.Context) error {
	*s.order = append(*s.order, "stop "+s.name)
	return s.stopErr
}

func (s *fakeServer) String() string { return s.name }

func TestGroupRunsInAddOrder(t *testing.T) {
	var order []string
	g := Group{}
	g.Add(&fakeServer{name: "a", order: &order}, &fakeServer{name: "b", order: &order})

	g.Start()
	if err := g.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := []string{"run a", "run b", "stop a", "stop b"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order = %v, want %v", order, want)
			break
		}
	}
}

func TestGroupShutdownJoinsFailures(t *testing.T) {
	var order []string
	g := Group{}
	g.Add(
		&fakeServer{name: "a", stopErr: errors.New("bind lost"), order: &order},
		&fakeServer{name: "b", stopErr: context.Canceled, order: &order},
		&fakeServer{name: "c", order: &order},
	)

	err := g.Shutdown(context.Background())
	if err == nil {
		t.Fatalf("shutdown failure swallowed")
	}
	if !strings.Contains(err.Error(), "stop a") {
		t.Errorf("err = %v, want failure for a", err)
	}
	if strings.Contains(err.Error(), "stop b") {
		t.Errorf("cancelled context counted as a failure: %v", err)
	}
	if len(order) != 3 {
		t.Errorf("not every server was stopped: %v", order)
	}
}
