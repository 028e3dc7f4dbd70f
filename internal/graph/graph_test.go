package graph

import (
	"errors"
	"strings"
	"testing"
)

func TestGraphConnectValidation(t *testing.T) {
	tests := []struct {
		name    string
		build   func(g *Graph) error
		wantErr string
	}{
		{
			name: "minimal chain",
			build: func(g *Graph) error {
				_ = g.Add("gen", KindGenerate, constStreamer(0))
				_ = g.Add("out", KindSink, nil)
				return g.Link("gen", "out")
			},
		},
		{
			name: "dangling generator",
			build: func(g *Graph) error {
				_ = g.Add("gen", KindGenerate, constStreamer(0))
				_ = g.Add("spare", KindGenerate, constStreamer(0))
				_ = g.Add("out", KindSink, nil)
				return g.Link("gen", "out")
			},
			wantErr: "not connected",
		},
		{
			name: "no sink",
			build: func(g *Graph) error {
				_ = g.Add("gen", KindGenerate, constStreamer(0))
				_ = g.Add("env", KindEnvelope, constStreamer(0))
				return g.Link("gen", "env")
			},
			wantErr: "not connected",
		},
		{
			name: "stage without input",
			build: func(g *Graph) error {
				_ = g.Add("env", KindEnvelope, constStreamer(0))
				_ = g.Add("out", KindSink, nil)
				return g.Link("env", "out")
			},
			wantErr: "no input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			if err := tt.build(g); err != nil {
				t.Fatalf("build error = %v", err)
			}
			err := g.Connect()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Connect() error = %v", err)
				}
				if !g.Connected() {
					t.Error("Connected() = false after Connect")
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Connect() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestGraphRejectsBadEdges(t *testing.T) {
	g := New()
	_ = g.Add("a", KindGenerate, constStreamer(0))
	_ = g.Add("b", KindSink, nil)

	if err := g.Add("a", KindTap, nil); !errors.Is(err, errDuplicateStage) {
		t.Errorf("duplicate Add() = %v", err)
	}
	if err := g.Link("b", "a"); !errors.Is(err, errBackEdge) {
		t.Errorf("back edge Link() = %v", err)
	}
	if err := g.Link("a", "zzz"); !errors.Is(err, errUnknownStage) {
		t.Errorf("unknown Link() = %v", err)
	}
}

func TestGraphDisconnectOnce(t *testing.T) {
	g := New()
	_ = g.Add("gen", KindGenerate, constStreamer(0))
	_ = g.Add("out", KindSink, nil)
	_ = g.Link("gen", "out")
	if err := g.Connect(); err != nil {
		t.Fatal(err)
	}
	if err := g.Link("gen", "out"); !errors.Is(err, errFrozen) {
		t.Errorf("Link() after Connect = %v, want errFrozen", err)
	}

	var order []int
	g.OnDisconnect(func() { order = append(order, 1) })
	g.OnDisconnect(func() { order = append(order, 2) })

	g.Disconnect()
	g.Disconnect()

	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("teardown order = %v, want [2 1]", order)
	}
	if g.Connected() {
		t.Error("Connected() = true after Disconnect")
	}
}
