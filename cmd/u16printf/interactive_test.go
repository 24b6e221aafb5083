package main

import (
	"strings"
	"testing"
)

func TestInteractiveModel_ShowsArgumentTypes(t *testing.T) {
	m := newInteractiveModel(newTestFormatter(t), options{
		template: "Test%s%d%o,test",
		args:     []string{"str16:tester", "str8:test", "u32:13"},
	})

	msg, ok := m.render()().(renderedMsg)
	if !ok {
		t.Fatal("render did not produce a renderedMsg")
	}
	if msg.err != nil {
		t.Fatal(msg.err)
	}
	m.Update(msg)

	if string(m.result) != "Testtestertest13,test" {
		t.Errorf("result = %q", m.result)
	}
	view := m.View()
	for _, want := range []string{"str16:tester", "str16", "str8", "u32"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if len(m.args) != 3 || witTypeStr(m.args[2].typ) != "u32" {
		t.Errorf("args = %v", m.args)
	}
}

func TestInteractiveModel_ArgumentError(t *testing.T) {
	m := newInteractiveModel(newTestFormatter(t), options{
		template: "%d",
		args:     []string{"u8:256"},
	})
	m.Update(m.render()())
	if m.err == nil {
		t.Fatal("expected parse error")
	}
	if len(m.args) != 0 {
		t.Errorf("args kept after failure: %v", m.args)
	}
	if !strings.Contains(m.View(), "Error:") {
		t.Error("view does not show the error")
	}
}
