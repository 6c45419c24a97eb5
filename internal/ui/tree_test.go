package ui

import (
	"strings"
	"testing"

	"github.com/blazra/regtree/internal/discovery"
	"github.com/blazra/regtree/internal/regmodel"
)

func testTree(t *testing.T) *regmodel.Tree {
	t.Helper()
	tree, err := regmodel.NewTree([]regmodel.RegisterDef{
		{
			Name:       "CTRL",
			Peripheral: "UART0",
			Address:    0x4000,
			ResetValue: 0x0011,
			Fields: []regmodel.FieldDef{
				{Name: "EN", Offset: 0, Width: 1, EnumValues: []regmodel.EnumValue{
					{Name: "Off", Value: 0}, {Name: "On", Value: 1},
				}},
				{Name: "MODE", Offset: 4, Width: 4},
			},
		},
		{Name: "DATA", Peripheral: "UART0", Address: 0x4002},
		{Name: "LOAD", Peripheral: "TIM0", Address: 0x5000, ResetValue: 0xFFFF},
	})
	if err != nil {
		t.Fatalf("NewTree() error = %v", err)
	}
	return tree
}

func TestRenderTree(t *testing.T) {
	tree := testTree(t)

	out := RenderTree(tree, TreeOptions{Fields: true})
	for _, want := range []string{"UART0", "TIM0", "CTRL", "0x00004000", "read 0x0011", "EN", "[7:4]", "On", "0xFFFF"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderTree() missing %q in:\n%s", want, out)
		}
	}

	if strings.Index(out, "UART0") > strings.Index(out, "TIM0") {
		t.Error("peripherals should appear in definition order")
	}
}

func TestRenderTreeWithoutFields(t *testing.T) {
	out := RenderTree(testTree(t), TreeOptions{})
	if strings.Contains(out, "MODE") {
		t.Errorf("fields should be omitted:\n%s", out)
	}
}

func TestRenderTreeBinary(t *testing.T) {
	out := RenderTree(testTree(t), TreeOptions{Fields: true, Binary: true})
	if !strings.Contains(out, "0b0001") {
		t.Errorf("MODE should render as binary:\n%s", out)
	}
}

func TestRenderEndpoints(t *testing.T) {
	if out := RenderEndpoints(nil); !strings.Contains(out, "No register servers") {
		t.Errorf("RenderEndpoints(nil) = %q", out)
	}

	out := RenderEndpoints([]*discovery.Endpoint{{
		Instance: "bench",
		IP:       "10.0.0.2",
		Port:     7420,
		Metadata: map[string]string{discovery.TXTDevice: "DEMO16", discovery.TXTRegisters: "7"},
	}})
	for _, want := range []string{"bench", "ws://10.0.0.2:7420/ws", "DEMO16", "7 registers"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderEndpoints() missing %q in %q", want, out)
		}
	}
}

func TestHeaderRender(t *testing.T) {
	h := NewHeader("demo16", "regtree dump",
		Param{Key: "Backend", Value: "sim"},
		Param{Key: "Definitions", Value: "built-in"},
	).SetWidth(80)

	out := h.Render()
	if !strings.Contains(out, "DEMO16") {
		t.Errorf("title should be upper-cased: %q", out)
	}
	if strings.Index(out, "Backend") > strings.Index(out, "Definitions") {
		t.Error("params should keep their order")
	}
}

func TestRenderErrorBox(t *testing.T) {
	out := RenderErrorBox("Read failed", errTest("timeout"), []string{"Check the server"}, 80)
	for _, want := range []string{"FAILED", "Read failed", "timeout", "Check the server"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderErrorBox() missing %q", want)
		}
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
