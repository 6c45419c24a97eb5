package regdef

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blazra/regtree/internal/bitfield"
)

const validDoc = `
version: 1
device: TEST
peripherals:
  - name: UART0
    base_address: 0x1000
    registers:
      - name: CTRL
        address_offset: 0x04
        reset_value: 0x00F0
        fields:
          - name: EN
            bit_offset: 0
            bit_width: 1
          - name: MODE
            bit_offset: 4
            bit_width: 4
            enum_values:
              - {name: A, value: 1}
              - {name: B, value: 1}
      - name: STATUS
        address_offset: 0x08
        read_only: true
`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if doc.Device != "TEST" {
		t.Errorf("Device = %q, want TEST", doc.Device)
	}
	if got := doc.NumRegisters(); got != 2 {
		t.Errorf("NumRegisters() = %d, want 2", got)
	}

	defs := doc.Definitions()
	if len(defs) != 2 {
		t.Fatalf("Definitions() returned %d registers, want 2", len(defs))
	}

	ctrl := defs[0]
	if ctrl.Address != 0x1004 {
		t.Errorf("CTRL address = 0x%X, want 0x1004", ctrl.Address)
	}
	if ctrl.Peripheral != "UART0" {
		t.Errorf("CTRL peripheral = %q, want UART0", ctrl.Peripheral)
	}
	if ctrl.ResetValue != 0x00F0 {
		t.Errorf("CTRL reset value = 0x%X, want 0x00F0", ctrl.ResetValue)
	}
	if len(ctrl.Fields) != 2 {
		t.Fatalf("CTRL has %d fields, want 2", len(ctrl.Fields))
	}
	mode := ctrl.Fields[1]
	if mode.Offset != 4 || mode.Width != 4 {
		t.Errorf("MODE geometry = %d/%d, want 4/4", mode.Offset, mode.Width)
	}
	if len(mode.EnumValues) != 2 || mode.EnumValues[0].Name != "A" {
		t.Errorf("MODE enum values = %+v", mode.EnumValues)
	}

	if ro := doc.ReadOnlyAddresses(); len(ro) != 1 || ro[0] != 0x1008 {
		t.Errorf("ReadOnlyAddresses() = %v, want [0x1008]", ro)
	}
	if rv := doc.ResetValues(); rv[0x1004] != 0x00F0 || rv[0x1008] != 0 {
		t.Errorf("ResetValues() = %v", rv)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		wantGeomErr bool
		wantMsg     string
	}{
		{
			name:    "wrong version",
			yaml:    "version: 2\nperipherals: []\n",
			wantMsg: "unsupported definition version",
		},
		{
			name:    "no registers",
			yaml:    "version: 1\nperipherals:\n  - name: P\n",
			wantMsg: "no registers defined",
		},
		{
			name: "field past bit 15",
			yaml: `version: 1
peripherals:
  - name: P
    registers:
      - name: R
        fields:
          - {name: F, bit_offset: 12, bit_width: 8}
`,
			wantGeomErr: true,
			wantMsg:     "P.R.F",
		},
		{
			name: "zero width field",
			yaml: `version: 1
peripherals:
  - name: P
    registers:
      - name: R
        fields:
          - {name: F, bit_offset: 0, bit_width: 0}
`,
			wantGeomErr: true,
		},
		{
			name: "unnamed register",
			yaml: `version: 1
peripherals:
  - name: P
    registers:
      - reset_value: 1
`,
			wantMsg: "register has no name",
		},
		{
			name:    "reset value overflow",
			yaml:    "version: 1\nperipherals:\n  - name: P\n    registers:\n      - name: R\n        reset_value: 0x10000\n",
			wantMsg: "failed to parse definitions",
		},
		{
			name:    "not yaml",
			yaml:    "version: [",
			wantMsg: "failed to parse definitions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() expected error")
			}
			var geomErr *bitfield.GeometryError
			if got := errors.As(err, &geomErr); got != tt.wantGeomErr {
				t.Errorf("errors.As(GeometryError) = %v, want %v (err: %v)", got, tt.wantGeomErr, err)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, should contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.yaml")
	if err := os.WriteFile(path, []byte(validDoc), 0600); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.NumRegisters() != 2 {
		t.Errorf("NumRegisters() = %d, want 2", doc.NumRegisters())
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

func TestDemo(t *testing.T) {
	doc := Demo()
	tree, err := doc.BuildTree()
	if err != nil {
		t.Fatalf("BuildTree() error = %v", err)
	}
	if tree.Len() != doc.NumRegisters() {
		t.Errorf("tree has %d registers, document has %d", tree.Len(), doc.NumRegisters())
	}
	if tree.Len() == 0 {
		t.Fatal("demo map is empty")
	}

	moder := tree.Register(0)
	if moder.QualifiedName() != "GPIOA.MODER" {
		t.Errorf("first register = %q, want GPIOA.MODER", moder.QualifiedName())
	}
	if name, ok := moder.Field(3).ResolveEnumName(moder.Field(3).ValueRead()); !ok || name != "Alternate" {
		t.Errorf("MODE7 reset value resolves to %q, want Alternate", name)
	}
}
