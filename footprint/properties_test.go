package footprint

import (
	"encoding/binary"
	"testing"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/tingold/lascrs"
)

func TestEncodeTile(t *testing.T) {
	data := encodeTile(Tile{Name: "a.laz", CRS: utm32DHHN, Points: 7})

	// name: index, length, bytes
	if got := binary.LittleEndian.Uint16(data); got != colName {
		t.Errorf("expected name column first, got %d", got)
	}
	if got := binary.LittleEndian.Uint32(data[2:]); got != 5 {
		t.Errorf("expected name length 5, got %d", got)
	}
	if got := string(data[6:11]); got != "a.laz" {
		t.Errorf("expected name 'a.laz', got %q", got)
	}

	rest := data[11:]
	want := []struct {
		col   uint16
		value uint64
		size  int
	}{
		{colHorizontal, 25832, 2},
		{colVertical, 5783, 2},
		{colPoints, 7, 8},
	}
	for _, w := range want {
		if got := binary.LittleEndian.Uint16(rest); got != w.col {
			t.Fatalf("expected column %d, got %d", w.col, got)
		}
		var v uint64
		if w.size == 2 {
			v = uint64(binary.LittleEndian.Uint16(rest[2:]))
		} else {
			v = binary.LittleEndian.Uint64(rest[2:])
		}
		if v != w.value {
			t.Errorf("column %d: expected %d, got %d", w.col, w.value, v)
		}
		rest = rest[2+w.size:]
	}
	if len(rest) != 0 {
		t.Errorf("expected no trailing bytes, got %d", len(rest))
	}
}

func TestEncodeTile_NoVertical(t *testing.T) {
	with := encodeTile(Tile{Name: "a", CRS: utm32DHHN})
	without := encodeTile(Tile{Name: "a", CRS: lascrs.CRS{Horizontal: 25832}})
	if len(with)-len(without) != 4 {
		t.Errorf("expected the vertical column to be omitted, lengths %d and %d", len(with), len(without))
	}
}

func TestReadPropertyValue(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		colType flattypes.ColumnType
		value   interface{}
		size    int
	}{
		{"ushort", []byte{0x68, 0x64}, flattypes.ColumnTypeUShort, uint16(25704), 2},
		{"ulong", []byte{1, 0, 0, 0, 0, 0, 0, 0, 9}, flattypes.ColumnTypeULong, uint64(1), 8},
		{"string", []byte{2, 0, 0, 0, 'h', 'i', 'x'}, flattypes.ColumnTypeString, "hi", 6},
		{"skipped double", make([]byte, 8), flattypes.ColumnTypeDouble, nil, 8},
		{"skipped json", []byte{2, 0, 0, 0, '{', '}'}, flattypes.ColumnTypeJson, nil, 6},
		{"truncated ushort", []byte{1}, flattypes.ColumnTypeUShort, nil, 0},
		{"truncated string", []byte{9, 0, 0, 0, 'a'}, flattypes.ColumnTypeString, nil, 0},
		{"short length", []byte{9, 0}, flattypes.ColumnTypeBinary, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, size := readPropertyValue(tt.data, tt.colType)
			if size != tt.size {
				t.Errorf("expected size %d, got %d", tt.size, size)
			}
			if value != tt.value {
				t.Errorf("expected %v, got %v", tt.value, value)
			}
		})
	}
}

func TestTileColumns(t *testing.T) {
	builder := flatbuffers.NewBuilder(256)
	columns := tileColumns(builder)
	if len(columns) != len(tileSchema) {
		t.Errorf("expected %d columns, got %d", len(tileSchema), len(columns))
	}
}
