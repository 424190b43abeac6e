package footprint

import (
	"bytes"
	"encoding/binary"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
)

// Column schema of a footprint layer, in header order.
const (
	colName = iota
	colHorizontal
	colVertical
	colPoints
)

var tileSchema = []struct {
	name string
	typ  flattypes.ColumnType
}{
	colName:       {"name", flattypes.ColumnTypeString},
	colHorizontal: {"horizontal", flattypes.ColumnTypeUShort},
	colVertical:   {"vertical", flattypes.ColumnTypeUShort},
	colPoints:     {"points", flattypes.ColumnTypeULong},
}

func tileColumns(builder *flatbuffers.Builder) []*writer.Column {
	columns := make([]*writer.Column, 0, len(tileSchema))
	for _, c := range tileSchema {
		col := writer.NewColumn(builder)
		col.SetName(c.name)
		col.SetTitle(c.name)
		col.SetType(c.typ)
		col.SetNullable(c.name == "vertical")
		columns = append(columns, col)
	}
	return columns
}

// encodeTile encodes the tile attributes as FlatGeobuf properties:
// [uint16 column index][value] per column, little-endian. Strings are
// prefixed with their uint32 byte length. A missing vertical code is
// written as null by omitting it.
func encodeTile(t Tile) []byte {
	var buf bytes.Buffer

	putIndex(&buf, colName)
	putUint32(&buf, uint32(len(t.Name)))
	buf.WriteString(t.Name)

	putIndex(&buf, colHorizontal)
	putUint16(&buf, t.CRS.Horizontal)

	if t.CRS.HasVertical() {
		putIndex(&buf, colVertical)
		putUint16(&buf, t.CRS.Vertical)
	}

	putIndex(&buf, colPoints)
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, t.Points)
	buf.Write(b)

	return buf.Bytes()
}

func putIndex(buf *bytes.Buffer, i int) { putUint16(buf, uint16(i)) }

func putUint16(buf *bytes.Buffer, v uint16) {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	buf.Write(b)
}

func putUint32(buf *bytes.Buffer, v uint32) {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	buf.Write(b)
}

// decodeTile fills t from encoded properties. Columns are matched by name
// so layers written by other tools decode as long as they use the same
// column names. Unknown columns are skipped.
func decodeTile(data []byte, header *flattypes.Header, t *Tile) error {
	offset := 0
	for offset < len(data) {
		if offset+2 > len(data) {
			return ErrInvalidData
		}
		colIndex := int(binary.LittleEndian.Uint16(data[offset:]))
		offset += 2

		var col flattypes.Column
		if colIndex >= header.ColumnsLength() || !header.Columns(&col, colIndex) {
			return ErrInvalidData
		}

		value, n := readPropertyValue(data[offset:], col.Type())
		if n == 0 {
			return ErrInvalidData
		}
		offset += n

		switch string(col.Name()) {
		case "name":
			if s, ok := value.(string); ok {
				t.Name = s
			}
		case "horizontal":
			if v, ok := value.(uint16); ok {
				t.CRS.Horizontal = v
			}
		case "vertical":
			if v, ok := value.(uint16); ok {
				t.CRS.Vertical = v
			}
		case "points":
			if v, ok := value.(uint64); ok {
				t.Points = v
			}
		}
	}
	return nil
}

// readPropertyValue reads one value of the given column type and reports
// how many bytes it used. Zero means the data is truncated or the type is
// unknown. Values of column types the tile schema does not use are
// returned as nil.
func readPropertyValue(data []byte, colType flattypes.ColumnType) (interface{}, int) {
	size := 0
	switch colType {
	case flattypes.ColumnTypeBool, flattypes.ColumnTypeByte, flattypes.ColumnTypeUByte:
		size = 1
	case flattypes.ColumnTypeShort, flattypes.ColumnTypeUShort:
		size = 2
	case flattypes.ColumnTypeInt, flattypes.ColumnTypeUInt, flattypes.ColumnTypeFloat:
		size = 4
	case flattypes.ColumnTypeLong, flattypes.ColumnTypeULong, flattypes.ColumnTypeDouble:
		size = 8
	case flattypes.ColumnTypeString, flattypes.ColumnTypeJson,
		flattypes.ColumnTypeDateTime, flattypes.ColumnTypeBinary:
		if len(data) < 4 {
			return nil, 0
		}
		length := uint64(binary.LittleEndian.Uint32(data))
		if uint64(len(data)-4) < length {
			return nil, 0
		}
		end := 4 + int(length)
		if colType == flattypes.ColumnTypeString {
			return string(data[4:end]), end
		}
		return nil, end
	default:
		return nil, 0
	}

	if len(data) < size {
		return nil, 0
	}
	switch colType {
	case flattypes.ColumnTypeUShort:
		return binary.LittleEndian.Uint16(data), size
	case flattypes.ColumnTypeULong:
		return binary.LittleEndian.Uint64(data), size
	}
	return nil, size
}
