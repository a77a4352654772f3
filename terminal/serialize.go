package terminal

import (
	"encoding/binary"
	"unicode/utf8"
)

// SerializeRows encodes a row-major slice of rows (each a []Cell) into the
// binary wire format the reference multiplexer's web client expects:
// a 28-byte header followed by per-row markers. Adapted directly from the
// teacher's BufferSnapshot.SerializeToBinary, generalized from its packed
// uint32 color fields to terminal.Color.
func SerializeRows(cols, rows, viewportY, cursorX, cursorY int, grid [][]Cell) []byte {
	dataSize := 28

	for row := 0; row < rows; row++ {
		var rowCells []Cell
		if row < len(grid) && grid[row] != nil {
			rowCells = grid[row]
		}
		if isEmptyRow(rowCells) {
			dataSize += 2
			continue
		}
		dataSize += 3
		for _, cell := range trimRowCells(rowCells) {
			dataSize += cellSize(cell)
		}
	}

	buf := make([]byte, dataSize)
	offset := 0

	binary.LittleEndian.PutUint16(buf[offset:], 0x5654) // magic "VT"
	offset += 2
	buf[offset] = 0x01 // version
	offset++
	buf[offset] = 0x00 // flags
	offset++
	binary.LittleEndian.PutUint32(buf[offset:], uint32(cols))
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:], uint32(rows))
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:], uint32(viewportY))
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:], uint32(cursorX))
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:], uint32(cursorY))
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:], 0) // reserved
	offset += 4

	for row := 0; row < rows; row++ {
		var rowCells []Cell
		if row < len(grid) && grid[row] != nil {
			rowCells = grid[row]
		}

		if isEmptyRow(rowCells) {
			buf[offset] = 0xfe
			offset++
			buf[offset] = 1
			offset++
			continue
		}

		buf[offset] = 0xfd
		offset++
		trimmed := trimRowCells(rowCells)
		binary.LittleEndian.PutUint16(buf[offset:], uint16(len(trimmed)))
		offset += 2
		for _, cell := range trimmed {
			offset = encodeCell(buf, offset, cell)
		}
	}

	return buf[:offset]
}

func isEmptyRow(cells []Cell) bool {
	if len(cells) == 0 {
		return true
	}
	for _, c := range cells {
		if c != DefaultCell {
			return false
		}
	}
	return true
}

func trimRowCells(cells []Cell) []Cell {
	last := len(cells) - 1
	for last >= 0 && cells[last] == DefaultCell {
		last--
	}
	if last < 0 {
		return cells[:1]
	}
	return cells[:last+1]
}

func cellSize(c Cell) int {
	isSpace := c.Codepoint == ' '
	hasAttrs := c.Attrs != 0
	hasFg := c.Fg != DefaultFg
	hasBg := c.Bg != DefaultBg
	isASCII := c.Codepoint <= 127

	if isSpace && !hasAttrs && !hasFg && !hasBg {
		return 1
	}

	size := 1
	if isASCII {
		if !isSpace {
			size++
		}
	} else {
		size += 1 + utf8.RuneLen(c.Codepoint)
	}
	if hasAttrs || hasFg || hasBg {
		size++
		if hasFg {
			size += 3
		}
		if hasBg {
			size += 3
		}
	}
	return size
}

func encodeCell(buf []byte, offset int, c Cell) int {
	isSpace := c.Codepoint == ' '
	hasAttrs := c.Attrs != 0
	hasFg := c.Fg != DefaultFg
	hasBg := c.Bg != DefaultBg
	isASCII := c.Codepoint <= 127

	if isSpace && !hasAttrs && !hasFg && !hasBg {
		buf[offset] = 0x00
		return offset + 1
	}

	var typeByte byte
	if hasAttrs || hasFg || hasBg {
		typeByte |= 0x80
	}
	if !isASCII {
		typeByte |= 0x40
		typeByte |= 0x02
	} else if !isSpace {
		typeByte |= 0x01
	}
	if hasFg {
		typeByte |= 0x20
	}
	if hasBg {
		typeByte |= 0x10
	}

	buf[offset] = typeByte
	offset++

	if !isASCII {
		raw := make([]byte, 4)
		n := utf8.EncodeRune(raw, c.Codepoint)
		buf[offset] = byte(n)
		offset++
		copy(buf[offset:], raw[:n])
		offset += n
	} else if !isSpace {
		buf[offset] = byte(c.Codepoint)
		offset++
	}

	if typeByte&0x80 != 0 {
		buf[offset] = byte(c.Attrs)
		offset++
		if hasFg {
			buf[offset] = c.Fg.R
			buf[offset+1] = c.Fg.G
			buf[offset+2] = c.Fg.B
			offset += 3
		}
		if hasBg {
			buf[offset] = c.Bg.R
			buf[offset+1] = c.Bg.G
			buf[offset+2] = c.Bg.B
			offset += 3
		}
	}

	return offset
}
