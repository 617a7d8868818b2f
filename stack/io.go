package stack

import (
	"bufio"
	"io"
	"strconv"

	"github.com/ud2/stackc/instructions"
)

func isCSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

func isCDigit(b byte) bool { return b >= '0' && b <= '9' }

// readCells tokenizes stdin the way the generated program's scanf-based
// prologue does: whitespace-separated unsigned decimal integers, each
// reduced modulo instructions.Modulus digit by digit as it's parsed (so an
// input value far larger than fits in 32 bits yields its full decimal value
// modulo instructions.Modulus). It returns the values in the order read,
// along with a nonzero exit code if a malformed token or over-capacity read
// is hit - matching scanf returning 0 (code 4) or the prologue's own
// overflow check (code 1) - and stops cleanly at EOF.
func readCells(r io.Reader) (vals []uint32, code int, err error) {
	br := bufio.NewReader(r)
	for {
		b, rerr := br.ReadByte()
		if rerr == io.EOF {
			return vals, 0, nil
		}
		if rerr != nil {
			return nil, 0, rerr
		}
		if isCSpace(b) {
			continue
		}
		if !isCDigit(b) {
			return nil, 4, nil
		}

		rem := uint64(0)
		for {
			rem = (rem*10 + uint64(b-'0')) % instructions.Modulus
			b, rerr = br.ReadByte()
			if rerr == io.EOF {
				break
			}
			if rerr != nil {
				return nil, 0, rerr
			}
			if !isCDigit(b) {
				if err := br.UnreadByte(); err != nil {
					return nil, 0, err
				}
				break
			}
		}
		if len(vals) >= instructions.StackCapacity {
			return nil, 1, nil
		}
		vals = append(vals, uint32(rem))
	}
}

func formatUint32(v uint32) string {
	return strconv.FormatUint(uint64(v), 10)
}
