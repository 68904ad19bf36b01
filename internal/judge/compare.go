package judge

import (
	"bufio"
	"fmt"
	"io"
)

const compareBufSize = 64 << 10

// Equal reports whether actual and expected carry the same bytes. With
// ignoreCR every '\r' is dropped from both streams first. Both readers are
// consumed lazily and the comparison stops at the first difference.
func Equal(actual, expected io.Reader, ignoreCR bool) (bool, error) {
	a := bufio.NewReaderSize(actual, compareBufSize)
	e := bufio.NewReaderSize(expected, compareBufSize)

	for {
		ab, aerr := nextByte(a, ignoreCR)
		if aerr != nil && aerr != io.EOF {
			return false, fmt.Errorf("read output: %w", aerr)
		}
		eb, eerr := nextByte(e, ignoreCR)
		if eerr != nil && eerr != io.EOF {
			return false, fmt.Errorf("read expected: %w", eerr)
		}

		switch {
		case aerr == io.EOF && eerr == io.EOF:
			return true, nil
		case aerr == io.EOF || eerr == io.EOF:
			return false, nil
		case ab != eb:
			return false, nil
		}
	}
}

func nextByte(r *bufio.Reader, ignoreCR bool) (byte, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if ignoreCR && b == '\r' {
			continue
		}
		return b, nil
	}
}
