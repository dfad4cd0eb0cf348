package generator

import (
	"fmt"
	"math"
)

// AllocateUniqueID draws an identifier of Config.IDLength characters from
// Config.IDAlphabet that is not a key of existing. It does not add the result
// to existing.
func (g *Generator) AllocateUniqueID(existing map[string]struct{}) (string, error) {
	alphabet := g.cfg.IDAlphabet
	if alphabet == "" || g.cfg.IDLength <= 0 {
		return "", fmt.Errorf("%w: empty alphabet or non-positive length", ErrIDSpaceExhausted)
	}
	if len(existing) >= idSpace(len(alphabet), g.cfg.IDLength) {
		return "", fmt.Errorf("%w: %d identifiers in use", ErrIDSpaceExhausted, len(existing))
	}

	buf := make([]byte, g.cfg.IDLength)
	for attempt := 0; attempt < g.cfg.MaxRetries; attempt++ {
		for i := range buf {
			buf[i] = alphabet[g.rnd.IntN(len(alphabet))]
		}
		id := string(buf)
		if _, taken := existing[id]; !taken {
			return id, nil
		}
		g.metrics.idCollision()
	}
	return "", fmt.Errorf("%w: no free identifier after %d attempts", ErrIDSpaceExhausted, g.cfg.MaxRetries)
}

// idSpace returns symbols^length, saturating at math.MaxInt.
func idSpace(symbols, length int) int {
	space := 1
	for i := 0; i < length; i++ {
		if space > math.MaxInt/symbols {
			return math.MaxInt
		}
		space *= symbols
	}
	return space
}
