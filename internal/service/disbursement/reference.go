package disbursement

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ReferenceGenerator issues human-readable transaction references of the form
// PREFIX + unix millis + 4-digit sequence + 6 hex chars. The sequence makes
// references from one process unique within a millisecond and the random
// suffix separates processes.
type ReferenceGenerator struct {
	prefix string
	seq    atomic.Uint32
	now    func() time.Time
}

func NewReferenceGenerator(prefix string) *ReferenceGenerator {
	return &ReferenceGenerator{prefix: prefix, now: time.Now}
}

func (g *ReferenceGenerator) Next() string {
	n := g.seq.Add(1) % 10000
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("%s%d%04d%s", g.prefix, g.now().UnixMilli(), n, suffix)
}
