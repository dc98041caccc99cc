// internal/daily/daily.go
//
// Daily challenge determinism: every player gets the same board on a given
// UTC date. The board's random source is seeded from HMAC-SHA256(salt, date),
// so the layout cannot be predicted without the server salt.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/robalobadob/battleship/internal/game"
)

// IDPrefix marks daily games in the session store so the free-play routes can
// refuse to reset or shoot them.
const IDPrefix = "daily-"

// IsDailyID reports whether a game id belongs to a daily challenge.
func IsDailyID(id string) bool { return strings.HasPrefix(id, IDPrefix) }

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// Seed derives the two PCG seed words for a date.
func Seed(date time.Time, salt string) (uint64, uint64) {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8]), binary.BigEndian.Uint64(sum[8:16])
}

// Rand returns the deterministic random source for a date.
func Rand(date time.Time, salt string) *rand.Rand {
	return rand.New(rand.NewPCG(Seed(date, salt)))
}

// NewGame deals the board of the day.
func NewGame(date time.Time, salt string) (*game.Game, error) {
	g, err := game.New(Rand(date, salt))
	if err != nil {
		return nil, fmt.Errorf("daily board for %s: %w", DateKey(date), err)
	}
	g.ID = IDPrefix + g.ID
	return g, nil
}
