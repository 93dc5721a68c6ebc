package password

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// dummyHashes holds one hash per cost, compared against when no stored hash exists
// so a lookup miss costs the same as a wrong password.
var (
	dummyMu     sync.Mutex
	dummyHashes = map[int][]byte{}
)

// Hash returns the bcrypt hash of plain. A cost outside bcrypt's range uses the default.
func Hash(plain string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), normalizeCost(cost))
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Matches reports whether plain is the password behind hashed.
func Matches(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// Burn spends one comparison at cost without matching anything.
func Burn(plain string, cost int) {
	_ = bcrypt.CompareHashAndPassword(dummyHash(cost), []byte(plain))
}

func dummyHash(cost int) []byte {
	cost = normalizeCost(cost)

	dummyMu.Lock()
	defer dummyMu.Unlock()
	if hashed, ok := dummyHashes[cost]; ok {
		return hashed
	}
	hashed, _ := bcrypt.GenerateFromPassword([]byte("no-such-account"), cost)
	dummyHashes[cost] = hashed
	return hashed
}

func normalizeCost(cost int) int {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return cost
}
