// Package identity issues the opaque string identifiers assigned to
// workspace entities at creation time.
package identity

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"

	"github.com/google/uuid"
)

// IDProvider produces opaque unique string identifiers. No uniqueness
// guarantee exists beyond probabilistic collision avoidance.
type IDProvider interface {
	NewID() (string, error)
}

type base36Provider struct{}

// NewBase36Provider constructs an IDProvider that issues short
// lowercase base-36 identifiers derived from a random source.
func NewBase36Provider() IDProvider {
	return &base36Provider{}
}

func (p *base36Provider) NewID() (string, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	value := binary.BigEndian.Uint64(buf[:])
	return strconv.FormatUint(value, 36), nil
}

type uuidProvider struct{}

// NewUUIDProvider constructs an IDProvider that issues UUIDv7
// identifiers. The HTTP layer uses it for request correlation ids.
func NewUUIDProvider() IDProvider {
	return &uuidProvider{}
}

func (p *uuidProvider) NewID() (string, error) {
	value, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return value.String(), nil
}
