package service

import (
	"errors"

	"github.com/skip2/go-qrcode"
)

// DefaultQRGenerator encodes the public URL of a tenant host as a PNG.
type DefaultQRGenerator struct {
	Scheme string
	Size   int
}

func (g DefaultQRGenerator) Generate(host string) ([]byte, error) {
	if host == "" {
		return nil, errors.New("qr code: empty host")
	}
	scheme := g.Scheme
	if scheme == "" {
		scheme = "https"
	}
	size := g.Size
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(scheme+"://"+host, qrcode.Medium, size)
}
