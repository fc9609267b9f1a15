package service

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

type TrackingQRGenerator struct {
	BaseURL string
}

func (g TrackingQRGenerator) Generate(orderID int) ([]byte, error) {
	qrData := fmt.Sprintf("%s/track.html?order_id=%d", g.BaseURL, orderID)
	return qrcode.Encode(qrData, qrcode.Medium, 256)
}

var _ QRGenerator = TrackingQRGenerator{}
