package places

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// DirectionsURL links to turn-by-turn directions to lat/lon.
func DirectionsURL(lat, lon float64) string {
	return fmt.Sprintf("https://www.google.com/maps/dir/?api=1&destination=%f,%f", lat, lon)
}

// DirectionsQR encodes the directions link as a PNG QR code of the given
// pixel size so it can be scanned from a phone.
func DirectionsQR(lat, lon float64, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(DirectionsURL(lat, lon), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("directions qr: %w", err)
	}
	return png, nil
}
