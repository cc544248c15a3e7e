package banner

import (
	"fmt"
	"io"

	"github.com/skip2/go-qrcode"
)

// PrintQR renders url as an ASCII QR code below the banner so a phone on
// the same network can open the server without typing the address.
// Falls back to plain text if QR generation fails.
func PrintQR(w io.Writer, url string) {
	qr, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		fmt.Fprintf(w, "Error generating QR code: %v\n", err)
		fmt.Fprintf(w, "Open %s manually.\n", url)
		return
	}

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Scan to open:")
	// ToSmallString(false) produces compact half-block output without a border.
	fmt.Fprint(w, qr.ToSmallString(false))
	fmt.Fprintf(w, "%s\n", url)
}
