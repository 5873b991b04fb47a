// Package qrterm prints a scannable QR code of the server's LAN address
// to the terminal so phones on the same network can reach the service
// without typing an IP.
package qrterm

import (
	"fmt"
	"io"
	"net"
	"strconv"

	qrcode "github.com/skip2/go-qrcode"

	"sharegarden/internal/errors"
)

// LANAddr returns the first non-loopback IPv4 address of this machine.
func LANAddr() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", errors.Wrap(err, "list interface addrs")
	}

	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4.String(), nil
		}
	}

	return "", errors.New("no LAN address found")
}

// Print writes the service URL and its QR code to w.
func Print(w io.Writer, port int) error {
	ip, err := LANAddr()
	if err != nil {
		return err
	}

	url := "http://" + net.JoinHostPort(ip, strconv.Itoa(port))

	qr, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return errors.Wrap(err, "build qr code")
	}

	fmt.Fprintf(w, "\nScan to open on another device: %s\n%s\n", url, qr.ToSmallString(false))

	return nil
}
