//go:build !tinygo

package main

// boardtest targets MCU builds; use cmd/pwrsim to exercise the sequence on
// a host.
func main() {
	println("boardtest: build with tinygo for a hardware target")
}
