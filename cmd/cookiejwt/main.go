// Command cookiejwt issues, inspects and renews identity cookie tokens and
// runs a small demo server backed by sqlite.
package main

func main() {
	Execute()
}
