// Package main is the entry point for the wapp demo server.
package main

func main() {
	Execute()
}
