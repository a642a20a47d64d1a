// Package main is the entry point of the social-book server.
// It sets up and starts the server by calling initialization functions from the internal package.
package main

import (
	"github.com/JaineelPandya/social-book/internal"
)

func main() {
	internal.Init()
}
