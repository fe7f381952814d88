package main

// Version is set at build time:
// go build -ldflags "-X main.Version=1.2.0" ./cmd/bloxmision
var Version = "dev"
