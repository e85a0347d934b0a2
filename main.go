package main

import "github.com/gchongg/lofi-video-generator/internal/cli"

func main() {
	cli.Main()
}
