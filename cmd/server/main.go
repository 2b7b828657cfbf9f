package main

import "github.com/eventura-app/server/cmd/server/cmd"

func main() {
	cmd.Execute()
}
