package main

import "duet-backend/cmd"

func main() {
	cmd.Run()
}
