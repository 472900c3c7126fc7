package main

import "github.com/frahmantamala/workspace-booking/cmd"

func main() {
	cmd.Execute()
}
