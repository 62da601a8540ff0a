package main

import "github.com/frahmantamala/nexus/cmd"

func main() {
	cmd.Execute()
}
