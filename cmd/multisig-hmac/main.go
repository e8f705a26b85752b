package main

import "github.com/Laisky/multisig-hmac/cmd"

func main() {
	cmd.Execute()
}
