package main

import "github.com/FabianSimtlix/bitgo-account-lib/cmd/txtool/cmd"

func main() {
	cmd.Execute()
}
