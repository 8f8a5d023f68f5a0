package main

import "github.com/alxtravel/travel-booking/cmd"

func main() {
	cmd.Execute()
}
