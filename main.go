package main

import "github.com/beharry-studio/ms-go-booking/cmd"

func main() {
	cmd.Execute()
}
