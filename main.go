package main

import "github.com/Jatin546/routebuddy-mobile-app/cmd"

func main() {
	cmd.Run()
}
