package main

import "github.com/digifood/restaurant-backend/cli"

func main() {
	cli.Execute()
}
