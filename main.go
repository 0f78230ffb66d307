package main

import (
	"cloverlink.io/infrastructure"
	"cloverlink.io/infrastructure/env"
)

func init() {
	env.LoadEnv()
}

func main() {
	infrastructure.StartServer()
}
