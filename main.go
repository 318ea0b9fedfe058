package main

import "github.com/fujiwaratoshiki1106-tech/smoking-area-v2/cmd"

func main() {
	cmd.Execute()
}
