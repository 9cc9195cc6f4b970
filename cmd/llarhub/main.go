package main

import "github.com/goplus/llarhub/cmd/llarhub/internal"

func main() {
	internal.Execute()
}
