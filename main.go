package main

import "github.com/varalys/gitsecrets/cmd/gitsecrets"

func main() { gitsecrets.Execute() }
