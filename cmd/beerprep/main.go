package main

import "github.com/srinivasaraghavankm/beer/internal/cli"

func main() {
	cli.Execute()
}
