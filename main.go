package main

import "github.com/frahmantamala/order-admin/cmd"

func main() {
	cmd.Execute()
}
