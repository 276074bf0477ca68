package main

import "ProctorGuard/cmd/proctorctl/cmd"

func main() {
	cmd.Execute()
}
