package main

import "github.com/devyanshnandeshwar/ghostly-app/cmd"

var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	cmd.SetBuildInfo(version, buildTime, gitCommit)
	cmd.Execute()
}
