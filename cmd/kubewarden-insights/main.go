package main

import "github.com/rancher/kubewarden-ui-sub002/cmd/kubewarden-insights/commands"

func main() {
	commands.Execute()
}
