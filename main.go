package main

import "github.com/JonMunkholm/WebDbAssistant/cmd"

func main() {
	cmd.Execute()
}
