/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/killallgit/prompthub/cmd"

func main() {
	cmd.Execute()
}
