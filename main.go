/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package main

import "sender/cmd"

func main() {
	cmd.Execute()
}
