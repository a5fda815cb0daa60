package main

import "github.com/lehigh-university-libraries/commonmeta/cmd"

func main() {
	cmd.Execute()
}
