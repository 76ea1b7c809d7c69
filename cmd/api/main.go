package main

import (
	"fmt"
	"log"
	"os"

	"investlab/cmd"
)

func main() {
	fmt.Println(os.Getenv("commit_hash"))
	apiHandler, err := cmd.InitializeDependencies()
	if err != nil {
		log.Fatal(err)
	}
	err = apiHandler.StartApi(apiHandler.Config.Port)
	if err != nil {
		log.Fatal(err)
	}
}
