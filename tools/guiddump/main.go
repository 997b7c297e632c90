package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/mogaika/unity2o3de/unity/assetdb"
)

// guiddump prints the guid index of a source tree, for debugging broken
// references by hand.
func main() {
	var src string
	flag.StringVar(&src, "src", "", "Path to source project assets")
	flag.Parse()

	if src == "" {
		flag.PrintDefaults()
		return
	}

	index, err := assetdb.Build(src)
	if err != nil {
		log.Fatal(err)
	}

	for _, guid := range index.GUIDs() {
		path, _ := index.Resolve(guid)
		fmt.Printf("%s %s\n", guid, path)
	}
}
